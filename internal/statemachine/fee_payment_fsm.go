package statemachine

import (
	"context"
	"fmt"
	"time"

	"github.com/looplab/fsm"
	"github.com/sjperalta/feedesk-api/internal/models"
)

// Fee payment events
const (
	EventApprove = "approve"
	EventCancel  = "cancel"
)

// FeePaymentFSM wraps a fee payment with its state machine
type FeePaymentFSM struct {
	payment *models.FeePayment
	fsm     *fsm.FSM
	now     func() time.Time
}

// NewFeePaymentFSM creates a new fee payment state machine
func NewFeePaymentFSM(payment *models.FeePayment) *FeePaymentFSM {
	pfsm := &FeePaymentFSM{
		payment: payment,
		now:     time.Now,
	}

	pfsm.fsm = fsm.NewFSM(
		payment.Status,
		fsm.Events{
			// pending → paid
			{Name: EventApprove, Src: []string{models.FeePaymentStatusPending}, Dst: models.FeePaymentStatusPaid},

			// pending/paid → cancelled (a cancelled receipt can no longer be issued)
			{Name: EventCancel, Src: []string{models.FeePaymentStatusPending, models.FeePaymentStatusPaid}, Dst: models.FeePaymentStatusCancelled},
		},
		fsm.Callbacks{},
	)

	return pfsm
}

// Approve transitions the payment to paid and stamps the approver
func (p *FeePaymentFSM) Approve(ctx context.Context, actor string) error {
	if !p.payment.MayApprove() {
		return fmt.Errorf("fee payment cannot be approved in current state: %s", p.payment.Status)
	}

	if err := p.fsm.Event(ctx, EventApprove); err != nil {
		return fmt.Errorf("failed to approve fee payment: %w", err)
	}

	now := p.now()
	p.payment.Status = p.fsm.Current()
	p.payment.ApprovedAt = &now
	p.payment.ApprovedBy = &actor
	return nil
}

// Cancel transitions the payment to cancelled and records why
func (p *FeePaymentFSM) Cancel(ctx context.Context, actor, reason string) error {
	if !p.payment.MayCancel() {
		return fmt.Errorf("fee payment cannot be cancelled in current state: %s", p.payment.Status)
	}

	if err := p.fsm.Event(ctx, EventCancel); err != nil {
		return fmt.Errorf("failed to cancel fee payment: %w", err)
	}

	now := p.now()
	p.payment.Status = p.fsm.Current()
	p.payment.CancelledAt = &now
	p.payment.CancelledBy = &actor
	if reason != "" {
		p.payment.CancellationReason = &reason
	}
	return nil
}

// Current returns the current state
func (p *FeePaymentFSM) Current() string {
	return p.fsm.Current()
}

// Can checks if a transition is possible
func (p *FeePaymentFSM) Can(event string) bool {
	return p.fsm.Can(event)
}
