package handlers

import (
	"github.com/sjperalta/feedesk-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Health     *HealthHandler
	Receipt    *ReceiptHandler
	FeePayment *FeePaymentHandler
	FeeHistory *FeeHistoryHandler
	Job        *JobHandler
}

// NewHandlers creates all handler instances
func NewHandlers(svcs *services.Services) *Handlers {
	return &Handlers{
		Health:     NewHealthHandler(),
		Receipt:    NewReceiptHandler(svcs.Receipt),
		FeePayment: NewFeePaymentHandler(svcs.FeePayment),
		FeeHistory: NewFeeHistoryHandler(svcs.FeeHistory, svcs.Export),
		Job:        NewJobHandler(svcs.Job),
	}
}
