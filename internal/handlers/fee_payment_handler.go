package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/feedesk-api/internal/receipt"
	"github.com/sjperalta/feedesk-api/internal/services"
)

type FeePaymentHandler struct {
	feePaymentService *services.FeePaymentService
}

func NewFeePaymentHandler(feePaymentService *services.FeePaymentService) *FeePaymentHandler {
	return &FeePaymentHandler{feePaymentService: feePaymentService}
}

// CreateFeePaymentRequest is a payment record as sent by the school backend
// plus the status it should be stored with ("pending" when empty).
type CreateFeePaymentRequest struct {
	receipt.PaymentRecord
	Status string `json:"status"`
}

// @Summary Record Fee Payment
// @Description Store a fee payment reported by the school backend
// @Tags Fee Payments
// @Accept json
// @Produce json
// @Param request body CreateFeePaymentRequest true "Payment record"
// @Success 201 {object} models.FeePaymentResponse
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /fee_payments [post]
func (h *FeePaymentHandler) Create(c *gin.Context) {
	var req CreateFeePaymentRequest
	if err := BindNestedOrFlat(c, "payment", &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment record: " + err.Error()})
		return
	}

	payment, err := h.feePaymentService.Record(c.Request.Context(), req.PaymentRecord, req.Status, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"payment": payment.ToResponse()})
}

// @Summary Approve Fee Payment
// @Description Mark a pending fee payment as paid (Admin)
// @Tags Fee Payments
// @Produce json
// @Param receipt_no path string true "Receipt number"
// @Success 200 {object} models.FeePaymentResponse
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /fee_payments/{receipt_no}/approve [post]
func (h *FeePaymentHandler) Approve(c *gin.Context) {
	payment, err := h.feePaymentService.Approve(c.Request.Context(), c.Param("receipt_no"), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// @Summary Fee Payment Audit Trail
// @Description List the audit entries of a fee payment, newest first (Admin)
// @Tags Fee Payments
// @Produce json
// @Param receipt_no path string true "Receipt number"
// @Success 200 {array} models.AuditLog
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /fee_payments/{receipt_no}/audit [get]
func (h *FeePaymentHandler) Audit(c *gin.Context) {
	entries, err := h.feePaymentService.AuditTrail(c.Request.Context(), c.Param("receipt_no"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audit_logs": entries})
}
