package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/feedesk-api/internal/receipt"
	"github.com/sjperalta/feedesk-api/internal/render"
	"github.com/sjperalta/feedesk-api/internal/services"
)

// ReceiptHandler serves fee receipts, both for ad-hoc payment records and
// for payments stored in the fee history.
type ReceiptHandler struct {
	receiptService *services.ReceiptService
}

func NewReceiptHandler(receiptService *services.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

type EmailReceiptRequest struct {
	To string `json:"to" binding:"required"`
}

type CancelReceiptRequest struct {
	Reason string `json:"reason"`
}

// @Summary Preview Receipt
// @Description Compose the receipt document of a payment record without rendering it
// @Tags Receipts
// @Accept json
// @Produce json
// @Param request body receipt.PaymentRecord true "Payment record"
// @Success 200 {object} receipt.Document
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/preview [post]
func (h *ReceiptHandler) Preview(c *gin.Context) {
	var record receipt.PaymentRecord
	if err := BindNestedOrFlat(c, "payment", &record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment record: " + err.Error()})
		return
	}

	doc, err := h.receiptService.Preview(record)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// @Summary Render Receipt
// @Description Render the receipt of a payment record as pdf, html, print or print-pdf
// @Tags Receipts
// @Accept json
// @Produce application/pdf,text/html
// @Param format query string false "Output format" default(pdf)
// @Param request body receipt.PaymentRecord true "Payment record"
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/render [post]
func (h *ReceiptHandler) Render(c *gin.Context) {
	var record receipt.PaymentRecord
	if err := BindNestedOrFlat(c, "payment", &record); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid payment record: " + err.Error()})
		return
	}

	rendered, err := h.receiptService.Render(c.Request.Context(), record, requestedFormat(c))
	if err != nil {
		respondError(c, err)
		return
	}
	sendReceipt(c, rendered)
}

// @Summary Download Receipt
// @Description Render the receipt of a stored, paid fee payment
// @Tags Receipts
// @Produce application/pdf,text/html
// @Param receipt_no path string true "Receipt number"
// @Param format query string false "Output format" default(pdf)
// @Success 200 {file} file
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/{receipt_no} [get]
func (h *ReceiptHandler) Show(c *gin.Context) {
	rendered, err := h.receiptService.RenderByReceiptNo(c.Request.Context(), c.Param("receipt_no"), requestedFormat(c), actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	sendReceipt(c, rendered)
}

// @Summary Receipt Document
// @Description Get the composed receipt document of a stored fee payment
// @Tags Receipts
// @Produce json
// @Param receipt_no path string true "Receipt number"
// @Success 200 {object} receipt.Document
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/{receipt_no}/document [get]
func (h *ReceiptHandler) Document(c *gin.Context) {
	doc, err := h.receiptService.Document(c.Request.Context(), c.Param("receipt_no"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// @Summary Email Receipt
// @Description Queue the PDF receipt of a paid fee payment for email delivery
// @Tags Receipts
// @Accept json
// @Produce json
// @Param receipt_no path string true "Receipt number"
// @Param request body EmailReceiptRequest true "Recipient"
// @Success 202 {object} map[string]string
// @Failure 429 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/{receipt_no}/email [post]
func (h *ReceiptHandler) Email(c *gin.Context) {
	var req EmailReceiptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Recipient email is required"})
		return
	}

	receiptNo := c.Param("receipt_no")
	if err := h.receiptService.EmailReceipt(c.Request.Context(), receiptNo, req.To, actorFrom(c)); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"message": fmt.Sprintf("Receipt %s will be emailed to %s", receiptNo, strings.TrimSpace(req.To)),
	})
}

// @Summary Cancel Receipt
// @Description Cancel a fee payment so its receipt can no longer be issued (Admin)
// @Tags Receipts
// @Accept json
// @Produce json
// @Param receipt_no path string true "Receipt number"
// @Param request body CancelReceiptRequest false "Reason"
// @Success 200 {object} models.FeePaymentResponse
// @Failure 409 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/{receipt_no}/cancel [post]
func (h *ReceiptHandler) Cancel(c *gin.Context) {
	var req CancelReceiptRequest
	// An empty body cancels without a reason
	_ = c.ShouldBindJSON(&req)

	payment, err := h.receiptService.Cancel(c.Request.Context(), c.Param("receipt_no"), req.Reason, actorFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment": payment.ToResponse()})
}

// @Summary Receipt Delivery Log
// @Description List every download and email of a receipt, newest first
// @Tags Receipts
// @Produce json
// @Param receipt_no path string true "Receipt number"
// @Success 200 {array} models.ReceiptLog
// @Failure 404 {object} map[string]string
// @Security BearerAuth
// @Router /receipts/{receipt_no}/logs [get]
func (h *ReceiptHandler) Logs(c *gin.Context) {
	logs, err := h.receiptService.History(c.Request.Context(), c.Param("receipt_no"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

// @Summary Receipt Formats
// @Description List the formats receipts can be rendered in
// @Tags Receipts
// @Produce json
// @Success 200 {object} map[string][]string
// @Security BearerAuth
// @Router /receipts/formats [get]
func (h *ReceiptHandler) Formats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"formats": h.receiptService.Formats()})
}

func requestedFormat(c *gin.Context) string {
	return strings.ToLower(strings.TrimSpace(c.DefaultQuery("format", render.FormatPDF)))
}

// sendReceipt writes a rendered receipt. On-screen formats are served inline,
// everything else as a download.
func sendReceipt(c *gin.Context, rendered *services.RenderedReceipt) {
	disposition := "attachment"
	if rendered.Format == render.FormatHTML || rendered.Format == render.FormatPrint {
		disposition = "inline"
	}
	c.Header("Content-Disposition", fmt.Sprintf("%s; filename=%s", disposition, rendered.Filename))
	c.Header("X-Receipt-Checksum", rendered.Checksum)
	c.Data(http.StatusOK, rendered.ContentType, rendered.Data)
}
