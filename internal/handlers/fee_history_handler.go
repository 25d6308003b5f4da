package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/feedesk-api/internal/models"
	"github.com/sjperalta/feedesk-api/internal/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type FeeHistoryHandler struct {
	historyService *services.FeeHistoryService
	exportService  *services.ExportService
}

func NewFeeHistoryHandler(historyService *services.FeeHistoryService, exportService *services.ExportService) *FeeHistoryHandler {
	return &FeeHistoryHandler{historyService: historyService, exportService: exportService}
}

// @Summary List Fee History
// @Description Get a paginated list of fee payments
// @Tags Fee History
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Param status query string false "Filter by status (comma separated)"
// @Param search_term query string false "Student name, registration or receipt number"
// @Param start_date query string false "From payment date (YYYY-MM-DD)"
// @Param end_date query string false "To payment date (YYYY-MM-DD)"
// @Param batch query string false "Batch name"
// @Param course query string false "Course name"
// @Param sort query string false "field-direction, e.g. payment_date-desc"
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /fee_history [get]
func (h *FeeHistoryHandler) Index(c *gin.Context) {
	query := parseListQuery(c)

	payments, total, err := h.historyService.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments":   toResponses(payments),
		"pagination": pagination(query, total),
	})
}

// @Summary Student Fee History
// @Description Get the fee payments and fee summary of one student
// @Tags Fee History
// @Produce json
// @Param registration_no path string true "Registration number"
// @Param page query int false "Page number" default(1)
// @Param per_page query int false "Items per page" default(20)
// @Success 200 {object} map[string]interface{}
// @Security BearerAuth
// @Router /students/{registration_no}/fee_history [get]
func (h *FeeHistoryHandler) Student(c *gin.Context) {
	registrationNo := c.Param("registration_no")
	query := parseListQuery(c)

	payments, total, err := h.historyService.ListByRegistration(c.Request.Context(), registrationNo, query)
	if err != nil {
		respondError(c, err)
		return
	}

	response := gin.H{
		"payments":   toResponses(payments),
		"pagination": pagination(query, total),
		"summary":    nil,
	}

	summary, err := h.historyService.Summary(c.Request.Context(), registrationNo)
	switch {
	case err == nil:
		response["summary"] = summary
	case errorStatus(err) != http.StatusNotFound:
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// @Summary Export Fee History
// @Description Export the filtered fee history as CSV or XLSX
// @Tags Fee History
// @Produce text/csv,application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param format query string false "csv or xlsx" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} map[string]string
// @Security BearerAuth
// @Router /fee_history/export [get]
func (h *FeeHistoryHandler) Export(c *gin.Context) {
	format := strings.ToLower(c.DefaultQuery("format", "csv"))
	if format != "csv" && format != "xlsx" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Export format must be csv or xlsx"})
		return
	}

	payments, err := h.historyService.All(c.Request.Context(), parseListQuery(c))
	if err != nil {
		respondError(c, err)
		return
	}

	var (
		data        []byte
		filename    string
		contentType string
	)
	if format == "xlsx" {
		data, filename, err = h.exportService.FeeHistoryXLSX(payments)
		contentType = xlsxContentType
	} else {
		data, filename, err = h.exportService.FeeHistoryCSV(payments)
		contentType = "text/csv; charset=utf-8"
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, contentType, data)
}

func toResponses(payments []models.FeePayment) []models.FeePaymentResponse {
	responses := make([]models.FeePaymentResponse, 0, len(payments))
	for i := range payments {
		responses = append(responses, payments[i].ToResponse())
	}
	return responses
}
