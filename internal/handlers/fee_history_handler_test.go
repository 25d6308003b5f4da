package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/sjperalta/feedesk-api/internal/models"
	"github.com/sjperalta/feedesk-api/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeeHistoryHandler_Index(t *testing.T) {
	env := newTestEnv()
	env.payments.mockList = func(query *repository.ListQuery) ([]models.FeePayment, int64, error) {
		return []models.FeePayment{*storedPayment(models.FeePaymentStatusPaid)}, 41, nil
	}
	r := env.router()

	w := doJSON(r, http.MethodGet, "/fee_history?page=2&per_page=20&status=paid&search=rohit&sort=amount-asc&batch=Morning%20A", nil, "staff")
	require.Equal(t, http.StatusOK, w.Code)

	query := env.payments.lastQuery
	require.NotNil(t, query)
	assert.Equal(t, 2, query.Page)
	assert.Equal(t, "paid", query.Filters["status"])
	assert.Equal(t, "rohit", query.Filters["search_term"])
	assert.Equal(t, "Morning A", query.Filters["batch"])
	assert.Equal(t, "amount", query.SortBy)
	assert.Equal(t, "asc", query.SortDir)

	var body struct {
		Payments   []models.FeePaymentResponse `json:"payments"`
		Pagination map[string]int64            `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Payments, 1)
	assert.Equal(t, int64(3), body.Pagination["total_pages"])
}

func TestFeeHistoryHandler_IndexCapsPageSize(t *testing.T) {
	env := newTestEnv()
	r := env.router()

	w := doJSON(r, http.MethodGet, "/fee_history?per_page=5000&page=-1", nil, "staff")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 100, env.payments.lastQuery.PerPage)
	assert.Equal(t, 1, env.payments.lastQuery.Page)
	assert.Contains(t, w.Body.String(), `"payments":[]`)
}

func TestFeeHistoryHandler_Student(t *testing.T) {
	env := newTestEnv()
	env.payments.add(storedPayment(models.FeePaymentStatusPaid))
	r := env.router()

	// No summary yet
	w := doJSON(r, http.MethodGet, "/students/TB0925002/fee_history", nil, "staff")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"summary":null`)

	last := time.Date(2025, 9, 2, 12, 31, 20, 0, time.UTC)
	env.payments.mockSummary = func(registrationNo string) (*repository.FeeSummary, error) {
		return &repository.FeeSummary{
			RegistrationNo:  registrationNo,
			TotalFee:        12000,
			TotalReceived:   2000,
			CurrentDues:     10000,
			PaymentCount:    1,
			SumOfPayments:   2000,
			LastReceiptNo:   "TBREC85836",
			LastPaymentDate: &last,
		}, nil
	}
	w = doJSON(r, http.MethodGet, "/students/TB0925002/fee_history", nil, "staff")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Payments []models.FeePaymentResponse `json:"payments"`
		Summary  repository.FeeSummary       `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Len(t, body.Payments, 1)
	assert.Equal(t, 10000.0, body.Summary.CurrentDues)
	assert.Equal(t, "TBREC85836", body.Summary.LastReceiptNo)
}

func TestFeeHistoryHandler_Export(t *testing.T) {
	env := newTestEnv()
	env.payments.mockList = func(query *repository.ListQuery) ([]models.FeePayment, int64, error) {
		assert.Zero(t, query.PerPage)
		return []models.FeePayment{*storedPayment(models.FeePaymentStatusPaid)}, 1, nil
	}
	r := env.router()

	w := doJSON(r, http.MethodGet, "/fee_history/export", nil, "staff")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
	assert.Contains(t, w.Header().Get("Content-Disposition"), "fee_history_")
	assert.Contains(t, w.Body.String(), "TBREC85836")

	w = doJSON(r, http.MethodGet, "/fee_history/export?format=xlsx", nil, "staff")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, xlsxContentType, w.Header().Get("Content-Type"))
	// XLSX files are zip archives
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("PK")))

	w = doJSON(r, http.MethodGet, "/fee_history/export?format=pdf", nil, "staff")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthHandler_Index(t *testing.T) {
	r := newTestEnv().router()

	w := doJSON(r, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "feedesk-api")
}
