package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sjperalta/feedesk-api/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeePaymentHandler_Create(t *testing.T) {
	env := newTestEnv()
	r := env.router()

	w := doJSON(r, http.MethodPost, "/fee_payments", gin.H{"payment": sampleRecord()}, "admission_incharge")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"pending"`)
	assert.Contains(t, w.Body.String(), `"receipt_no":"TBREC85836"`)

	w = doJSON(r, http.MethodPost, "/fee_payments", sampleRecord(), "admission_incharge")
	assert.Equal(t, http.StatusConflict, w.Code)

	require.Len(t, env.audit.entries, 1)
	assert.Equal(t, "7", env.audit.entries[0].Actor)
	assert.Equal(t, "admission_incharge", env.audit.entries[0].ActorRole)
}

func TestFeePaymentHandler_CreatePaid(t *testing.T) {
	env := newTestEnv()
	r := env.router()

	body := map[string]interface{}{
		"studentName":               "Anjali Rao",
		"registrationNo":            "TB0925011",
		"totalFee":                  18000,
		"paymentDate":               "2025-08-14",
		"amount":                    6000,
		"previousReceivedAmount":    6000,
		"pendingAmountAfterPayment": 6000,
		"paymentMode":               "Cash",
		"receiptNo":                 "TBREC90001",
		"status":                    "paid",
	}
	w := doJSON(r, http.MethodPost, "/fee_payments", body, "staff")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, models.FeePaymentStatusPaid, env.payments.payments["TBREC90001"].Status)

	// A paid payment is immediately downloadable
	w = doJSON(r, http.MethodGet, "/receipts/TBREC90001", nil, "staff")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestFeePaymentHandler_CreateInvalid(t *testing.T) {
	r := newTestEnv().router()

	record := sampleRecord()
	record.Amount = nil
	w := doJSON(r, http.MethodPost, "/fee_payments", record, "staff")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "amount")

	nested := map[string]interface{}{}
	raw, _ := json.Marshal(sampleRecord())
	require.NoError(t, json.Unmarshal(raw, &nested))
	nested["status"] = "cancelled"
	w = doJSON(r, http.MethodPost, "/fee_payments", gin.H{"payment": nested}, "staff")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestFeePaymentHandler_ApproveAndAudit(t *testing.T) {
	env := newTestEnv()
	env.payments.add(storedPayment(models.FeePaymentStatusPending))
	r := env.router()

	w := doJSON(r, http.MethodPost, "/fee_payments/TBREC85836/approve", nil, "admin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"paid"`)

	w = doJSON(r, http.MethodPost, "/fee_payments/TBREC85836/approve", nil, "admin")
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(r, http.MethodGet, "/fee_payments/TBREC85836/audit", nil, "admin")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"action":"APPROVE"`)

	w = doJSON(r, http.MethodGet, "/fee_payments/NOPE/audit", nil, "admin")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
