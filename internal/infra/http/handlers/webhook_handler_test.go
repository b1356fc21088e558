package handlers

import (
	"bytes"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/marketplace-leads/internal/usecase"
)

const webhookSecret = "test-webhook-secret"

func sign(body []byte) string {
	return fmt.Sprintf("%x", sha256.Sum256([]byte(string(body)+webhookSecret)))
}

func webhookRequest(t *testing.T, payload any, signature func([]byte) string) *http.Request {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/webhooks/billing", bytes.NewReader(body))
	if signature != nil {
		req.Header.Set("X-Asaas-Signature", signature(body))
	}
	return req
}

var paymentReceived = map[string]any{
	"id":    "evt_1",
	"event": "PAYMENT_RECEIVED",
	"payment": map[string]any{
		"id":                "pay_123",
		"customer":          "cus_456",
		"value":             99.90,
		"externalReference": "purchase-1",
	},
}

func TestWebhookSignatureVerification(t *testing.T) {
	t.Run("Valid Signature", func(t *testing.T) {
		uc := new(MockApplyBillingEventUseCase)
		uc.On("Execute", mock.Anything, mock.MatchedBy(func(in usecase.ApplyBillingEventInput) bool {
			return in.Provider == "asaas" &&
				in.ProviderEventID == "evt_1" &&
				in.EventType == usecase.EventPaymentReceived &&
				in.PurchaseID == "purchase-1" &&
				in.GatewayPaymentID == "pay_123"
		})).Return(&usecase.ApplyBillingEventOutput{Result: usecase.BillingResultCredited, Credits: 26, CreditsAdded: 25}, nil).Once()

		w := httptest.NewRecorder()
		NewWebhookHandler(uc, webhookSecret).Handle(w, webhookRequest(t, paymentReceived, sign))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"result":"credited"`)
		uc.AssertExpectations(t)
	})

	t.Run("Invalid Signature", func(t *testing.T) {
		uc := new(MockApplyBillingEventUseCase)
		w := httptest.NewRecorder()
		NewWebhookHandler(uc, webhookSecret).Handle(w, webhookRequest(t, paymentReceived, func([]byte) string { return "deadbeef" }))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), "invalid_signature")
		uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("Missing Signature", func(t *testing.T) {
		uc := new(MockApplyBillingEventUseCase)
		w := httptest.NewRecorder()
		NewWebhookHandler(uc, webhookSecret).Handle(w, webhookRequest(t, paymentReceived, nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
	})

	t.Run("No Secret Configured", func(t *testing.T) {
		uc := new(MockApplyBillingEventUseCase)
		w := httptest.NewRecorder()
		NewWebhookHandler(uc, "").Handle(w, webhookRequest(t, paymentReceived, sign))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestWebhook_DuplicateIsOK(t *testing.T) {
	uc := new(MockApplyBillingEventUseCase)
	uc.On("Execute", mock.Anything, mock.Anything).Return(&usecase.ApplyBillingEventOutput{Result: usecase.BillingResultDuplicate}, nil)

	w := httptest.NewRecorder()
	NewWebhookHandler(uc, webhookSecret).Handle(w, webhookRequest(t, paymentReceived, sign))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "duplicate")
}

func TestWebhook_SubscriptionEvent(t *testing.T) {
	payload := map[string]any{
		"id":    "evt_9",
		"event": "SUBSCRIPTION_UPDATED",
		"subscription": map[string]any{
			"id":                "sub_1",
			"description":       "Plano Premium mensal",
			"externalReference": "seller-1",
		},
	}

	uc := new(MockApplyBillingEventUseCase)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(in usecase.ApplyBillingEventInput) bool {
		return in.SellerID == "seller-1" && in.SubscriptionDescription == "Plano Premium mensal" && in.PurchaseID == ""
	})).Return(&usecase.ApplyBillingEventOutput{Result: usecase.BillingResultPlanUpdated, Plan: "premium"}, nil).Once()

	w := httptest.NewRecorder()
	NewWebhookHandler(uc, webhookSecret).Handle(w, webhookRequest(t, payload, sign))

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)
}

func TestWebhook_DatabaseFailureAsksForRedelivery(t *testing.T) {
	uc := new(MockApplyBillingEventUseCase)
	uc.On("Execute", mock.Anything, mock.Anything).
		Return(nil, &usecase.TechnicalError{Code: usecase.CodeDatabase, Message: "erro ao aplicar evento", Cause: errors.New("conn reset")})

	w := httptest.NewRecorder()
	NewWebhookHandler(uc, webhookSecret).Handle(w, webhookRequest(t, paymentReceived, sign))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestWebhook_EventIDFallback(t *testing.T) {
	payload := map[string]any{
		"event":   "PAYMENT_CONFIRMED",
		"payment": map[string]any{"id": "pay_77", "externalReference": "purchase-2"},
	}

	uc := new(MockApplyBillingEventUseCase)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(in usecase.ApplyBillingEventInput) bool {
		return in.ProviderEventID == "PAYMENT_CONFIRMED:pay_77"
	})).Return(&usecase.ApplyBillingEventOutput{Result: usecase.BillingResultAlreadyApplied}, nil).Once()

	w := httptest.NewRecorder()
	NewWebhookHandler(uc, webhookSecret).Handle(w, webhookRequest(t, payload, sign))

	assert.Equal(t, http.StatusOK, w.Code)
	uc.AssertExpectations(t)

	w = httptest.NewRecorder()
	NewWebhookHandler(uc, webhookSecret).Handle(w, webhookRequest(t, map[string]any{"event": "PAYMENT_CREATED"}, sign))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
