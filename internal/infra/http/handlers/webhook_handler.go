package handlers

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/xavierca1/marketplace-leads/internal/infra/http/middleware"
	"github.com/xavierca1/marketplace-leads/internal/infra/integration/asaas"
	"github.com/xavierca1/marketplace-leads/internal/usecase"
)

const (
	signatureHeader     = "X-Asaas-Signature"
	maxWebhookBodyBytes = 1 << 20
)

type ApplyBillingEventExecutor interface {
	Execute(ctx context.Context, input usecase.ApplyBillingEventInput) (*usecase.ApplyBillingEventOutput, error)
}

type WebhookHandler struct {
	ApplyBillingEventUC ApplyBillingEventExecutor
	Secret              string
}

func NewWebhookHandler(uc ApplyBillingEventExecutor, secret string) *WebhookHandler {
	return &WebhookHandler{
		ApplyBillingEventUC: uc,
		Secret:              secret,
	}
}

// Handle: POST /webhooks/billing
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBodyBytes))
	if err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_BODY", "corpo inválido")
		return
	}

	if !h.validSignature(body, r.Header.Get(signatureHeader)) {
		log.Printf("🚫 Webhook com assinatura inválida (ip=%s)", r.RemoteAddr)
		middleware.RecordBillingWebhook("unknown", "invalid_signature")
		writeErrorResponse(w, http.StatusUnauthorized, "invalid_signature", "assinatura inválida")
		return
	}

	var event asaas.WebhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}

	input := toBillingEventInput(event, body)
	if input.ProviderEventID == "" {
		writeErrorResponse(w, http.StatusBadRequest, "MISSING_EVENT_ID", "evento sem identificador")
		return
	}

	output, err := h.ApplyBillingEventUC.Execute(r.Context(), input)
	if err != nil {
		middleware.RecordBillingWebhook(event.Event, "error")
		// 5xx faz o Asaas reenviar; a deduplicação torna o reenvio seguro
		writeUseCaseError(w, err)
		return
	}

	middleware.RecordBillingWebhook(event.Event, output.Result)
	if output.Result == usecase.BillingResultCredited {
		middleware.RecordCreditsPurchased(output.CreditsAdded)
	}
	writeJSON(w, http.StatusOK, output)
}

// validSignature confere hex(sha256(body + secret)). Sem segredo configurado
// nenhum webhook é aceito.
func (h *WebhookHandler) validSignature(body []byte, signature string) bool {
	if h.Secret == "" || signature == "" {
		return false
	}
	sum := sha256.Sum256(append(append([]byte{}, body...), h.Secret...))
	expected := hex.EncodeToString(sum[:])
	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

func toBillingEventInput(event asaas.WebhookEvent, body []byte) usecase.ApplyBillingEventInput {
	input := usecase.ApplyBillingEventInput{
		Provider:        asaas.Provider,
		ProviderEventID: event.ID,
		EventType:       event.Event,
		Payload:         string(body),
	}

	if p := event.Payment; p != nil {
		input.PurchaseID = p.ExternalReference
		input.GatewayPaymentID = p.ID
		if input.ProviderEventID == "" && p.ID != "" {
			input.ProviderEventID = event.Event + ":" + p.ID
		}
	}
	if s := event.Subscription; s != nil {
		input.SellerID = s.ExternalReference
		input.SubscriptionDescription = s.Description
		if input.ProviderEventID == "" && s.ID != "" {
			input.ProviderEventID = event.Event + ":" + s.ID
		}
	}
	return input
}
