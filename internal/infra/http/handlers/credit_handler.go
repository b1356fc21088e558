package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/xavierca1/marketplace-leads/internal/infra/http/middleware"
	"github.com/xavierca1/marketplace-leads/internal/usecase"
)

type GetCreditsExecutor interface {
	Execute(ctx context.Context, sellerID string) (*usecase.GetCreditsOutput, error)
}

type StartCheckoutExecutor interface {
	Execute(ctx context.Context, input usecase.StartCheckoutInput) (*usecase.StartCheckoutOutput, error)
}

type CreditHandler struct {
	GetCreditsUC    GetCreditsExecutor
	StartCheckoutUC StartCheckoutExecutor
}

func NewCreditHandler(getCredits GetCreditsExecutor, startCheckout StartCheckoutExecutor) *CreditHandler {
	return &CreditHandler{
		GetCreditsUC:    getCredits,
		StartCheckoutUC: startCheckout,
	}
}

// HandleGet: GET /credits
func (h *CreditHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "Sessão inválida ou expirada")
		return
	}

	output, err := h.GetCreditsUC.Execute(r.Context(), sellerID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

// HandleCheckout: POST /credits/checkout
func (h *CreditHandler) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "Sessão inválida ou expirada")
		return
	}

	var input usecase.StartCheckoutInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido: "+err.Error())
		return
	}
	input.SellerID = sellerID

	output, err := h.StartCheckoutUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, output)
}
