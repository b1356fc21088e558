package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/xavierca1/marketplace-leads/internal/infra/http/middleware"
	"github.com/xavierca1/marketplace-leads/internal/usecase"
)

const maxEnquiryBodyBytes = 16 << 10

type UnlockEnquiryExecutor interface {
	Execute(ctx context.Context, input usecase.UnlockEnquiryInput) (*usecase.UnlockEnquiryOutput, error)
}

type ListEnquiriesExecutor interface {
	Execute(ctx context.Context, sellerID string) (*usecase.ListEnquiriesOutput, error)
}

type CreateEnquiryExecutor interface {
	Execute(ctx context.Context, input usecase.CreateEnquiryInput) (*usecase.CreateEnquiryOutput, error)
}

type EnquiryHandler struct {
	ListUC     ListEnquiriesExecutor
	UnlockUC   UnlockEnquiryExecutor
	CreateUC   CreateEnquiryExecutor
	MaxRetries int
	BaseURL    string
}

func NewEnquiryHandler(list ListEnquiriesExecutor, unlock UnlockEnquiryExecutor, create CreateEnquiryExecutor, maxRetries int, baseURL string) *EnquiryHandler {
	return &EnquiryHandler{
		ListUC:     list,
		UnlockUC:   unlock,
		CreateUC:   create,
		MaxRetries: maxRetries,
		BaseURL:    baseURL,
	}
}

// HandleList: GET /enquiries
func (h *EnquiryHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "Sessão inválida ou expirada")
		return
	}

	output, err := h.ListUC.Execute(r.Context(), sellerID)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, output)
}

// HandleUnlock: POST /enquiries/{id}/unlock
func (h *EnquiryHandler) HandleUnlock(w http.ResponseWriter, r *http.Request) {
	sellerID, ok := middleware.SellerFromContext(r.Context())
	if !ok {
		writeErrorResponse(w, http.StatusUnauthorized, "UNAUTHORIZED", "Sessão inválida ou expirada")
		return
	}

	input := usecase.UnlockEnquiryInput{
		EnquiryID: chi.URLParam(r, "id"),
		SellerID:  sellerID,
	}

	var output *usecase.UnlockEnquiryOutput
	err := usecase.WithRetries(r.Context(), h.MaxRetries, func() error {
		out, err := h.UnlockUC.Execute(r.Context(), input)
		output = out
		return err
	}, usecase.IsRetryable)

	if err != nil {
		code := usecase.ErrorCode(err)
		if code == "" {
			code = "INTERNAL_ERROR"
		}
		middleware.RecordUnlockFailure(code)

		if code == usecase.CodeInsufficientCredits {
			writeInsufficientCredits(w, err.Error(), h.BaseURL)
			return
		}
		writeUseCaseError(w, err)
		return
	}

	if !output.AlreadyUnlocked {
		middleware.RecordUnlock(output.Funding)
	}
	writeJSON(w, http.StatusOK, output)
}

// HandleCreate: POST /listings/{id}/enquiries (público)
func (h *EnquiryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input usecase.CreateEnquiryInput
	r.Body = http.MaxBytesReader(w, r.Body, maxEnquiryBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "JSON inválido")
		return
	}
	input.ListingID = chi.URLParam(r, "id")

	output, err := h.CreateUC.Execute(r.Context(), input)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, output)
}
