package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/xavierca1/marketplace-leads/internal/entity"
	"github.com/xavierca1/marketplace-leads/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// InsufficientCreditsResponse é o corpo do 402: diz ao vendedor como
// conseguir mais desbloqueios.
type InsufficientCreditsResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Action  CallToAction        `json:"action"`
	Packs   []entity.CreditPack `json:"packs"`
}

type CallToAction struct {
	BuyCreditsURL string `json:"buy_credits_url"`
	UpgradeURL    string `json:"upgrade_url"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func statusForCode(code string) int {
	switch code {
	case usecase.CodeValidation:
		return http.StatusBadRequest
	case usecase.CodeNotFound:
		return http.StatusNotFound
	case usecase.CodeForbidden:
		return http.StatusForbidden
	case usecase.CodeInsufficientCredits:
		return http.StatusPaymentRequired
	case usecase.CodeCommitFailed, usecase.CodeDatabase:
		return http.StatusServiceUnavailable
	case usecase.CodeGateway:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeUseCaseError traduz DomainError/TechnicalError para HTTP. A causa
// técnica vai para o log, nunca para o cliente.
func writeUseCaseError(w http.ResponseWriter, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeErrorResponse(w, statusForCode(de.Code), de.Code, de.Message)
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		log.Printf("❌ %s: %v", te.Code, err)
		writeErrorResponse(w, statusForCode(te.Code), te.Code, te.Message)
		return
	}

	log.Printf("❌ Erro inesperado: %v", err)
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "Erro interno")
}

func writeInsufficientCredits(w http.ResponseWriter, message, baseURL string) {
	writeJSON(w, http.StatusPaymentRequired, InsufficientCreditsResponse{
		Error:   usecase.CodeInsufficientCredits,
		Message: message,
		Action: CallToAction{
			BuyCreditsURL: baseURL + "/credits",
			UpgradeURL:    baseURL + "/plans",
		},
		Packs: entity.CreditPacks,
	})
}
