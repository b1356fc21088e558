package entity

import (
	"context"
	"errors"
	"time"
)

var (
	ErrSellerProfileNotFound = errors.New("perfil do vendedor não encontrado")
	ErrInsufficientCredits   = errors.New("créditos insuficientes")
)

// SellerProfile holds the plan and the unlock balances of one seller.
// Credits never go below zero; FreeLeadsUsed only counts for FreeLeadsMonth.
type SellerProfile struct {
	SellerID          string    `json:"seller_id"`
	Email             string    `json:"email"`
	DisplayName       string    `json:"display_name"`
	Plan              Plan      `json:"plan"`
	Credits           int       `json:"credits"`
	FreeLeadsUsed     int       `json:"free_leads_used"`
	FreeLeadsMonth    string    `json:"free_leads_month"`
	GatewayCustomerID string    `json:"gateway_customer_id,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// DefaultSellerProfile is what the ledger assumes for a seller with no row:
// standard plan, no credits.
func DefaultSellerProfile(sellerID string) *SellerProfile {
	return &SellerProfile{SellerID: sellerID, Plan: PlanStandard}
}

type SellerProfileRepositoryInterface interface {
	FindBySellerID(ctx context.Context, sellerID string) (*SellerProfile, error)
	SetGatewayCustomerID(ctx context.Context, sellerID, gatewayCustomerID string) error
}
