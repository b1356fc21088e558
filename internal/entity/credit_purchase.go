package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCreditPackNotFound     = errors.New("pacote de créditos não encontrado")
	ErrCreditPurchaseNotFound = errors.New("compra de créditos não encontrada")
)

const (
	PurchaseWaitingPayment = "WAITING_PAYMENT"
	PurchasePaid           = "PAID"
	PurchaseExpired        = "EXPIRED"
	PurchaseFailed         = "FAILED"
)

type CreditPack struct {
	ID          string `json:"id"`
	Credits     int    `json:"credits"`
	AmountCents int    `json:"amount_cents"`
}

var CreditPacks = []CreditPack{
	{ID: "pack_10", Credits: 10, AmountCents: 4990},
	{ID: "pack_25", Credits: 25, AmountCents: 9990},
	{ID: "pack_50", Credits: 50, AmountCents: 17990},
}

func FindCreditPack(id string) (CreditPack, error) {
	for _, p := range CreditPacks {
		if p.ID == id {
			return p, nil
		}
	}
	return CreditPack{}, ErrCreditPackNotFound
}

// CreditPurchase is a one-off credit top-up paid through the gateway.
type CreditPurchase struct {
	ID               string     `json:"id"`
	SellerID         string     `json:"seller_id"`
	PackID           string     `json:"pack_id"`
	Credits          int        `json:"credits"`
	AmountCents      int        `json:"amount_cents"`
	Status           string     `json:"status"`
	GatewayPaymentID string     `json:"gateway_payment_id,omitempty"`
	PaidAt           *time.Time `json:"paid_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

func NewCreditPurchase(sellerID string, pack CreditPack) *CreditPurchase {
	now := time.Now()
	return &CreditPurchase{
		ID:          uuid.New().String(),
		SellerID:    sellerID,
		PackID:      pack.ID,
		Credits:     pack.Credits,
		AmountCents: pack.AmountCents,
		Status:      PurchaseWaitingPayment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

type CreditPurchaseRepositoryInterface interface {
	Create(ctx context.Context, p *CreditPurchase) error
	UpdateStatus(ctx context.Context, id, status string) error
	SetGatewayPaymentID(ctx context.Context, id, paymentID string) error
	ExpireStale(ctx context.Context, createdBefore time.Time) ([]*CreditPurchase, error)
}
