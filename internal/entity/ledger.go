package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrDuplicateWebhookEvent = errors.New("evento de webhook já processado")

const (
	LedgerReasonUnlock = "UNLOCK"
	LedgerReasonTopUp  = "TOP_UP"
)

// CreditLedgerEntry is an immutable record of one credit movement.
type CreditLedgerEntry struct {
	ID           string    `json:"id"`
	SellerID     string    `json:"seller_id"`
	Amount       int       `json:"amount"`
	BalanceAfter int       `json:"balance_after"`
	Reason       string    `json:"reason"`
	ReferenceID  string    `json:"reference_id"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewCreditLedgerEntry(sellerID string, amount, balanceAfter int, reason, referenceID string, at time.Time) *CreditLedgerEntry {
	return &CreditLedgerEntry{
		ID:           uuid.New().String(),
		SellerID:     sellerID,
		Amount:       amount,
		BalanceAfter: balanceAfter,
		Reason:       reason,
		ReferenceID:  referenceID,
		CreatedAt:    at,
	}
}

// BillingWebhookEvent is kept per (provider, provider event id) so a
// redelivered webhook is applied once.
type BillingWebhookEvent struct {
	ID              string    `json:"id"`
	Provider        string    `json:"provider"`
	ProviderEventID string    `json:"provider_event_id"`
	EventType       string    `json:"event_type"`
	Payload         string    `json:"payload"`
	CreatedAt       time.Time `json:"created_at"`
}

// LedgerTx is the set of writes that must commit together. Every method runs
// inside the transaction opened by TxRunner.RunInTx.
type LedgerTx interface {
	// MarkEnquiryUnlocked flips unlocked false->true for the owning seller and
	// reports whether this call made the transition.
	MarkEnquiryUnlocked(ctx context.Context, enquiryID, sellerID string, at time.Time) (bool, error)
	// LockSellerProfile reads the profile and holds its row lock until commit.
	LockSellerProfile(ctx context.Context, sellerID string) (*SellerProfile, error)
	// SaveFunding writes the decision; a credit charge only applies while
	// credits > 0, otherwise ErrInsufficientCredits.
	SaveFunding(ctx context.Context, sellerID string, d FundingDecision) (*SellerProfile, error)
	AppendLedger(ctx context.Context, e *CreditLedgerEntry) error

	RecordWebhookEvent(ctx context.Context, ev *BillingWebhookEvent) error
	// MarkPurchasePaid moves a purchase to PAID and reports false when it
	// was already paid.
	MarkPurchasePaid(ctx context.Context, purchaseID, gatewayPaymentID string, at time.Time) (*CreditPurchase, bool, error)
	AddCredits(ctx context.Context, sellerID string, credits int) (int, error)
	SetPlan(ctx context.Context, sellerID string, plan Plan) error
}

type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx LedgerTx) error) error
}

type CreditLedgerRepositoryInterface interface {
	ListBySeller(ctx context.Context, sellerID string, limit int) ([]*CreditLedgerEntry, error)
}
