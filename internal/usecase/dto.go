package usecase

import (
	"time"

	"github.com/xavierca1/marketplace-leads/internal/entity"
)

type UnlockEnquiryInput struct {
	EnquiryID string
	SellerID  string
}

type UnlockEnquiryOutput struct {
	OK               bool   `json:"ok"`
	AlreadyUnlocked  bool   `json:"alreadyUnlocked"`
	CreditsRemaining int    `json:"creditsRemaining"`
	FreeLeadsUsed    int    `json:"freeLeadsUsed"`
	Plan             string `json:"plan"`
	// Funding is empty when nothing was charged because the enquiry was
	// already unlocked.
	Funding string `json:"funding,omitempty"`
}

type ListEnquiriesOutput struct {
	Plan           string        `json:"plan"`
	Credits        int           `json:"credits"`
	FreeLeadsUsed  int           `json:"freeLeadsUsed"`
	FreeLeadsLimit int           `json:"freeLeadsLimit"`
	Enquiries      []EnquiryView `json:"enquiries"`
}

// EnquiryView is an enquiry as its owner sees it. Buyer fields are empty
// unless ContactVisible.
type EnquiryView struct {
	ID             string     `json:"id"`
	ListingID      string     `json:"listing_id"`
	Message        string     `json:"message"`
	CreatedAt      time.Time  `json:"created_at"`
	Unlocked       bool       `json:"unlocked"`
	UnlockedAt     *time.Time `json:"unlocked_at,omitempty"`
	ContactVisible bool       `json:"contact_visible"`
	BuyerName      string     `json:"buyer_name,omitempty"`
	BuyerEmail     string     `json:"buyer_email,omitempty"`
	BuyerPhone     string     `json:"buyer_phone,omitempty"`
}

type CreateEnquiryInput struct {
	ListingID  string `json:"-"`
	BuyerName  string `json:"name"`
	BuyerEmail string `json:"email"`
	BuyerPhone string `json:"phone"`
	Message    string `json:"message"`
}

type CreateEnquiryOutput struct {
	ID        string    `json:"id"`
	ListingID string    `json:"listing_id"`
	CreatedAt time.Time `json:"created_at"`
	Msg       string    `json:"msg"`
}

type StartCheckoutInput struct {
	SellerID string `json:"-"`
	PackID   string `json:"pack_id"`
	CpfCnpj  string `json:"cpf_cnpj"`
}

type StartCheckoutOutput struct {
	PurchaseID   string `json:"purchase_id"`
	PackID       string `json:"pack_id"`
	Credits      int    `json:"credits"`
	AmountCents  int    `json:"amount_cents"`
	Status       string `json:"status"`
	PixCode      string `json:"pix_code"`
	PixQRCodeURL string `json:"pix_qr_code_url"`
	ExpiresAt    string `json:"expires_at,omitempty"`
}

type GetCreditsOutput struct {
	Plan           string                      `json:"plan"`
	Credits        int                         `json:"credits"`
	FreeLeadsUsed  int                         `json:"freeLeadsUsed"`
	FreeLeadsLimit int                         `json:"freeLeadsLimit"`
	Packs          []entity.CreditPack         `json:"packs"`
	History        []*entity.CreditLedgerEntry `json:"history"`
}

type ApplyBillingEventInput struct {
	Provider        string
	ProviderEventID string
	EventType       string
	Payload         string
	// PurchaseID is the payment's externalReference
	PurchaseID       string
	GatewayPaymentID string
	// SellerID is the subscription's externalReference
	SellerID                string
	SubscriptionDescription string
}

type ApplyBillingEventOutput struct {
	Result string `json:"result"`
	// Credits is the balance after a top-up
	Credits      int    `json:"credits,omitempty"`
	CreditsAdded int    `json:"creditsAdded,omitempty"`
	Plan         string `json:"plan,omitempty"`
}
