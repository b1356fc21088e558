package entity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrEnquiryNotFound = errors.New("enquiry não encontrada")
	ErrListingNotFound = errors.New("anúncio não encontrado")
)

// Enquiry is a buyer's interest in a listing. Buyer contact fields stay
// hidden from the owning seller until the enquiry is unlocked.
type Enquiry struct {
	ID         string     `json:"id"`
	ListingID  string     `json:"listing_id"`
	SellerID   string     `json:"seller_id"`
	BuyerName  string     `json:"buyer_name"`
	BuyerEmail string     `json:"buyer_email"`
	BuyerPhone string     `json:"buyer_phone,omitempty"`
	Message    string     `json:"message"`
	CreatedAt  time.Time  `json:"created_at"`
	Unlocked   bool       `json:"unlocked"`
	UnlockedAt *time.Time `json:"unlocked_at,omitempty"`
	UnlockedBy *string    `json:"unlocked_by,omitempty"`
}

func NewEnquiry(listing *Listing, buyerName, buyerEmail, buyerPhone, message string) *Enquiry {
	return &Enquiry{
		ID:         uuid.New().String(),
		ListingID:  listing.ID,
		SellerID:   listing.SellerID,
		BuyerName:  buyerName,
		BuyerEmail: buyerEmail,
		BuyerPhone: buyerPhone,
		Message:    message,
		CreatedAt:  time.Now(),
	}
}

// ContactVisibleTo reports whether the owner on the given plan may see the
// buyer's contact details. Pro sees everything without unlocking.
func (e *Enquiry) ContactVisibleTo(plan Plan) bool {
	return e.Unlocked || NormalizePlan(plan) == PlanPro
}

type Listing struct {
	ID        string    `json:"id"`
	SellerID  string    `json:"seller_id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

type EnquiryRepositoryInterface interface {
	Create(ctx context.Context, e *Enquiry) error
	FindByID(ctx context.Context, id string) (*Enquiry, error)
	ListBySeller(ctx context.Context, sellerID string) ([]*Enquiry, error)
}

type ListingRepositoryInterface interface {
	FindByID(ctx context.Context, id string) (*Listing, error)
}
