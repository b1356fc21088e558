package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/marketplace-leads/internal/entity"
)

type ListEnquiriesUseCase struct {
	Enquiries entity.EnquiryRepositoryInterface
	Profiles  entity.SellerProfileRepositoryInterface
	Now       func() time.Time
}

func NewListEnquiriesUseCase(enquiries entity.EnquiryRepositoryInterface, profiles entity.SellerProfileRepositoryInterface) *ListEnquiriesUseCase {
	return &ListEnquiriesUseCase{
		Enquiries: enquiries,
		Profiles:  profiles,
		Now:       time.Now,
	}
}

// Execute lists the seller's enquiries with buyer contact masked where the
// seller hasn't paid for it. It never writes.
func (uc *ListEnquiriesUseCase) Execute(ctx context.Context, sellerID string) (*ListEnquiriesOutput, error) {
	profile, err := uc.Profiles.FindBySellerID(ctx, sellerID)
	if errors.Is(err, entity.ErrSellerProfileNotFound) {
		profile = entity.DefaultSellerProfile(sellerID)
	} else if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "erro ao buscar perfil do vendedor", Cause: err}
	}

	enquiries, err := uc.Enquiries.ListBySeller(ctx, sellerID)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "erro ao listar enquiries", Cause: err}
	}

	plan := entity.NormalizePlan(profile.Plan)
	views := make([]EnquiryView, 0, len(enquiries))
	for _, e := range enquiries {
		views = append(views, maskEnquiry(e, plan))
	}

	return &ListEnquiriesOutput{
		Plan:           string(plan),
		Credits:        profile.Credits,
		FreeLeadsUsed:  entity.EffectiveFreeLeadsUsed(profile.FreeLeadsUsed, profile.FreeLeadsMonth, uc.Now()),
		FreeLeadsLimit: entity.FreeLeadAllowance(plan),
		Enquiries:      views,
	}, nil
}

func maskEnquiry(e *entity.Enquiry, plan entity.Plan) EnquiryView {
	v := EnquiryView{
		ID:         e.ID,
		ListingID:  e.ListingID,
		Message:    e.Message,
		CreatedAt:  e.CreatedAt,
		Unlocked:   e.Unlocked,
		UnlockedAt: e.UnlockedAt,
	}
	if e.ContactVisibleTo(plan) {
		v.ContactVisible = true
		v.BuyerName = e.BuyerName
		v.BuyerEmail = e.BuyerEmail
		v.BuyerPhone = e.BuyerPhone
	}
	return v
}
