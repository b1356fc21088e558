package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/xavierca1/marketplace-leads/internal/entity"
	"github.com/xavierca1/marketplace-leads/internal/infra/queue"
)

type NotifyNewEnquiryUseCase struct {
	Profiles     entity.SellerProfileRepositoryInterface
	Listings     entity.ListingRepositoryInterface
	EmailService EmailService
	DashboardURL string
}

func NewNotifyNewEnquiryUseCase(
	profiles entity.SellerProfileRepositoryInterface,
	listings entity.ListingRepositoryInterface,
	emailService EmailService,
	dashboardURL string,
) *NotifyNewEnquiryUseCase {
	return &NotifyNewEnquiryUseCase{
		Profiles:     profiles,
		Listings:     listings,
		EmailService: emailService,
		DashboardURL: dashboardURL,
	}
}

// NotifyNewEnquiry emails the seller that a lead is waiting. The buyer's
// contact stays out of the email.
func (uc *NotifyNewEnquiryUseCase) NotifyNewEnquiry(ctx context.Context, payload queue.EnquiryCreatedPayload) error {
	profile, err := uc.Profiles.FindBySellerID(ctx, payload.SellerID)
	if errors.Is(err, entity.ErrSellerProfileNotFound) {
		log.Printf("⚠️ Vendedor %s sem perfil, e-mail da enquiry %s não enviado", payload.SellerID, payload.EnquiryID)
		return nil
	}
	if err != nil {
		return fmt.Errorf("falha ao buscar perfil do vendedor: %w", err)
	}
	if profile.Email == "" {
		log.Printf("⚠️ Vendedor %s sem e-mail cadastrado", payload.SellerID)
		return nil
	}

	title := "seu anúncio"
	listing, err := uc.Listings.FindByID(ctx, payload.ListingID)
	if err == nil {
		title = listing.Title
	} else if !errors.Is(err, entity.ErrListingNotFound) {
		return fmt.Errorf("falha ao buscar anúncio: %w", err)
	}

	if err := uc.EmailService.SendNewEnquiry(profile.Email, profile.DisplayName, title, payload.Message, uc.DashboardURL); err != nil {
		return fmt.Errorf("falha ao enviar e-mail: %w", err)
	}

	log.Printf("📧 Vendedor %s avisado da enquiry %s", payload.SellerID, payload.EnquiryID)
	return nil
}
