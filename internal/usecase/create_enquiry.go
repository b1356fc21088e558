package usecase

import (
	"context"
	"errors"
	"log"
	"strings"

	"github.com/xavierca1/marketplace-leads/internal/entity"
	"github.com/xavierca1/marketplace-leads/internal/infra/queue"
)

type CreateEnquiryUseCase struct {
	Listings  entity.ListingRepositoryInterface
	Enquiries entity.EnquiryRepositoryInterface
	Events    LeadEventPublisher
}

func NewCreateEnquiryUseCase(
	listings entity.ListingRepositoryInterface,
	enquiries entity.EnquiryRepositoryInterface,
	events LeadEventPublisher,
) *CreateEnquiryUseCase {
	return &CreateEnquiryUseCase{
		Listings:  listings,
		Enquiries: enquiries,
		Events:    events,
	}
}

func (uc *CreateEnquiryUseCase) Execute(ctx context.Context, input CreateEnquiryInput) (*CreateEnquiryOutput, error) {
	if errs := ValidateCreateEnquiryInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}

	listing, err := uc.Listings.FindByID(ctx, input.ListingID)
	if err != nil {
		if errors.Is(err, entity.ErrListingNotFound) {
			return nil, &DomainError{Code: CodeNotFound, Message: "anúncio não encontrado"}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "erro ao buscar anúncio", Cause: err}
	}

	enquiry := entity.NewEnquiry(
		listing,
		strings.TrimSpace(input.BuyerName),
		strings.TrimSpace(input.BuyerEmail),
		strings.TrimSpace(input.BuyerPhone),
		strings.TrimSpace(input.Message),
	)

	if err := uc.Enquiries.Create(ctx, enquiry); err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "erro ao salvar enquiry", Cause: err}
	}

	// A linha no banco é a fonte da verdade; falha na fila só atrasa o e-mail
	if uc.Events != nil {
		err := uc.Events.PublishEnquiryCreated(ctx, queue.EnquiryCreatedPayload{
			EnquiryID: enquiry.ID,
			ListingID: enquiry.ListingID,
			SellerID:  enquiry.SellerID,
			Message:   enquiry.Message,
			CreatedAt: enquiry.CreatedAt,
		})
		if err != nil {
			log.Printf("⚠️ Enquiry %s salva, mas falha na fila: %v", enquiry.ID, err)
		}
	}

	return &CreateEnquiryOutput{
		ID:        enquiry.ID,
		ListingID: enquiry.ListingID,
		CreatedAt: enquiry.CreatedAt,
		Msg:       "Mensagem enviada ao anunciante",
	}, nil
}
