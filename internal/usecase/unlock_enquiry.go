package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/xavierca1/marketplace-leads/internal/entity"
	"github.com/xavierca1/marketplace-leads/internal/infra/queue"
)

var tracer = otel.Tracer("github.com/xavierca1/marketplace-leads/internal/usecase")

type UnlockEnquiryUseCase struct {
	Enquiries entity.EnquiryRepositoryInterface
	Profiles  entity.SellerProfileRepositoryInterface
	Tx        entity.TxRunner
	Events    LeadEventPublisher
	Now       func() time.Time
}

func NewUnlockEnquiryUseCase(
	enquiries entity.EnquiryRepositoryInterface,
	profiles entity.SellerProfileRepositoryInterface,
	tx entity.TxRunner,
	events LeadEventPublisher,
) *UnlockEnquiryUseCase {
	return &UnlockEnquiryUseCase{
		Enquiries: enquiries,
		Profiles:  profiles,
		Tx:        tx,
		Events:    events,
		Now:       time.Now,
	}
}

func (uc *UnlockEnquiryUseCase) Execute(ctx context.Context, input UnlockEnquiryInput) (*UnlockEnquiryOutput, error) {
	ctx, span := tracer.Start(ctx, "UnlockEnquiry")
	defer span.End()
	span.SetAttributes(
		attribute.String("enquiry.id", input.EnquiryID),
		attribute.String("seller.id", input.SellerID),
	)

	out, err := uc.execute(ctx, input)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrorCode(err))
		return nil, err
	}
	span.SetAttributes(
		attribute.Bool("unlock.already_unlocked", out.AlreadyUnlocked),
		attribute.String("unlock.funding", out.Funding),
	)
	return out, nil
}

func (uc *UnlockEnquiryUseCase) execute(ctx context.Context, input UnlockEnquiryInput) (*UnlockEnquiryOutput, error) {
	enquiry, err := uc.Enquiries.FindByID(ctx, input.EnquiryID)
	if err != nil {
		if errors.Is(err, entity.ErrEnquiryNotFound) {
			return nil, &DomainError{Code: CodeNotFound, Message: "enquiry não encontrada"}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "erro ao buscar enquiry", Cause: err}
	}

	if enquiry.SellerID != input.SellerID {
		log.Printf("🚫 Vendedor %s tentou desbloquear enquiry %s de outro vendedor", input.SellerID, enquiry.ID)
		return nil, &DomainError{Code: CodeForbidden, Message: "esta enquiry pertence a outro vendedor"}
	}

	if enquiry.Unlocked {
		return uc.alreadyUnlocked(ctx, input.SellerID)
	}

	now := uc.Now()
	var (
		lostRace bool
		profile  *entity.SellerProfile
		decision entity.FundingDecision
	)

	err = uc.Tx.RunInTx(ctx, func(ctx context.Context, tx entity.LedgerTx) error {
		won, err := tx.MarkEnquiryUnlocked(ctx, enquiry.ID, input.SellerID, now)
		if err != nil {
			return err
		}
		if !won {
			lostRace = true
			return nil
		}

		profile, err = tx.LockSellerProfile(ctx, input.SellerID)
		if errors.Is(err, entity.ErrSellerProfileNotFound) {
			profile = entity.DefaultSellerProfile(input.SellerID)
		} else if err != nil {
			return err
		}

		decision = entity.DecideFunding(profile.Plan, profile.FreeLeadsUsed, profile.FreeLeadsMonth, now)
		if decision.ChargeCredit && profile.Credits <= 0 {
			return entity.ErrInsufficientCredits
		}
		if !decision.TouchesProfile() {
			return nil
		}

		profile, err = tx.SaveFunding(ctx, input.SellerID, decision)
		if err != nil {
			return err
		}
		if decision.ChargeCredit {
			entry := entity.NewCreditLedgerEntry(input.SellerID, -1, profile.Credits, entity.LedgerReasonUnlock, enquiry.ID, now)
			return tx.AppendLedger(ctx, entry)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, entity.ErrInsufficientCredits) {
			return nil, &DomainError{
				Code:    CodeInsufficientCredits,
				Message: "créditos insuficientes para desbloquear este contato",
			}
		}
		log.Printf("❌ Falha ao desbloquear enquiry %s: %v", enquiry.ID, err)
		return nil, commitFailed(err)
	}

	if lostRace {
		return uc.alreadyUnlocked(ctx, input.SellerID)
	}

	uc.publishUnlocked(ctx, queue.EnquiryUnlockedPayload{
		EnquiryID:  enquiry.ID,
		SellerID:   input.SellerID,
		Funding:    string(decision.Source),
		UnlockedAt: now,
	})

	return &UnlockEnquiryOutput{
		OK:               true,
		AlreadyUnlocked:  false,
		CreditsRemaining: profile.Credits,
		FreeLeadsUsed:    entity.EffectiveFreeLeadsUsed(profile.FreeLeadsUsed, profile.FreeLeadsMonth, now),
		Plan:             string(entity.NormalizePlan(profile.Plan)),
		Funding:          string(decision.Source),
	}, nil
}

func (uc *UnlockEnquiryUseCase) alreadyUnlocked(ctx context.Context, sellerID string) (*UnlockEnquiryOutput, error) {
	profile, err := uc.Profiles.FindBySellerID(ctx, sellerID)
	if errors.Is(err, entity.ErrSellerProfileNotFound) {
		profile = entity.DefaultSellerProfile(sellerID)
	} else if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "erro ao buscar perfil do vendedor", Cause: err}
	}

	return &UnlockEnquiryOutput{
		OK:               true,
		AlreadyUnlocked:  true,
		CreditsRemaining: profile.Credits,
		FreeLeadsUsed:    entity.EffectiveFreeLeadsUsed(profile.FreeLeadsUsed, profile.FreeLeadsMonth, uc.Now()),
		Plan:             string(entity.NormalizePlan(profile.Plan)),
	}, nil
}

func (uc *UnlockEnquiryUseCase) publishUnlocked(ctx context.Context, payload queue.EnquiryUnlockedPayload) {
	if uc.Events == nil {
		return
	}
	if err := uc.Events.PublishEnquiryUnlocked(ctx, payload); err != nil {
		log.Printf("⚠️ Enquiry %s desbloqueada, mas falha na fila: %v", payload.EnquiryID, err)
	}
}
