package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/xavierca1/marketplace-leads/internal/entity"
)

const creditHistoryLimit = 20

type GetCreditsUseCase struct {
	Profiles entity.SellerProfileRepositoryInterface
	Ledger   entity.CreditLedgerRepositoryInterface
	Now      func() time.Time
}

func NewGetCreditsUseCase(profiles entity.SellerProfileRepositoryInterface, ledger entity.CreditLedgerRepositoryInterface) *GetCreditsUseCase {
	return &GetCreditsUseCase{Profiles: profiles, Ledger: ledger, Now: time.Now}
}

func (uc *GetCreditsUseCase) Execute(ctx context.Context, sellerID string) (*GetCreditsOutput, error) {
	profile, err := uc.Profiles.FindBySellerID(ctx, sellerID)
	if errors.Is(err, entity.ErrSellerProfileNotFound) {
		profile = entity.DefaultSellerProfile(sellerID)
	} else if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "erro ao buscar perfil do vendedor", Cause: err}
	}

	history, err := uc.Ledger.ListBySeller(ctx, sellerID, creditHistoryLimit)
	if err != nil {
		return nil, &TechnicalError{Code: CodeDatabase, Message: "erro ao buscar extrato de créditos", Cause: err}
	}
	if history == nil {
		history = []*entity.CreditLedgerEntry{}
	}

	plan := entity.NormalizePlan(profile.Plan)
	return &GetCreditsOutput{
		Plan:           string(plan),
		Credits:        profile.Credits,
		FreeLeadsUsed:  entity.EffectiveFreeLeadsUsed(profile.FreeLeadsUsed, profile.FreeLeadsMonth, uc.Now()),
		FreeLeadsLimit: entity.FreeLeadAllowance(plan),
		Packs:          entity.CreditPacks,
		History:        history,
	}, nil
}
