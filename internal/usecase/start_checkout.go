package usecase

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/xavierca1/marketplace-leads/internal/entity"
	"github.com/xavierca1/marketplace-leads/internal/infra/integration/asaas"
)

type StartCheckoutUseCase struct {
	Profiles  entity.SellerProfileRepositoryInterface
	Purchases entity.CreditPurchaseRepositoryInterface
	Gateway   PaymentGateway
}

func NewStartCheckoutUseCase(
	profiles entity.SellerProfileRepositoryInterface,
	purchases entity.CreditPurchaseRepositoryInterface,
	gateway PaymentGateway,
) *StartCheckoutUseCase {
	return &StartCheckoutUseCase{
		Profiles:  profiles,
		Purchases: purchases,
		Gateway:   gateway,
	}
}

// Execute opens a PIX charge for a credit pack. Credits are only added when
// the payment webhook arrives.
func (uc *StartCheckoutUseCase) Execute(ctx context.Context, input StartCheckoutInput) (*StartCheckoutOutput, error) {
	if errs := ValidateStartCheckoutInput(input); len(errs) > 0 {
		return nil, validationFailed(errs)
	}
	pack, _ := entity.FindCreditPack(input.PackID)

	profile, err := uc.Profiles.FindBySellerID(ctx, input.SellerID)
	if err != nil {
		if errors.Is(err, entity.ErrSellerProfileNotFound) {
			return nil, &DomainError{Code: CodeNotFound, Message: "perfil do vendedor não encontrado"}
		}
		return nil, &TechnicalError{Code: CodeDatabase, Message: "erro ao buscar perfil do vendedor", Cause: err}
	}

	purchase := entity.NewCreditPurchase(input.SellerID, pack)
	var charge *asaas.PixCharge

	tx := NewTransaction()
	tx.AddStep("create_purchase",
		func(ctx context.Context) error {
			return uc.Purchases.Create(ctx, purchase)
		},
		func(ctx context.Context) error {
			return uc.Purchases.UpdateStatus(ctx, purchase.ID, entity.PurchaseFailed)
		},
	)
	tx.AddStep("ensure_gateway_customer",
		func(ctx context.Context) error {
			if profile.GatewayCustomerID != "" {
				return nil
			}
			customerID, err := uc.Gateway.CreateCustomer(ctx, asaas.CreateCustomerInput{
				Name:              profile.DisplayName,
				Email:             profile.Email,
				CpfCnpj:           nonDigits.ReplaceAllString(input.CpfCnpj, ""),
				ExternalReference: profile.SellerID,
			})
			if err != nil {
				return err
			}
			profile.GatewayCustomerID = customerID
			return uc.Profiles.SetGatewayCustomerID(ctx, profile.SellerID, customerID)
		},
		nil,
	)
	tx.AddStep("create_pix_charge",
		func(ctx context.Context) error {
			var err error
			charge, err = uc.Gateway.CreatePixCharge(ctx, asaas.PixChargeInput{
				CustomerID:        profile.GatewayCustomerID,
				AmountCents:       pack.AmountCents,
				Description:       fmt.Sprintf("Pacote de %d créditos", pack.Credits),
				ExternalReference: purchase.ID,
			})
			return err
		},
		nil,
	)
	tx.AddStep("save_gateway_payment_id",
		func(ctx context.Context) error {
			purchase.GatewayPaymentID = charge.PaymentID
			return uc.Purchases.SetGatewayPaymentID(ctx, purchase.ID, charge.PaymentID)
		},
		nil,
	)

	if err := tx.Execute(ctx); err != nil {
		log.Printf("❌ Checkout do vendedor %s falhou: %v", input.SellerID, err)
		return nil, &TechnicalError{Code: CodeGateway, Message: "não foi possível gerar a cobrança, tente novamente", Cause: err}
	}

	log.Printf("💳 Cobrança PIX %s criada para a compra %s (%s)", charge.PaymentID, purchase.ID, pack.ID)
	return &StartCheckoutOutput{
		PurchaseID:   purchase.ID,
		PackID:       pack.ID,
		Credits:      pack.Credits,
		AmountCents:  pack.AmountCents,
		Status:       purchase.Status,
		PixCode:      charge.PixCode,
		PixQRCodeURL: charge.PixQRCodeURL,
		ExpiresAt:    charge.ExpiresAt,
	}, nil
}
