package usecase

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/xavierca1/marketplace-leads/internal/entity"
)

const (
	EventPaymentReceived     = "PAYMENT_RECEIVED"
	EventPaymentConfirmed    = "PAYMENT_CONFIRMED"
	EventSubscriptionCreated = "SUBSCRIPTION_CREATED"
	EventSubscriptionUpdated = "SUBSCRIPTION_UPDATED"
	EventSubscriptionDeleted = "SUBSCRIPTION_DELETED"
)

const (
	BillingResultCredited       = "credited"
	BillingResultAlreadyApplied = "already_applied"
	BillingResultPlanUpdated    = "plan_updated"
	BillingResultDuplicate      = "duplicate"
	BillingResultIgnored        = "ignored"
)

type ApplyBillingEventUseCase struct {
	Tx           entity.TxRunner
	Profiles     entity.SellerProfileRepositoryInterface
	EmailService EmailService
	Now          func() time.Time
}

func NewApplyBillingEventUseCase(tx entity.TxRunner, profiles entity.SellerProfileRepositoryInterface, emailService EmailService) *ApplyBillingEventUseCase {
	return &ApplyBillingEventUseCase{
		Tx:           tx,
		Profiles:     profiles,
		EmailService: emailService,
		Now:          time.Now,
	}
}

// Execute applies one provider event exactly once. The event record, the
// purchase status, the balance and the ledger entry commit together, so a
// redelivery either finds the event recorded or finds nothing applied.
func (uc *ApplyBillingEventUseCase) Execute(ctx context.Context, input ApplyBillingEventInput) (*ApplyBillingEventOutput, error) {
	ctx, span := tracer.Start(ctx, "ApplyBillingEvent")
	defer span.End()
	span.SetAttributes(
		attribute.String("billing.provider", input.Provider),
		attribute.String("billing.event", input.EventType),
		attribute.String("billing.event_id", input.ProviderEventID),
	)

	now := uc.Now()
	out := &ApplyBillingEventOutput{Result: BillingResultIgnored}
	var purchase *entity.CreditPurchase

	err := uc.Tx.RunInTx(ctx, func(ctx context.Context, tx entity.LedgerTx) error {
		err := tx.RecordWebhookEvent(ctx, &entity.BillingWebhookEvent{
			ID:              uuid.New().String(),
			Provider:        input.Provider,
			ProviderEventID: input.ProviderEventID,
			EventType:       input.EventType,
			Payload:         input.Payload,
			CreatedAt:       now,
		})
		if err != nil {
			return err
		}

		switch input.EventType {
		case EventPaymentReceived, EventPaymentConfirmed:
			if input.PurchaseID == "" {
				return nil
			}
			p, changed, err := tx.MarkPurchasePaid(ctx, input.PurchaseID, input.GatewayPaymentID, now)
			if errors.Is(err, entity.ErrCreditPurchaseNotFound) {
				log.Printf("⚠️ Pagamento %s sem compra correspondente (%s)", input.GatewayPaymentID, input.PurchaseID)
				return nil
			}
			if err != nil {
				return err
			}
			if !changed {
				out.Result = BillingResultAlreadyApplied
				return nil
			}

			balance, err := tx.AddCredits(ctx, p.SellerID, p.Credits)
			if err != nil {
				return err
			}
			entry := entity.NewCreditLedgerEntry(p.SellerID, p.Credits, balance, entity.LedgerReasonTopUp, p.ID, now)
			if err := tx.AppendLedger(ctx, entry); err != nil {
				return err
			}
			purchase = p
			out.Result = BillingResultCredited
			out.Credits = balance
			out.CreditsAdded = p.Credits
			return nil

		case EventSubscriptionCreated, EventSubscriptionUpdated:
			plan, err := entity.PlanFromProviderRef(input.SubscriptionDescription)
			if err != nil || input.SellerID == "" {
				log.Printf("⚠️ Assinatura sem plano reconhecível: %q (seller %q)", input.SubscriptionDescription, input.SellerID)
				return nil
			}
			if err := tx.SetPlan(ctx, input.SellerID, plan); err != nil {
				return err
			}
			out.Result = BillingResultPlanUpdated
			out.Plan = string(plan)
			return nil

		case EventSubscriptionDeleted:
			if input.SellerID == "" {
				return nil
			}
			if err := tx.SetPlan(ctx, input.SellerID, entity.PlanStandard); err != nil {
				return err
			}
			out.Result = BillingResultPlanUpdated
			out.Plan = string(entity.PlanStandard)
			return nil
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, entity.ErrDuplicateWebhookEvent) {
			log.Printf("🔁 Evento %s/%s já processado", input.Provider, input.ProviderEventID)
			return &ApplyBillingEventOutput{Result: BillingResultDuplicate}, nil
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, CodeDatabase)
		return nil, &TechnicalError{Code: CodeDatabase, Message: "erro ao aplicar evento de cobrança", Cause: err}
	}
	span.SetAttributes(attribute.String("billing.result", out.Result))

	if purchase != nil {
		log.Printf("✅ %d créditos adicionados ao vendedor %s (saldo %d)", purchase.Credits, purchase.SellerID, out.Credits)
		uc.sendReceipt(ctx, purchase, out.Credits)
	}
	return out, nil
}

func (uc *ApplyBillingEventUseCase) sendReceipt(ctx context.Context, purchase *entity.CreditPurchase, balance int) {
	if uc.EmailService == nil || uc.Profiles == nil {
		return
	}
	profile, err := uc.Profiles.FindBySellerID(ctx, purchase.SellerID)
	if err != nil || profile.Email == "" {
		return
	}
	if err := uc.EmailService.SendCreditsReceipt(profile.Email, profile.DisplayName, purchase.Credits, balance); err != nil {
		log.Printf("⚠️ Falha ao enviar recibo da compra %s: %v", purchase.ID, err)
	}
}
