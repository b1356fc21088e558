package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/xavierca1/marketplace-leads/internal/entity"
)

const maxTransientRetries = 2

// TxRunner opens one READ COMMITTED transaction per call. Row locks
// (FOR UPDATE) and conditional updates inside the LedgerTx methods carry the
// concurrency guarantees.
type TxRunner struct {
	DB *sql.DB
}

func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{DB: db}
}

// RunInTx commits when fn returns nil and rolls back otherwise. Deadlocks and
// serialization failures rerun fn a couple of times.
func (r *TxRunner) RunInTx(ctx context.Context, fn func(ctx context.Context, tx entity.LedgerTx) error) error {
	var err error
	for attempt := 0; attempt <= maxTransientRetries; attempt++ {
		err = r.runOnce(ctx, fn)
		if err == nil || !IsTransient(err) {
			return err
		}
		log.Printf("🔁 Transação abortada (%v), tentativa %d", err, attempt+1)
		select {
		case <-ctx.Done():
			return err
		case <-time.After(time.Duration(20*(attempt+1)) * time.Millisecond):
		}
	}
	return err
}

func (r *TxRunner) runOnce(ctx context.Context, fn func(ctx context.Context, tx entity.LedgerTx) error) error {
	sqlTx, err := r.DB.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}

	if err := fn(ctx, &ledgerTx{tx: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Printf("⚠️ Rollback falhou: %v", rbErr)
		}
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

type ledgerTx struct {
	tx *sql.Tx
}

func (t *ledgerTx) MarkEnquiryUnlocked(ctx context.Context, enquiryID, sellerID string, at time.Time) (bool, error) {
	res, err := t.tx.ExecContext(ctx, `
		UPDATE enquiries
		SET unlocked = TRUE, unlocked_at = $3, unlocked_by = $2
		WHERE id = $1 AND seller_id = $2 AND unlocked = FALSE
	`, enquiryID, sellerID, at)
	if err != nil {
		return false, fmt.Errorf("erro ao desbloquear enquiry: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (t *ledgerTx) LockSellerProfile(ctx context.Context, sellerID string) (*entity.SellerProfile, error) {
	row := t.tx.QueryRowContext(ctx, `
		SELECT `+sellerProfileColumns+`
		FROM seller_profiles
		WHERE seller_id = $1
		FOR UPDATE
	`, sellerID)
	return scanSellerProfile(row)
}

func (t *ledgerTx) SaveFunding(ctx context.Context, sellerID string, d entity.FundingDecision) (*entity.SellerProfile, error) {
	charge := 0
	if d.ChargeCredit {
		charge = 1
	}

	// credits >= $2 keeps the balance from going negative even without the row lock
	row := t.tx.QueryRowContext(ctx, `
		UPDATE seller_profiles
		SET credits = credits - $2,
		    free_leads_used = $3,
		    free_leads_month = $4,
		    updated_at = NOW()
		WHERE seller_id = $1 AND credits >= $2
		RETURNING `+sellerProfileColumns,
		sellerID, charge, d.FreeLeadsUsed, d.FreeLeadsMonth,
	)
	p, err := scanSellerProfile(row)
	if errors.Is(err, entity.ErrSellerProfileNotFound) {
		return nil, entity.ErrInsufficientCredits
	}
	return p, err
}

func (t *ledgerTx) AppendLedger(ctx context.Context, e *entity.CreditLedgerEntry) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO credit_ledger (id, seller_id, amount, balance_after, reason, reference_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, e.ID, e.SellerID, e.Amount, e.BalanceAfter, e.Reason, e.ReferenceID, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("erro ao gravar extrato: %w", err)
	}
	return nil
}

func (t *ledgerTx) RecordWebhookEvent(ctx context.Context, ev *entity.BillingWebhookEvent) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO billing_webhook_events (id, provider, provider_event_id, event_type, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, ev.ID, ev.Provider, ev.ProviderEventID, ev.EventType, ev.Payload, ev.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return entity.ErrDuplicateWebhookEvent
		}
		return fmt.Errorf("erro ao registrar evento: %w", err)
	}
	return nil
}

func (t *ledgerTx) MarkPurchasePaid(ctx context.Context, purchaseID, gatewayPaymentID string, at time.Time) (*entity.CreditPurchase, bool, error) {
	row := t.tx.QueryRowContext(ctx, `
		UPDATE credit_purchases
		SET status = 'PAID',
		    paid_at = $2,
		    gateway_payment_id = COALESCE(NULLIF($3, ''), gateway_payment_id),
		    updated_at = NOW()
		WHERE id = $1 AND status <> 'PAID'
		RETURNING `+creditPurchaseColumns,
		purchaseID, at, gatewayPaymentID,
	)
	p, err := scanCreditPurchase(row)
	if err == nil {
		return p, true, nil
	}
	if !errors.Is(err, entity.ErrCreditPurchaseNotFound) {
		return nil, false, err
	}

	// nada mudou: já paga ou inexistente
	row = t.tx.QueryRowContext(ctx, `SELECT `+creditPurchaseColumns+` FROM credit_purchases WHERE id = $1`, purchaseID)
	p, err = scanCreditPurchase(row)
	if err != nil {
		return nil, false, err
	}
	return p, false, nil
}

func (t *ledgerTx) AddCredits(ctx context.Context, sellerID string, credits int) (int, error) {
	var balance int
	err := t.tx.QueryRowContext(ctx, `
		INSERT INTO seller_profiles (seller_id, credits)
		VALUES ($1, $2)
		ON CONFLICT (seller_id) DO UPDATE
		SET credits = seller_profiles.credits + EXCLUDED.credits, updated_at = NOW()
		RETURNING credits
	`, sellerID, credits).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("erro ao adicionar créditos: %w", err)
	}
	return balance, nil
}

func (t *ledgerTx) SetPlan(ctx context.Context, sellerID string, plan entity.Plan) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO seller_profiles (seller_id, plan)
		VALUES ($1, $2)
		ON CONFLICT (seller_id) DO UPDATE
		SET plan = EXCLUDED.plan, updated_at = NOW()
	`, sellerID, string(entity.NormalizePlan(plan)))
	if err != nil {
		return fmt.Errorf("erro ao atualizar plano: %w", err)
	}
	return nil
}
