package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/xavierca1/marketplace-leads/internal/entity"
)

const creditPurchaseColumns = `id, seller_id, pack_id, credits, amount_cents, status, gateway_payment_id, paid_at, created_at, updated_at`

type CreditPurchaseRepository struct {
	DB *sql.DB
}

func NewCreditPurchaseRepository(db *sql.DB) *CreditPurchaseRepository {
	return &CreditPurchaseRepository{DB: db}
}

func (r *CreditPurchaseRepository) Create(ctx context.Context, p *entity.CreditPurchase) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO credit_purchases (id, seller_id, pack_id, credits, amount_cents, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, p.ID, p.SellerID, p.PackID, p.Credits, p.AmountCents, p.Status, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("erro ao criar compra de créditos: %w", err)
	}
	return nil
}

// UpdateStatus never touches a purchase that is already PAID.
func (r *CreditPurchaseRepository) UpdateStatus(ctx context.Context, id, status string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE credit_purchases SET status = $2, updated_at = NOW() WHERE id = $1 AND status <> 'PAID'
	`, id, status)
	if err != nil {
		return fmt.Errorf("erro ao atualizar compra %s: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrCreditPurchaseNotFound
	}
	return nil
}

func (r *CreditPurchaseRepository) SetGatewayPaymentID(ctx context.Context, id, paymentID string) error {
	_, err := r.DB.ExecContext(ctx, `
		UPDATE credit_purchases SET gateway_payment_id = $2, updated_at = NOW() WHERE id = $1
	`, id, paymentID)
	if err != nil {
		return fmt.Errorf("erro ao salvar pagamento da compra %s: %w", id, err)
	}
	return nil
}

// ExpireStale moves WAITING_PAYMENT purchases created before createdBefore to
// EXPIRED and returns them. SKIP LOCKED lets several instances run the
// expiration worker.
func (r *CreditPurchaseRepository) ExpireStale(ctx context.Context, createdBefore time.Time) ([]*entity.CreditPurchase, error) {
	rows, err := r.DB.QueryContext(ctx, `
		UPDATE credit_purchases
		SET status = 'EXPIRED', updated_at = NOW()
		WHERE id IN (
			SELECT id FROM credit_purchases
			WHERE status = 'WAITING_PAYMENT' AND created_at < $1
			ORDER BY created_at
			LIMIT 500
			FOR UPDATE SKIP LOCKED
		)
		RETURNING `+creditPurchaseColumns,
		createdBefore,
	)
	if err != nil {
		return nil, fmt.Errorf("erro ao expirar compras: %w", err)
	}
	defer rows.Close()

	var out []*entity.CreditPurchase
	for rows.Next() {
		p, err := scanCreditPurchase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanCreditPurchase(s scanner) (*entity.CreditPurchase, error) {
	var (
		p         entity.CreditPurchase
		paymentID sql.NullString
		paidAt    sql.NullTime
	)
	err := s.Scan(
		&p.ID,
		&p.SellerID,
		&p.PackID,
		&p.Credits,
		&p.AmountCents,
		&p.Status,
		&paymentID,
		&paidAt,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrCreditPurchaseNotFound
		}
		return nil, err
	}
	p.GatewayPaymentID = paymentID.String
	if paidAt.Valid {
		t := paidAt.Time
		p.PaidAt = &t
	}
	return &p, nil
}
