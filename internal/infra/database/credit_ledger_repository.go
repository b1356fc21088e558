package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/xavierca1/marketplace-leads/internal/entity"
)

type CreditLedgerRepository struct {
	DB *sql.DB
}

func NewCreditLedgerRepository(db *sql.DB) *CreditLedgerRepository {
	return &CreditLedgerRepository{DB: db}
}

func (r *CreditLedgerRepository) ListBySeller(ctx context.Context, sellerID string, limit int) ([]*entity.CreditLedgerEntry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, seller_id, amount, balance_after, reason, reference_id, created_at
		FROM credit_ledger
		WHERE seller_id = $1
		ORDER BY created_at DESC, id
		LIMIT $2
	`, sellerID, limit)
	if err != nil {
		return nil, fmt.Errorf("erro ao buscar extrato: %w", err)
	}
	defer rows.Close()

	out := []*entity.CreditLedgerEntry{}
	for rows.Next() {
		var e entity.CreditLedgerEntry
		if err := rows.Scan(&e.ID, &e.SellerID, &e.Amount, &e.BalanceAfter, &e.Reason, &e.ReferenceID, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
