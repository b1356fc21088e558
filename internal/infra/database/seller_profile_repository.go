package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/marketplace-leads/internal/entity"
)

const sellerProfileColumns = `seller_id, email, display_name, plan, credits, free_leads_used, free_leads_month, gateway_customer_id, created_at, updated_at`

type SellerProfileRepository struct {
	DB *sql.DB
}

func NewSellerProfileRepository(db *sql.DB) *SellerProfileRepository {
	return &SellerProfileRepository{DB: db}
}

func (r *SellerProfileRepository) FindBySellerID(ctx context.Context, sellerID string) (*entity.SellerProfile, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+sellerProfileColumns+` FROM seller_profiles WHERE seller_id = $1`, sellerID)
	return scanSellerProfile(row)
}

func (r *SellerProfileRepository) SetGatewayCustomerID(ctx context.Context, sellerID, gatewayCustomerID string) error {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE seller_profiles SET gateway_customer_id = $2, updated_at = NOW() WHERE seller_id = $1
	`, sellerID, gatewayCustomerID)
	if err != nil {
		return fmt.Errorf("erro ao salvar cliente do gateway: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return entity.ErrSellerProfileNotFound
	}
	return nil
}

func scanSellerProfile(row scanner) (*entity.SellerProfile, error) {
	var (
		p          entity.SellerProfile
		plan       string
		customerID sql.NullString
	)
	err := row.Scan(
		&p.SellerID,
		&p.Email,
		&p.DisplayName,
		&plan,
		&p.Credits,
		&p.FreeLeadsUsed,
		&p.FreeLeadsMonth,
		&customerID,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrSellerProfileNotFound
		}
		return nil, err
	}
	p.Plan = entity.Plan(plan)
	p.GatewayCustomerID = customerID.String
	return &p, nil
}
