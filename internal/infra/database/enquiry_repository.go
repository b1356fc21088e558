package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/xavierca1/marketplace-leads/internal/entity"
)

const enquiryColumns = `id, listing_id, seller_id, buyer_name, buyer_email, buyer_phone, message, created_at, unlocked, unlocked_at, unlocked_by`

type EnquiryRepository struct {
	DB *sql.DB
}

func NewEnquiryRepository(db *sql.DB) *EnquiryRepository {
	return &EnquiryRepository{DB: db}
}

func (r *EnquiryRepository) Create(ctx context.Context, e *entity.Enquiry) error {
	query := `
		INSERT INTO enquiries (id, listing_id, seller_id, buyer_name, buyer_email, buyer_phone, message, created_at, unlocked)
		VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, FALSE)
	`
	_, err := r.DB.ExecContext(ctx, query,
		e.ID,
		e.ListingID,
		e.SellerID,
		e.BuyerName,
		e.BuyerEmail,
		e.BuyerPhone,
		e.Message,
		e.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("erro ao inserir enquiry: %w", err)
	}
	return nil
}

func (r *EnquiryRepository) FindByID(ctx context.Context, id string) (*entity.Enquiry, error) {
	row := r.DB.QueryRowContext(ctx, `SELECT `+enquiryColumns+` FROM enquiries WHERE id = $1`, id)
	e, err := scanEnquiry(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrEnquiryNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *EnquiryRepository) ListBySeller(ctx context.Context, sellerID string) ([]*entity.Enquiry, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT `+enquiryColumns+`
		FROM enquiries
		WHERE seller_id = $1
		ORDER BY created_at DESC
	`, sellerID)
	if err != nil {
		return nil, fmt.Errorf("erro ao listar enquiries: %w", err)
	}
	defer rows.Close()

	var out []*entity.Enquiry
	for rows.Next() {
		e, err := scanEnquiry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEnquiry(s scanner) (*entity.Enquiry, error) {
	var (
		e          entity.Enquiry
		phone      sql.NullString
		unlockedAt sql.NullTime
		unlockedBy sql.NullString
	)
	err := s.Scan(
		&e.ID,
		&e.ListingID,
		&e.SellerID,
		&e.BuyerName,
		&e.BuyerEmail,
		&phone,
		&e.Message,
		&e.CreatedAt,
		&e.Unlocked,
		&unlockedAt,
		&unlockedBy,
	)
	if err != nil {
		return nil, err
	}
	e.BuyerPhone = phone.String
	if unlockedAt.Valid {
		t := unlockedAt.Time
		e.UnlockedAt = &t
	}
	if unlockedBy.Valid {
		by := unlockedBy.String
		e.UnlockedBy = &by
	}
	return &e, nil
}
