package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/xavierca1/marketplace-leads/internal/entity"
)

type ListingRepository struct {
	DB *sql.DB
}

func NewListingRepository(db *sql.DB) *ListingRepository {
	return &ListingRepository{DB: db}
}

func (r *ListingRepository) FindByID(ctx context.Context, id string) (*entity.Listing, error) {
	var l entity.Listing
	err := r.DB.QueryRowContext(ctx, `SELECT id, seller_id, title, created_at FROM listings WHERE id = $1`, id).
		Scan(&l.ID, &l.SellerID, &l.Title, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entity.ErrListingNotFound
		}
		return nil, err
	}
	return &l, nil
}
