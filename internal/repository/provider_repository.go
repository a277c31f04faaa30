package repository

import (
	"context"
	"database/sql"

	"github.com/mintgate/merchant-gateway/internal/model"
)

// ProviderRepo persists the payment-provider catalogue.
type ProviderRepo struct{ DB *sql.DB }

func NewProviderRepo(db *sql.DB) *ProviderRepo { return &ProviderRepo{DB: db} }

// EnsureDefaults inserts the default provider set when missing. Safe to run
// on every startup.
func (r *ProviderRepo) EnsureDefaults(ctx context.Context) error {
	for _, name := range model.DefaultProviderNames {
		_, err := r.DB.ExecContext(ctx,
			"INSERT IGNORE INTO payment_providers (id, name, is_active) VALUES (?,?,0)",
			model.NewID(), name)
		if err != nil {
			return err
		}
	}
	return nil
}

// List returns all providers ordered by name.
func (r *ProviderRepo) List(ctx context.Context) ([]model.PaymentProvider, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, name, is_active, created_at, updated_at FROM payment_providers ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.PaymentProvider
	for rows.Next() {
		var p model.PaymentProvider
		if err := rows.Scan(&p.ID, &p.Name, &p.IsActive, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// GetByID fetches a provider by primary key.
func (r *ProviderRepo) GetByID(ctx context.Context, id string) (*model.PaymentProvider, error) {
	var p model.PaymentProvider
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, name, is_active, created_at, updated_at FROM payment_providers WHERE id=? LIMIT 1",
		id).Scan(&p.ID, &p.Name, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
