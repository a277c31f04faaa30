package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mintgate/merchant-gateway/internal/model"
)

// MerchantRepo persists merchants and their payment-provider links.
type MerchantRepo struct{ DB *sql.DB }

func NewMerchantRepo(db *sql.DB) *MerchantRepo { return &MerchantRepo{DB: db} }

const merchantCols = "id, unique_id, name, email, phone, password_hash, wallet, merchant_fee, admin_fee, status, api_key, secret_key, COALESCE(refresh_token, ''), created_at, updated_at"

func scanMerchant(row interface{ Scan(...any) error }) (*model.Merchant, error) {
	var m model.Merchant
	err := row.Scan(&m.ID, &m.UniqueID, &m.Name, &m.Email, &m.Phone, &m.PasswordHash,
		&m.Wallet, &m.MerchantFee, &m.AdminFee, &m.Status, &m.APIKey, &m.SecretKey,
		&m.RefreshToken, &m.CreatedAt, &m.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// Create inserts a merchant. The caller supplies the generated id and
// unique_id; a duplicate email maps to ErrEmailExists and a colliding
// unique_id to ErrUIDExists so the caller can regenerate the code.
func (r *MerchantRepo) Create(ctx context.Context, m *model.Merchant) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO merchants (id, unique_id, name, email, phone, password_hash, wallet, merchant_fee, admin_fee, status) VALUES (?,?,?,?,?,?,?,?,?,?)",
		m.ID, m.UniqueID, strings.ToLower(m.Name), strings.ToLower(m.Email), m.Phone,
		m.PasswordHash, strings.ToLower(m.Wallet), m.MerchantFee, m.AdminFee, m.Status)
	switch {
	case isDuplicate(err, "email"):
		return ErrEmailExists
	case isDuplicate(err, "unique_id"):
		return ErrUIDExists
	}
	return err
}

// GetByID fetches a merchant and its provider ids by primary key.
func (r *MerchantRepo) GetByID(ctx context.Context, id string) (*model.Merchant, error) {
	m, err := scanMerchant(r.DB.QueryRowContext(ctx,
		"SELECT "+merchantCols+" FROM merchants WHERE id=? LIMIT 1", id))
	if err != nil {
		return nil, err
	}
	if m.ProviderIDs, err = r.providerIDs(ctx, m.ID); err != nil {
		return nil, err
	}
	return m, nil
}

// GetByEmail fetches a merchant by normalized email.
func (r *MerchantRepo) GetByEmail(ctx context.Context, email string) (*model.Merchant, error) {
	return scanMerchant(r.DB.QueryRowContext(ctx,
		"SELECT "+merchantCols+" FROM merchants WHERE email=? LIMIT 1",
		strings.ToLower(strings.TrimSpace(email))))
}

// List returns all merchants newest first, provider ids included.
func (r *MerchantRepo) List(ctx context.Context) ([]model.Merchant, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+merchantCols+" FROM merchants ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Merchant
	for rows.Next() {
		m, err := scanMerchant(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range out {
		if out[i].ProviderIDs, err = r.providerIDs(ctx, out[i].ID); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// Update writes all mutable merchant columns. ErrNotFound when no row
// matches the id.
func (r *MerchantRepo) Update(ctx context.Context, m *model.Merchant) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE merchants SET name=?, email=?, phone=?, password_hash=?, wallet=?, merchant_fee=?, admin_fee=?, status=? WHERE id=?",
		m.Name, strings.ToLower(m.Email), m.Phone, m.PasswordHash, m.Wallet,
		m.MerchantFee, m.AdminFee, m.Status, m.ID)
	if isDuplicate(err, "email") {
		return ErrEmailExists
	}
	if err != nil {
		return err
	}
	// RowsAffected is 0 both for a missing row and for a no-op update, so
	// a miss is detected by the preceding GetByID in the handler instead.
	_ = res
	return nil
}

// SetProviders replaces the merchant's provider links.
func (r *MerchantRepo) SetProviders(ctx context.Context, merchantID string, providerIDs []string) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM merchant_payment_providers WHERE merchant_id=?", merchantID); err != nil {
		return err
	}
	for _, pid := range providerIDs {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO merchant_payment_providers (merchant_id, provider_id) VALUES (?,?)",
			merchantID, pid); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Delete removes a merchant; ErrNotFound when no row matched.
func (r *MerchantRepo) Delete(ctx context.Context, id string) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM merchants WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	_, err = r.DB.ExecContext(ctx,
		"DELETE FROM merchant_payment_providers WHERE merchant_id=?", id)
	return err
}

// SetRefreshToken overwrites the persisted refresh token, invalidating any
// previously issued one.
func (r *MerchantRepo) SetRefreshToken(ctx context.Context, id, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE merchants SET refresh_token=? WHERE id=?", token, id)
	return err
}

// ClearRefreshToken removes the persisted refresh token on logout.
func (r *MerchantRepo) ClearRefreshToken(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE merchants SET refresh_token=NULL WHERE id=?", id)
	return err
}

// UniqueIDExists reports whether any merchant already carries the given
// shareable code. Used as a best-effort pre-check during UID generation.
func (r *MerchantRepo) UniqueIDExists(ctx context.Context, code string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM merchants WHERE unique_id=?", code).Scan(&n)
	return n > 0, err
}

func (r *MerchantRepo) providerIDs(ctx context.Context, merchantID string) ([]string, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT provider_id FROM merchant_payment_providers WHERE merchant_id=?", merchantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
