package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mintgate/merchant-gateway/internal/model"
)

// AdminRepo persists admin accounts.
type AdminRepo struct{ DB *sql.DB }

func NewAdminRepo(db *sql.DB) *AdminRepo { return &AdminRepo{DB: db} }

const adminCols = "id, name, email, password_hash, role, COALESCE(refresh_token, ''), created_at, updated_at"

func scanAdmin(row interface{ Scan(...any) error }) (*model.Admin, error) {
	var a model.Admin
	err := row.Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.Role,
		&a.RefreshToken, &a.CreatedAt, &a.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Create inserts an admin; duplicate email maps to ErrEmailExists.
func (r *AdminRepo) Create(ctx context.Context, a *model.Admin) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO admins (id, name, email, password_hash, role) VALUES (?,?,?,?,?)",
		a.ID, a.Name, strings.ToLower(a.Email), a.PasswordHash, a.Role)
	if isDuplicate(err, "email") {
		return ErrEmailExists
	}
	return err
}

// GetByID fetches an admin by primary key.
func (r *AdminRepo) GetByID(ctx context.Context, id string) (*model.Admin, error) {
	return scanAdmin(r.DB.QueryRowContext(ctx,
		"SELECT "+adminCols+" FROM admins WHERE id=? LIMIT 1", id))
}

// GetByEmail fetches an admin by normalized email.
func (r *AdminRepo) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	return scanAdmin(r.DB.QueryRowContext(ctx,
		"SELECT "+adminCols+" FROM admins WHERE email=? LIMIT 1",
		strings.ToLower(strings.TrimSpace(email))))
}

// SetRefreshToken overwrites the persisted refresh token.
func (r *AdminRepo) SetRefreshToken(ctx context.Context, id, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE admins SET refresh_token=? WHERE id=?", token, id)
	return err
}

// ClearRefreshToken removes the persisted refresh token on logout.
func (r *AdminRepo) ClearRefreshToken(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE admins SET refresh_token=NULL WHERE id=?", id)
	return err
}
