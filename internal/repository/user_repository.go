package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/mintgate/merchant-gateway/internal/model"
)

// UserRepo persists end-user accounts.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userCols = "id, username, email, password_hash, COALESCE(refresh_token, ''), created_at, updated_at"

func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.RefreshToken, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts a user; duplicate email or username maps to ErrEmailExists.
func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (id, username, email, password_hash) VALUES (?,?,?,?)",
		u.ID, strings.ToLower(u.Username), strings.ToLower(u.Email), u.PasswordHash)
	if isDuplicate(err, "") {
		return ErrEmailExists
	}
	return err
}

// GetByID fetches a user by primary key.
func (r *UserRepo) GetByID(ctx context.Context, id string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE id=? LIMIT 1", id))
}

// GetByEmailOrUsername matches either login identifier.
func (r *UserRepo) GetByEmailOrUsername(ctx context.Context, email, username string) (*model.User, error) {
	return scanUser(r.DB.QueryRowContext(ctx,
		"SELECT "+userCols+" FROM users WHERE email=? OR username=? LIMIT 1",
		strings.ToLower(strings.TrimSpace(email)),
		strings.ToLower(strings.TrimSpace(username))))
}

// SetRefreshToken overwrites the persisted refresh token.
func (r *UserRepo) SetRefreshToken(ctx context.Context, id, token string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=? WHERE id=?", token, id)
	return err
}

// ClearRefreshToken removes the persisted refresh token on logout.
func (r *UserRepo) ClearRefreshToken(ctx context.Context, id string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET refresh_token=NULL WHERE id=?", id)
	return err
}
