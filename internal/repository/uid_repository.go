package repository

import (
	"context"
	"database/sql"

	"github.com/mintgate/merchant-gateway/internal/model"
)

// UIDRepo persists public UID records and the shared sequence counter.
type UIDRepo struct{ DB *sql.DB }

func NewUIDRepo(db *sql.DB) *UIDRepo { return &UIDRepo{DB: db} }

// NextSeq atomically increments and returns the shared uid_seq counter.
// The LAST_INSERT_ID(expr) upsert makes the fetch-and-add a single
// statement, so concurrent callers can never observe the same value.
func (r *UIDRepo) NextSeq(ctx context.Context) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO counters (name, seq) VALUES (?, LAST_INSERT_ID(1)) ON DUPLICATE KEY UPDATE seq = LAST_INSERT_ID(seq + 1)",
		model.CounterUIDSeq)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// Create inserts a UID record. A colliding code maps to ErrUIDExists so
// the caller can regenerate and retry.
func (r *UIDRepo) Create(ctx context.Context, u *model.PublicUID) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO uids (seq, code, created_by) VALUES (?,?,?)",
		u.Seq, u.Code, u.CreatedBy)
	if isDuplicate(err, "code") {
		return ErrUIDExists
	}
	return err
}

// GetByCode fetches a UID record by its 8-char code.
func (r *UIDRepo) GetByCode(ctx context.Context, code string) (*model.PublicUID, error) {
	var u model.PublicUID
	err := r.DB.QueryRowContext(ctx,
		"SELECT seq, code, created_by, created_at, updated_at FROM uids WHERE code=? LIMIT 1",
		code).Scan(&u.Seq, &u.Code, &u.CreatedBy, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListByCreator returns the merchant's UIDs newest first.
func (r *UIDRepo) ListByCreator(ctx context.Context, merchantID string) ([]model.PublicUID, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT seq, code, created_by, created_at, updated_at FROM uids WHERE created_by=? ORDER BY created_at DESC",
		merchantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.PublicUID
	for rows.Next() {
		var u model.PublicUID
		if err := rows.Scan(&u.Seq, &u.Code, &u.CreatedBy, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}
