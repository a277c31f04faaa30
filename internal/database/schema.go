package database

import (
	"context"
	"database/sql"
)

// Migrate creates the schema when it does not exist yet. Statements are
// idempotent so startup can run this unconditionally.
//
// Primary keys are CHAR(24) hex strings generated by the application. The
// counters table backs atomic sequence allocation; uids.code and
// merchants.unique_id both carry unique indexes so code collisions surface
// as duplicate-key errors instead of racing a check-then-create.
func Migrate(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS merchants (
			id CHAR(24) PRIMARY KEY,
			unique_id CHAR(8) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			phone VARCHAR(32) NOT NULL DEFAULT '',
			password_hash VARCHAR(255) NOT NULL,
			wallet VARCHAR(255) NOT NULL,
			merchant_fee DOUBLE NOT NULL DEFAULT 0,
			admin_fee DOUBLE NOT NULL DEFAULT 0,
			status TINYINT NOT NULL DEFAULT 0,
			api_key VARCHAR(255) NOT NULL DEFAULT '',
			secret_key VARCHAR(255) NOT NULL DEFAULT '',
			refresh_token TEXT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS admins (
			id CHAR(24) PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL DEFAULT '',
			role VARCHAR(64) NOT NULL DEFAULT 'admin',
			refresh_token TEXT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS users (
			id CHAR(24) PRIMARY KEY,
			username VARCHAR(64) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			refresh_token TEXT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS uids (
			seq BIGINT UNSIGNED PRIMARY KEY,
			code CHAR(8) NOT NULL UNIQUE,
			created_by CHAR(24) NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			INDEX idx_uids_created_by (created_by)
		)`,
		`CREATE TABLE IF NOT EXISTS counters (
			name VARCHAR(64) PRIMARY KEY,
			seq BIGINT UNSIGNED NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS payment_providers (
			id CHAR(24) PRIMARY KEY,
			name VARCHAR(64) NOT NULL UNIQUE,
			is_active TINYINT NOT NULL DEFAULT 0,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS merchant_payment_providers (
			merchant_id CHAR(24) NOT NULL,
			provider_id CHAR(24) NOT NULL,
			PRIMARY KEY (merchant_id, provider_id)
		)`,
	}
	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return err
		}
	}
	return nil
}
