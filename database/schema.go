package database

import (
	"database/sql"
	"fmt"
)

// InitializeSchema creates the tables and indexes the service needs.
// All statements are idempotent so startup can run them unconditionally.
func InitializeSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS reports (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			image_data LONGTEXT NOT NULL,
			image_mime_type VARCHAR(64) NOT NULL DEFAULT 'image/jpeg',
			issue_type VARCHAR(32) NOT NULL,
			severity INT NOT NULL,
			area VARCHAR(255) NOT NULL DEFAULT '',
			latitude DOUBLE NULL,
			longitude DOUBLE NULL,
			reporter_name VARCHAR(255) NULL,
			reporter_phone VARCHAR(64) NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'open',
			created_at TIMESTAMP(6) NOT NULL DEFAULT CURRENT_TIMESTAMP(6),
			INDEX idx_reports_created_at (created_at)
		)`,
		`CREATE TABLE IF NOT EXISTS admins (
			id VARCHAR(36) NOT NULL PRIMARY KEY,
			username VARCHAR(128) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_admins_username (username)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to run schema statement: %w", err)
		}
	}

	return nil
}
