package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rfconstrucoes/obra/internal/types"
)

// GetSettings returns the settings singleton, or ErrSettingsMissing if
// the admin has never saved it.
func (s *SQLiteStore) GetSettings(ctx context.Context) (*types.AppSettings, error) {
	var settings types.AppSettings
	var logoURL sql.NullString
	var updatedAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, notification_email, relay_access_key, logo_url, updated_at
		FROM app_settings WHERE id = 1
	`).Scan(&settings.ID, &settings.NotificationEmail, &settings.RelayAccessKey, &logoURL, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrSettingsMissing
		}
		return nil, fmt.Errorf("query settings: %w", err)
	}

	settings.LogoURL = logoURL.String
	settings.UpdatedAt = parseTime(updatedAt)
	return &settings, nil
}

// SaveSettings inserts the singleton on first save and updates it after.
func (s *SQLiteStore) SaveSettings(ctx context.Context, settings types.AppSettings) (*types.AppSettings, error) {
	settings.ID = 1
	settings.UpdatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO app_settings (id, notification_email, relay_access_key, logo_url, updated_at)
		VALUES (1, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			notification_email = excluded.notification_email,
			relay_access_key = excluded.relay_access_key,
			logo_url = excluded.logo_url,
			updated_at = excluded.updated_at
	`, settings.NotificationEmail, settings.RelayAccessKey, nullString(settings.LogoURL),
		settings.UpdatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("save settings: %w", err)
	}

	return &settings, nil
}

// GetAdminByEmail looks up the admin credential for a login attempt.
func (s *SQLiteStore) GetAdminByEmail(ctx context.Context, email string) (*types.Admin, error) {
	var a types.Admin
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, created_at FROM admins WHERE email = ?
	`, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query admin: %w", err)
	}

	a.CreatedAt = parseTime(createdAt)
	return &a, nil
}

// CreateAdmin stores the back-office credential. There is one admin role;
// a second account with the same email is rejected.
func (s *SQLiteStore) CreateAdmin(ctx context.Context, email, passwordHash string) (*types.Admin, error) {
	a := types.Admin{
		ID:           ulid.Make().String(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}

	var existing int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM admins WHERE email = ?", email).Scan(&existing); err != nil {
		return nil, fmt.Errorf("check admin: %w", err)
	}
	if existing > 0 {
		return nil, ErrAdminExists
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO admins (id, email, password_hash, created_at) VALUES (?, ?, ?, ?)
	`, a.ID, a.Email, a.PasswordHash, a.CreatedAt.Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert admin: %w", err)
	}

	return &a, nil
}
