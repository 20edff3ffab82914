package repository

import (
	"database/sql"
	"fmt"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
)

// SettingsRepository handles database operations for the settings store
type SettingsRepository struct {
	db *sql.DB
}

// NewSettingsRepository creates a new settings repository
func NewSettingsRepository(db *sql.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetAll returns every setting
func (r *SettingsRepository) GetAll() ([]models.Setting, error) {
	rows, err := r.db.Query(`SELECT key, value, updated_at FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// Get returns one setting value; found is false when the key is absent
func (r *SettingsRepository) Get(key string) (value string, found bool, err error) {
	err = r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to query setting: %w", err)
	}
	return value, true, nil
}

// SetAll upserts the given settings inside one transaction
func (r *SettingsRepository) SetAll(tx *sql.Tx, settings map[string]string) error {
	for key, value := range settings {
		_, err := tx.Exec(`
			INSERT INTO settings (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			key, value)
		if err != nil {
			return fmt.Errorf("failed to upsert setting %s: %w", key, err)
		}
	}
	return nil
}
