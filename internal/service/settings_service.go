package service

import (
	"database/sql"

	"github.com/chowkidaar/nvr-backend-go/internal/database"
	"github.com/chowkidaar/nvr-backend-go/internal/repository"
)

// SettingsService handles business logic for the settings store
type SettingsService struct {
	repo *repository.SettingsRepository
}

// NewSettingsService creates a new settings service
func NewSettingsService(repo *repository.SettingsRepository) *SettingsService {
	return &SettingsService{repo: repo}
}

// GetAll returns all settings as a key→value map
func (s *SettingsService) GetAll() (map[string]string, error) {
	settings, err := s.repo.GetAll()
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(settings))
	for _, setting := range settings {
		out[setting.Key] = setting.Value
	}
	return out, nil
}

// Update upserts the given settings atomically
func (s *SettingsService) Update(settings map[string]string) error {
	return database.Transaction(func(tx *sql.Tx) error {
		return s.repo.SetAll(tx, settings)
	})
}
