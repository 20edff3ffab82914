package models

import "time"

// Setting is one key-value pair of the dashboard configuration store.
// Values are stored as JSON text so the frontend can round-trip
// arbitrary structures.
type Setting struct {
	Key       string    `json:"key" db:"key"`
	Value     string    `json:"value" db:"value"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// UpdateSettingsRequest is the payload for bulk settings updates
type UpdateSettingsRequest struct {
	Settings map[string]string `json:"settings" binding:"required"`
}
