package models

import "time"

// Event severity values
const (
	SeverityLow      = "low"
	SeverityMedium   = "medium"
	SeverityHigh     = "high"
	SeverityCritical = "critical"
)

// Event represents a detection/alert event raised by the vision pipeline
type Event struct {
	ID              int64     `json:"id" db:"id"`
	CameraID        int64     `json:"camera_id" db:"camera_id"`
	CameraName      string    `json:"camera_name,omitempty" db:"-"`
	EventType       string    `json:"event_type" db:"event_type"`
	Severity        string    `json:"severity" db:"severity"`
	Description     string    `json:"description,omitempty" db:"description"`
	ConfidenceScore float64   `json:"confidence_score" db:"confidence_score"`
	FrameID         string    `json:"frame_id,omitempty" db:"frame_id"`
	Acknowledged    bool      `json:"acknowledged" db:"acknowledged"`
	OccurredAt      time.Time `json:"occurred_at" db:"occurred_at"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

// UpdateEventRequest is the payload for updating an event
type UpdateEventRequest struct {
	Severity     *string `json:"severity"`
	Description  *string `json:"description"`
	Acknowledged *bool   `json:"acknowledged"`
}

// EventStats aggregates event counts over a time window
type EventStats struct {
	Total        int              `json:"total"`
	Unacked      int              `json:"unacknowledged"`
	ByType       map[string]int   `json:"by_type"`
	BySeverity   map[string]int   `json:"by_severity"`
	ByCamera     map[int64]int    `json:"by_camera"`
	WindowStart  time.Time        `json:"window_start"`
	WindowEnd    time.Time        `json:"window_end"`
}
