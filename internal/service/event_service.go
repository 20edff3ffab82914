package service

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chowkidaar/nvr-backend-go/internal/database"
	"github.com/chowkidaar/nvr-backend-go/internal/models"
	"github.com/chowkidaar/nvr-backend-go/internal/repository"
)

// IngestEventRequest is the payload pushed by the detection pipeline:
// one event plus the detection points observed in its frame.
type IngestEventRequest struct {
	CameraID        int64                   `json:"camera_id" binding:"required"`
	EventType       string                  `json:"event_type" binding:"required"`
	Severity        string                  `json:"severity"`
	Description     string                  `json:"description"`
	ConfidenceScore float64                 `json:"confidence_score"`
	OccurredAt      *time.Time              `json:"occurred_at"`
	Detections      []models.DetectionPoint `json:"detections"`
}

// EventService handles business logic for events
type EventService struct {
	events  *repository.EventRepository
	cameras *repository.CameraRepository
}

// NewEventService creates a new event service
func NewEventService(events *repository.EventRepository, cameras *repository.CameraRepository) *EventService {
	return &EventService{events: events, cameras: cameras}
}

// List retrieves events with filtering
func (s *EventService) List(filter models.EventFilter) ([]models.Event, error) {
	return s.events.List(filter)
}

// GetByID retrieves an event; returns nil when not found
func (s *EventService) GetByID(id int64) (*models.Event, error) {
	return s.events.GetByID(id)
}

// Ingest stores an event and its detection points atomically
func (s *EventService) Ingest(req IngestEventRequest) (*models.Event, error) {
	camera, err := s.cameras.GetByID(req.CameraID)
	if err != nil {
		return nil, err
	}
	if camera == nil {
		return nil, fmt.Errorf("camera %d not found", req.CameraID)
	}

	severity := req.Severity
	if severity == "" {
		severity = models.SeverityLow
	}
	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	event := &models.Event{
		CameraID:        req.CameraID,
		EventType:       req.EventType,
		Severity:        severity,
		Description:     req.Description,
		ConfidenceScore: req.ConfidenceScore,
		FrameID:         uuid.NewString(),
		OccurredAt:      occurredAt,
	}

	err = database.Transaction(func(tx *sql.Tx) error {
		return s.events.CreateWithDetections(tx, event, req.Detections)
	})
	if err != nil {
		return nil, err
	}
	event.CameraName = camera.Name
	return event, nil
}

// Update applies the set fields of req to the event
func (s *EventService) Update(id int64, req models.UpdateEventRequest) (*models.Event, error) {
	event, err := s.events.GetByID(id)
	if err != nil {
		return nil, err
	}
	if event == nil {
		return nil, nil
	}

	if req.Severity != nil {
		switch *req.Severity {
		case models.SeverityLow, models.SeverityMedium, models.SeverityHigh, models.SeverityCritical:
			event.Severity = *req.Severity
		default:
			return nil, fmt.Errorf("unknown severity: %s", *req.Severity)
		}
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.Acknowledged != nil {
		event.Acknowledged = *req.Acknowledged
	}

	if err := s.events.Update(event); err != nil {
		return nil, err
	}
	return event, nil
}

// Delete removes an event
func (s *EventService) Delete(id int64) error {
	return s.events.Delete(id)
}

// AcknowledgeAll acknowledges every open event, optionally scoped to
// one camera, and returns the affected count
func (s *EventService) AcknowledgeAll(cameraID int64) (int64, error) {
	return s.events.AcknowledgeAll(cameraID)
}

// Stats aggregates event counts over the last windowDays
func (s *EventService) Stats(windowDays int) (*models.EventStats, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -windowDays)
	return s.events.Stats(start, end)
}
