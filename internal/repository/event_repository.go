package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
)

// EventRepository handles database operations for events
type EventRepository struct {
	db *sql.DB
}

// NewEventRepository creates a new event repository
func NewEventRepository(db *sql.DB) *EventRepository {
	return &EventRepository{db: db}
}

// List retrieves events with filtering, newest first
func (r *EventRepository) List(filter models.EventFilter) ([]models.Event, error) {
	query := `SELECT e.id, e.camera_id, c.name, e.event_type, e.severity, e.description,
		e.confidence_score, e.frame_id, e.acknowledged, e.occurred_at, e.created_at
		FROM events e
		JOIN cameras c ON c.id = e.camera_id`

	var conditions []string
	var args []interface{}

	if filter.CameraID > 0 {
		conditions = append(conditions, "e.camera_id = ?")
		args = append(args, filter.CameraID)
	}
	if filter.EventType != "" {
		conditions = append(conditions, "e.event_type = ?")
		args = append(args, filter.EventType)
	}
	if filter.Severity != "" {
		conditions = append(conditions, "e.severity = ?")
		args = append(args, filter.Severity)
	}
	if filter.Acknowledged == "true" {
		conditions = append(conditions, "e.acknowledged = 1")
	} else if filter.Acknowledged == "false" {
		conditions = append(conditions, "e.acknowledged = 0")
	}
	if filter.StartTime > 0 {
		conditions = append(conditions, "e.occurred_at >= ?")
		args = append(args, time.Unix(filter.StartTime, 0).UTC())
	}
	if filter.EndTime > 0 {
		conditions = append(conditions, "e.occurred_at <= ?")
		args = append(args, time.Unix(filter.EndTime, 0).UTC())
	}

	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY e.occurred_at DESC"

	limit := 100
	if filter.Limit > 0 && filter.Limit <= 1000 {
		limit = filter.Limit
	}
	query += " LIMIT ? OFFSET ?"
	args = append(args, limit, filter.Offset)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		var description, frameID sql.NullString
		if err := rows.Scan(&e.ID, &e.CameraID, &e.CameraName, &e.EventType, &e.Severity,
			&description, &e.ConfidenceScore, &frameID, &e.Acknowledged,
			&e.OccurredAt, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		e.Description = description.String
		e.FrameID = frameID.String
		events = append(events, e)
	}
	return events, rows.Err()
}

// GetByID retrieves a single event; returns nil when not found
func (r *EventRepository) GetByID(id int64) (*models.Event, error) {
	var e models.Event
	var description, frameID sql.NullString
	err := r.db.QueryRow(`
		SELECT e.id, e.camera_id, c.name, e.event_type, e.severity, e.description,
			e.confidence_score, e.frame_id, e.acknowledged, e.occurred_at, e.created_at
		FROM events e
		JOIN cameras c ON c.id = e.camera_id
		WHERE e.id = ?`, id).
		Scan(&e.ID, &e.CameraID, &e.CameraName, &e.EventType, &e.Severity,
			&description, &e.ConfidenceScore, &frameID, &e.Acknowledged,
			&e.OccurredAt, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query event: %w", err)
	}
	e.Description = description.String
	e.FrameID = frameID.String
	return &e, nil
}

// CreateWithDetections inserts an event and its detection points in
// one transaction so the density overlay never sees a half-written
// event.
func (r *EventRepository) CreateWithDetections(tx *sql.Tx, e *models.Event, points []models.DetectionPoint) error {
	res, err := tx.Exec(`
		INSERT INTO events (camera_id, event_type, severity, description,
			confidence_score, frame_id, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.CameraID, e.EventType, e.Severity, e.Description,
		e.ConfidenceScore, e.FrameID, e.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get event id: %w", err)
	}
	e.ID = id

	for _, p := range points {
		_, err := tx.Exec(`
			INSERT INTO detections (event_id, camera_id, class_name, x, y, weight, detected_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			id, e.CameraID, p.ClassName, p.X, p.Y, p.Weight, e.OccurredAt)
		if err != nil {
			return fmt.Errorf("failed to insert detection: %w", err)
		}
	}
	return nil
}

// Update persists changed event fields
func (r *EventRepository) Update(e *models.Event) error {
	_, err := r.db.Exec(`
		UPDATE events SET severity = ?, description = ?, acknowledged = ?
		WHERE id = ?`,
		e.Severity, e.Description, e.Acknowledged, e.ID)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	return nil
}

// Delete removes an event and its detections
func (r *EventRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM events WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// AcknowledgeAll marks every unacknowledged event as acknowledged and
// returns how many were affected
func (r *EventRepository) AcknowledgeAll(cameraID int64) (int64, error) {
	query := `UPDATE events SET acknowledged = 1 WHERE acknowledged = 0`
	var args []interface{}
	if cameraID > 0 {
		query += ` AND camera_id = ?`
		args = append(args, cameraID)
	}
	res, err := r.db.Exec(query, args...)
	if err != nil {
		return 0, fmt.Errorf("failed to acknowledge events: %w", err)
	}
	return res.RowsAffected()
}

// Stats aggregates event counts between start and end
func (r *EventRepository) Stats(start, end time.Time) (*models.EventStats, error) {
	stats := &models.EventStats{
		ByType:      make(map[string]int),
		BySeverity:  make(map[string]int),
		ByCamera:    make(map[int64]int),
		WindowStart: start,
		WindowEnd:   end,
	}

	rows, err := r.db.Query(`
		SELECT camera_id, event_type, severity, acknowledged, COUNT(*)
		FROM events
		WHERE occurred_at >= ? AND occurred_at <= ?
		GROUP BY camera_id, event_type, severity, acknowledged`,
		start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to query event stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var cameraID int64
		var eventType, severity string
		var acknowledged bool
		var count int
		if err := rows.Scan(&cameraID, &eventType, &severity, &acknowledged, &count); err != nil {
			return nil, fmt.Errorf("failed to scan event stats: %w", err)
		}
		stats.Total += count
		if !acknowledged {
			stats.Unacked += count
		}
		stats.ByType[eventType] += count
		stats.BySeverity[severity] += count
		stats.ByCamera[cameraID] += count
	}
	return stats, rows.Err()
}
