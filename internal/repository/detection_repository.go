package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
)

// DetectionRepository reads the detection points behind the density
// overlay. It is the concrete point source: one query per (camera,
// window) pair, returning the full point set plus its class counts.
type DetectionRepository struct {
	db *sql.DB
}

// NewDetectionRepository creates a new detection repository
func NewDetectionRepository(db *sql.DB) *DetectionRepository {
	return &DetectionRepository{db: db}
}

// GetPointSet returns every detection for the camera within the last
// windowDays, with total and per-class counts. classFilter narrows the
// fetch itself; pass nil to fetch all classes (the overlay filters
// locally so class toggles don't refetch). The result replaces any
// previous point set wholesale.
func (r *DetectionRepository) GetPointSet(ctx context.Context, cameraID int64, windowDays int, classFilter []string) (*models.PointSet, error) {
	if windowDays <= 0 {
		windowDays = 7
	}
	since := time.Now().UTC().AddDate(0, 0, -windowDays)

	query := `SELECT class_name, x, y, weight
		FROM detections
		WHERE camera_id = ? AND detected_at >= ?`
	args := []interface{}{cameraID, since}

	if len(classFilter) > 0 {
		placeholders := strings.Repeat("?,", len(classFilter))
		query += ` AND class_name IN (` + placeholders[:len(placeholders)-1] + `)`
		for _, c := range classFilter {
			args = append(args, c)
		}
	}

	query += ` ORDER BY detected_at ASC`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query detections: %w", err)
	}
	defer rows.Close()

	set := &models.PointSet{
		CameraID:    cameraID,
		ClassCounts: make(map[string]int),
	}
	for rows.Next() {
		var p models.DetectionPoint
		if err := rows.Scan(&p.ClassName, &p.X, &p.Y, &p.Weight); err != nil {
			return nil, fmt.Errorf("failed to scan detection: %w", err)
		}
		set.Points = append(set.Points, p)
		set.ClassCounts[p.ClassName]++
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read detections: %w", err)
	}

	set.TotalDetections = len(set.Points)
	return set, nil
}

// ClassNames returns the distinct detection classes seen for a camera
func (r *DetectionRepository) ClassNames(ctx context.Context, cameraID int64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT class_name FROM detections WHERE camera_id = ? ORDER BY class_name`,
		cameraID)
	if err != nil {
		return nil, fmt.Errorf("failed to query class names: %w", err)
	}
	defer rows.Close()

	var classes []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("failed to scan class name: %w", err)
		}
		classes = append(classes, c)
	}
	return classes, rows.Err()
}
