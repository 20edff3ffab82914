package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
)

// CameraRepository handles database operations for cameras
type CameraRepository struct {
	db *sql.DB
}

// NewCameraRepository creates a new camera repository
func NewCameraRepository(db *sql.DB) *CameraRepository {
	return &CameraRepository{db: db}
}

const cameraColumns = `id, name, description, stream_url, camera_type, username, password,
	status, last_seen, error_message, is_enabled, detection_enabled, fps,
	resolution_width, resolution_height, location, owner_id, created_at, updated_at`

func scanCamera(row interface{ Scan(...interface{}) error }) (*models.Camera, error) {
	var c models.Camera
	var description, username, password, errMsg, location sql.NullString
	var lastSeen sql.NullTime
	var resW, resH sql.NullInt64

	err := row.Scan(&c.ID, &c.Name, &description, &c.StreamURL, &c.CameraType,
		&username, &password, &c.Status, &lastSeen, &errMsg,
		&c.IsEnabled, &c.DetectionEnabled, &c.FPS, &resW, &resH,
		&location, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}

	c.Description = description.String
	c.Username = username.String
	c.Password = password.String
	c.ErrorMessage = errMsg.String
	c.Location = location.String
	c.ResolutionWidth = int(resW.Int64)
	c.ResolutionHeight = int(resH.Int64)
	if lastSeen.Valid {
		t := lastSeen.Time
		c.LastSeen = &t
	}
	return &c, nil
}

// List retrieves all cameras ordered by name
func (r *CameraRepository) List() ([]models.Camera, error) {
	rows, err := r.db.Query(`SELECT ` + cameraColumns + ` FROM cameras ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cameras: %w", err)
	}
	defer rows.Close()

	var cameras []models.Camera
	for rows.Next() {
		c, err := scanCamera(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan camera: %w", err)
		}
		cameras = append(cameras, *c)
	}
	return cameras, rows.Err()
}

// GetByID retrieves a single camera; returns nil when not found
func (r *CameraRepository) GetByID(id int64) (*models.Camera, error) {
	row := r.db.QueryRow(`SELECT `+cameraColumns+` FROM cameras WHERE id = ?`, id)
	c, err := scanCamera(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query camera: %w", err)
	}
	return c, nil
}

// Create inserts a new camera and returns it with its assigned ID
func (r *CameraRepository) Create(c *models.Camera) error {
	res, err := r.db.Exec(`
		INSERT INTO cameras (name, description, stream_url, camera_type, username, password,
			status, is_enabled, detection_enabled, fps, location, owner_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.Name, c.Description, c.StreamURL, c.CameraType, c.Username, c.Password,
		c.Status, c.IsEnabled, c.DetectionEnabled, c.FPS, c.Location, c.OwnerID)
	if err != nil {
		return fmt.Errorf("failed to insert camera: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get camera id: %w", err)
	}
	c.ID = id
	return nil
}

// Update persists changed camera fields
func (r *CameraRepository) Update(c *models.Camera) error {
	_, err := r.db.Exec(`
		UPDATE cameras
		SET name = ?, description = ?, stream_url = ?, camera_type = ?, username = ?,
		    password = ?, status = ?, error_message = ?, is_enabled = ?,
		    detection_enabled = ?, fps = ?, location = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		c.Name, c.Description, c.StreamURL, c.CameraType, c.Username,
		c.Password, c.Status, c.ErrorMessage, c.IsEnabled,
		c.DetectionEnabled, c.FPS, c.Location, c.ID)
	if err != nil {
		return fmt.Errorf("failed to update camera: %w", err)
	}
	return nil
}

// UpdateStatus updates only the status bookkeeping fields
func (r *CameraRepository) UpdateStatus(id int64, status, errorMessage string, lastSeen *time.Time) error {
	_, err := r.db.Exec(`
		UPDATE cameras
		SET status = ?, error_message = ?, last_seen = COALESCE(?, last_seen),
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = ?`,
		status, errorMessage, lastSeen, id)
	if err != nil {
		return fmt.Errorf("failed to update camera status: %w", err)
	}
	return nil
}

// Delete removes a camera; its events and detections cascade
func (r *CameraRepository) Delete(id int64) error {
	res, err := r.db.Exec(`DELETE FROM cameras WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete camera: %w", err)
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
