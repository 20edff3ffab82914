package models

import "time"

// Camera status values
const (
	CameraStatusOnline     = "online"
	CameraStatusOffline    = "offline"
	CameraStatusConnecting = "connecting"
	CameraStatusError      = "error"
	CameraStatusDisabled   = "disabled"
)

// Camera connection types
const (
	CameraTypeRTSP  = "rtsp"
	CameraTypeHTTP  = "http"
	CameraTypeONVIF = "onvif"
)

// Camera represents a configured camera
type Camera struct {
	ID          int64  `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	Description string `json:"description,omitempty" db:"description"`

	// Connection settings
	StreamURL  string `json:"stream_url" db:"stream_url"`
	CameraType string `json:"camera_type" db:"camera_type"`
	Username   string `json:"username,omitempty" db:"username"`
	Password   string `json:"-" db:"password"`

	// Status tracking
	Status       string     `json:"status" db:"status"`
	LastSeen     *time.Time `json:"last_seen,omitempty" db:"last_seen"`
	ErrorMessage string     `json:"error_message,omitempty" db:"error_message"`

	// Configuration
	IsEnabled        bool `json:"is_enabled" db:"is_enabled"`
	DetectionEnabled bool `json:"detection_enabled" db:"detection_enabled"`
	FPS              int  `json:"fps" db:"fps"`
	ResolutionWidth  int  `json:"resolution_width,omitempty" db:"resolution_width"`
	ResolutionHeight int  `json:"resolution_height,omitempty" db:"resolution_height"`

	Location string `json:"location,omitempty" db:"location"`

	OwnerID   int64     `json:"owner_id" db:"owner_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// CreateCameraRequest is the payload for registering a camera
type CreateCameraRequest struct {
	Name             string `json:"name" binding:"required"`
	Description      string `json:"description"`
	StreamURL        string `json:"stream_url" binding:"required"`
	CameraType       string `json:"camera_type"`
	Username         string `json:"username"`
	Password         string `json:"password"`
	DetectionEnabled *bool  `json:"detection_enabled"`
	FPS              int    `json:"fps"`
	Location         string `json:"location"`
}

// UpdateCameraRequest is the payload for updating a camera
type UpdateCameraRequest struct {
	Name             *string `json:"name"`
	Description      *string `json:"description"`
	StreamURL        *string `json:"stream_url"`
	CameraType       *string `json:"camera_type"`
	Username         *string `json:"username"`
	Password         *string `json:"password"`
	Status           *string `json:"status"`
	IsEnabled        *bool   `json:"is_enabled"`
	DetectionEnabled *bool   `json:"detection_enabled"`
	FPS              *int    `json:"fps"`
	Location         *string `json:"location"`
}

// ValidCameraStatus reports whether s is a known camera status
func ValidCameraStatus(s string) bool {
	switch s {
	case CameraStatusOnline, CameraStatusOffline, CameraStatusConnecting,
		CameraStatusError, CameraStatusDisabled:
		return true
	}
	return false
}
