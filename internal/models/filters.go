package models

// EventFilter represents filter parameters for querying events
type EventFilter struct {
	CameraID     int64  `form:"cameraId"`
	EventType    string `form:"eventType"`
	Severity     string `form:"severity"`
	Acknowledged string `form:"acknowledged"` // "", "true", "false"
	StartTime    int64  `form:"startTime"`    // Unix timestamp
	EndTime      int64  `form:"endTime"`      // Unix timestamp
	Limit        int    `form:"limit"`
	Offset       int    `form:"offset"`
}

// HeatmapFilter represents query parameters for the overlay endpoints
type HeatmapFilter struct {
	WindowDays int    `form:"windowDays"`
	Classes    string `form:"classes"` // comma separated; empty = all
	Width      int    `form:"width"`
	Height     int    `form:"height"`
}

// UserFilter represents filter parameters for listing users
type UserFilter struct {
	Role     string `form:"role"`
	IsActive string `form:"isActive"` // "", "true", "false"
	Limit    int    `form:"limit"`
	Offset   int    `form:"offset"`
}
