package models

// DetectionPoint is a single object-detection observation placed on the
// camera frame. X and Y are the bounding-box centre normalized to [0,1]
// of the frame, so the same point set can be projected onto any viewport
// size without refetching. Weight is the detector confidence and is
// never negative in well-formed data.
type DetectionPoint struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	ClassName string  `json:"class_name"`
	Weight    float64 `json:"weight"`
}

// PointSet holds every detection point for one (camera, time window)
// pair. A fresh fetch replaces the previous PointSet wholesale; point
// sets are never merged incrementally.
type PointSet struct {
	CameraID        int64            `json:"camera_id"`
	Points          []DetectionPoint `json:"points"`
	TotalDetections int              `json:"total_detections"`
	ClassCounts     map[string]int   `json:"class_counts"`
}
