package service

import (
	"fmt"
	"time"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
	"github.com/chowkidaar/nvr-backend-go/internal/repository"
)

// CameraService handles business logic for camera configuration
type CameraService struct {
	repo *repository.CameraRepository
}

// NewCameraService creates a new camera service
func NewCameraService(repo *repository.CameraRepository) *CameraService {
	return &CameraService{repo: repo}
}

// List retrieves all cameras
func (s *CameraService) List() ([]models.Camera, error) {
	return s.repo.List()
}

// GetByID retrieves a camera; returns nil when not found
func (s *CameraService) GetByID(id int64) (*models.Camera, error) {
	return s.repo.GetByID(id)
}

// Create registers a new camera owned by ownerID
func (s *CameraService) Create(ownerID int64, req models.CreateCameraRequest) (*models.Camera, error) {
	cameraType := req.CameraType
	if cameraType == "" {
		cameraType = models.CameraTypeRTSP
	}
	switch cameraType {
	case models.CameraTypeRTSP, models.CameraTypeHTTP, models.CameraTypeONVIF:
	default:
		return nil, fmt.Errorf("unknown camera type: %s", cameraType)
	}

	fps := req.FPS
	if fps <= 0 {
		fps = 15
	}
	detection := true
	if req.DetectionEnabled != nil {
		detection = *req.DetectionEnabled
	}

	camera := &models.Camera{
		Name:             req.Name,
		Description:      req.Description,
		StreamURL:        req.StreamURL,
		CameraType:       cameraType,
		Username:         req.Username,
		Password:         req.Password,
		Status:           models.CameraStatusOffline,
		IsEnabled:        true,
		DetectionEnabled: detection,
		FPS:              fps,
		Location:         req.Location,
		OwnerID:          ownerID,
	}
	if err := s.repo.Create(camera); err != nil {
		return nil, err
	}
	return camera, nil
}

// Update applies the set fields of req to the camera
func (s *CameraService) Update(id int64, req models.UpdateCameraRequest) (*models.Camera, error) {
	camera, err := s.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if camera == nil {
		return nil, nil
	}

	if req.Name != nil {
		camera.Name = *req.Name
	}
	if req.Description != nil {
		camera.Description = *req.Description
	}
	if req.StreamURL != nil {
		camera.StreamURL = *req.StreamURL
	}
	if req.CameraType != nil {
		switch *req.CameraType {
		case models.CameraTypeRTSP, models.CameraTypeHTTP, models.CameraTypeONVIF:
			camera.CameraType = *req.CameraType
		default:
			return nil, fmt.Errorf("unknown camera type: %s", *req.CameraType)
		}
	}
	if req.Username != nil {
		camera.Username = *req.Username
	}
	if req.Password != nil {
		camera.Password = *req.Password
	}
	if req.Status != nil {
		if !models.ValidCameraStatus(*req.Status) {
			return nil, fmt.Errorf("unknown camera status: %s", *req.Status)
		}
		camera.Status = *req.Status
	}
	if req.IsEnabled != nil {
		camera.IsEnabled = *req.IsEnabled
		if !camera.IsEnabled {
			camera.Status = models.CameraStatusDisabled
		}
	}
	if req.DetectionEnabled != nil {
		camera.DetectionEnabled = *req.DetectionEnabled
	}
	if req.FPS != nil && *req.FPS > 0 {
		camera.FPS = *req.FPS
	}
	if req.Location != nil {
		camera.Location = *req.Location
	}

	if err := s.repo.Update(camera); err != nil {
		return nil, err
	}
	return camera, nil
}

// MarkSeen records a successful connection to the camera
func (s *CameraService) MarkSeen(id int64) error {
	now := time.Now().UTC()
	return s.repo.UpdateStatus(id, models.CameraStatusOnline, "", &now)
}

// MarkError records a connection failure
func (s *CameraService) MarkError(id int64, message string) error {
	return s.repo.UpdateStatus(id, models.CameraStatusError, message, nil)
}

// Delete removes a camera and everything attached to it
func (s *CameraService) Delete(id int64) error {
	return s.repo.Delete(id)
}
