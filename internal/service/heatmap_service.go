package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"strings"

	"github.com/chowkidaar/nvr-backend-go/internal/heatmap"
	"github.com/chowkidaar/nvr-backend-go/internal/models"
	"github.com/chowkidaar/nvr-backend-go/internal/repository"
	"github.com/chowkidaar/nvr-backend-go/internal/stats"
)

// Default viewport when the client doesn't report its container size.
const (
	defaultOverlayWidth  = 640
	defaultOverlayHeight = 360
)

// HeatmapService owns the tile registry and serves rendered overlays.
// It is also the registry's point source: fetches go through the
// camera table first so offline and disabled cameras short-circuit
// before any density work happens.
type HeatmapService struct {
	cameras    *repository.CameraRepository
	detections *repository.DetectionRepository
	registry   *heatmap.Registry
}

// NewHeatmapService creates the service and its tile registry
func NewHeatmapService(cameras *repository.CameraRepository, detections *repository.DetectionRepository, cfg heatmap.Config) *HeatmapService {
	s := &HeatmapService{
		cameras:    cameras,
		detections: detections,
	}
	s.registry = heatmap.NewRegistry(s, cfg)
	return s
}

// FetchPoints implements heatmap.PointSource
func (s *HeatmapService) FetchPoints(ctx context.Context, cameraID int64, windowDays int) (*models.PointSet, error) {
	camera, err := s.cameras.GetByID(cameraID)
	if err != nil {
		return nil, err
	}
	if camera == nil {
		return nil, fmt.Errorf("camera %d not found", cameraID)
	}
	if !camera.IsEnabled || camera.Status == models.CameraStatusOffline ||
		camera.Status == models.CameraStatusDisabled || camera.Status == models.CameraStatusError {
		return nil, heatmap.ErrCameraOffline
	}
	return s.detections.GetPointSet(ctx, cameraID, windowDays, nil)
}

// OverlayPNG returns the camera's rendered heat overlay as a PNG. The
// filter's width/height resize the tile's viewport; classes narrow the
// selected classes; windowDays changes the fetch window. An offline
// camera or a tile with nothing rendered yet produces a fully
// transparent placeholder of the requested size.
func (s *HeatmapService) OverlayPNG(ctx context.Context, cameraID int64, filter models.HeatmapFilter) ([]byte, error) {
	camera, err := s.cameras.GetByID(cameraID)
	if err != nil {
		return nil, err
	}
	if camera == nil {
		return nil, nil
	}

	width, height := s.viewport(camera, filter)

	tile := s.registry.EnsureTile(cameraID)
	if filter.WindowDays > 0 {
		tile.SetWindowDays(filter.WindowDays)
	}
	if filter.Classes != "" {
		tile.SetSelectedClasses(splitClasses(filter.Classes))
	}
	tile.Resize(width, height)

	// First request for a camera races the tile's initial poll; render
	// synchronously rather than serving an empty frame.
	if tile.Status() == heatmap.StatusIdle || tile.Status() == heatmap.StatusLoading {
		tile.RefreshNow(ctx)
	}

	surface := tile.Surface()
	if surface == nil {
		surface = image.NewNRGBA(image.Rect(0, 0, width, height))
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, surface); err != nil {
		return nil, fmt.Errorf("failed to encode overlay: %w", err)
	}
	return buf.Bytes(), nil
}

// TileStats describes one tile for the dashboard readout, including a
// summary of the current density distribution.
type TileStats struct {
	heatmap.Stats
	MeanIntensity  float64 `json:"mean_intensity"`
	P95Intensity   float64 `json:"p95_intensity"`
	ActiveFraction float64 `json:"active_fraction"`
}

// Stats returns the tile readout for a camera; nil when the camera
// does not exist.
func (s *HeatmapService) Stats(ctx context.Context, cameraID int64) (*TileStats, error) {
	camera, err := s.cameras.GetByID(cameraID)
	if err != nil {
		return nil, err
	}
	if camera == nil {
		return nil, nil
	}

	tile := s.registry.EnsureTile(cameraID)
	if tile.Status() == heatmap.StatusIdle {
		tile.RefreshNow(ctx)
	}

	ts := &TileStats{Stats: tile.Stats()}
	if grid := tile.Grid(); grid != nil && len(grid.Values) > 0 {
		ts.MeanIntensity = stats.Mean(grid.Values)
		ts.P95Intensity = stats.Percentile(grid.Values, 95)
		ts.ActiveFraction = stats.ActiveFraction(grid.Values, 0.01)
	}
	return ts, nil
}

// SetClasses replaces a tile's selected classes and re-renders
func (s *HeatmapService) SetClasses(cameraID int64, classes []string) error {
	camera, err := s.cameras.GetByID(cameraID)
	if err != nil {
		return err
	}
	if camera == nil {
		return fmt.Errorf("camera %d not found", cameraID)
	}
	s.registry.EnsureTile(cameraID).SetSelectedClasses(classes)
	return nil
}

// ClassNames lists the detection classes seen for a camera
func (s *HeatmapService) ClassNames(ctx context.Context, cameraID int64) ([]string, error) {
	return s.detections.ClassNames(ctx, cameraID)
}

// RemoveTile tears down a camera's tile, abandoning any fetch in
// flight. Called when a camera is deleted.
func (s *HeatmapService) RemoveTile(cameraID int64) {
	s.registry.Remove(cameraID)
}

// Close stops all tiles
func (s *HeatmapService) Close() {
	s.registry.Close()
}

func (s *HeatmapService) viewport(camera *models.Camera, filter models.HeatmapFilter) (int, int) {
	width, height := filter.Width, filter.Height
	if width <= 0 || height <= 0 {
		if camera.ResolutionWidth > 0 && camera.ResolutionHeight > 0 {
			return camera.ResolutionWidth, camera.ResolutionHeight
		}
		return defaultOverlayWidth, defaultOverlayHeight
	}
	return width, height
}

func splitClasses(csv string) []string {
	parts := strings.Split(csv, ",")
	classes := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			classes = append(classes, p)
		}
	}
	return classes
}
