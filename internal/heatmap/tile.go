package heatmap

import (
	"context"
	"errors"
	"image"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
)

// Status is a tile's render lifecycle state.
type Status string

const (
	StatusIdle     Status = "idle"
	StatusLoading  Status = "loading"
	StatusRendered Status = "rendered"
	StatusError    Status = "error"
)

// ErrCameraOffline is returned by a PointSource when the camera is
// known to be offline or disabled. The tile skips density computation
// entirely and callers render a placeholder instead of a blank grid.
var ErrCameraOffline = errors.New("camera offline")

// PointSource supplies the detection points for one camera and time
// window. Failure is reported as an error result; implementations must
// never panic into the tile.
type PointSource interface {
	FetchPoints(ctx context.Context, cameraID int64, windowDays int) (*models.PointSet, error)
}

// Tile owns one camera's overlay end to end: the cached point set, the
// density grid, the rendered surface, and the refresh lifecycle. All
// of that state is exclusively owned — tiles never share mutable
// state, so one tile's failure or teardown cannot leak into another.
//
// Every trigger (fresh point set, class selection change, viewport
// resize, camera reassignment) runs the full estimate→paint pipeline
// synchronously under the tile lock; there are no incremental updates,
// which is what keeps the rendered surface consistent with the current
// point set, selection, and viewport at all times.
type Tile struct {
	mu sync.Mutex

	cameraID int64
	cfg      Config
	source   PointSource

	windowDays    int
	selected      map[string]struct{} // nil or empty = all classes
	width, height int

	lastSet *models.PointSet
	grid    *Grid
	surface *image.NRGBA
	status  Status
	lastErr error
	offline bool

	// fetchToken identifies the in-flight fetch generation. A response
	// arriving with a stale token (superseded fetch, or the tile was
	// reassigned meanwhile) is discarded, never painted.
	fetchToken uuid.UUID

	kick   chan struct{}
	cancel context.CancelFunc
	done   chan struct{}
}

// NewTile creates a tile for cameraID in the Idle state. Call Start to
// begin periodic fetching.
func NewTile(cameraID int64, source PointSource, cfg Config) *Tile {
	cfg = cfg.withDefaults()
	return &Tile{
		cameraID:   cameraID,
		cfg:        cfg,
		source:     source,
		windowDays: cfg.WindowDays,
		status:     StatusIdle,
		kick:       make(chan struct{}, 1),
	}
}

// Start launches the tile's poll loop: an immediate fetch, then one
// fetch per refresh interval, re-issued immediately whenever the tile
// is kicked (reassignment or window change). The loop and any fetch in
// flight stop deterministically when Close is called.
func (t *Tile) Start(parent context.Context) {
	t.mu.Lock()
	if t.cancel != nil {
		t.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(parent)
	t.cancel = cancel
	t.done = make(chan struct{})
	t.mu.Unlock()

	go t.poll(ctx)
}

func (t *Tile) poll(ctx context.Context) {
	defer close(t.done)

	ticker := time.NewTicker(t.cfg.RefreshInterval)
	defer ticker.Stop()

	t.RefreshNow(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.RefreshNow(ctx)
		case <-t.kick:
			t.RefreshNow(ctx)
		}
	}
}

// Close tears the tile down: the poll loop exits and any in-flight
// fetch is cancelled and its response abandoned.
func (t *Tile) Close() {
	t.mu.Lock()
	cancel := t.cancel
	done := t.done
	t.cancel = nil
	t.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// RefreshNow fetches the current point set and re-renders. It is safe
// to call from any goroutine; the fetch itself runs outside the tile
// lock so API reads are never blocked on the network.
func (t *Tile) RefreshNow(ctx context.Context) {
	t.mu.Lock()
	cameraID := t.cameraID
	windowDays := t.windowDays
	token := uuid.New()
	t.fetchToken = token
	t.status = StatusLoading
	t.mu.Unlock()

	set, err := t.source.FetchPoints(ctx, cameraID, windowDays)

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.fetchToken != token {
		// Superseded: the tile was reassigned or refetched while this
		// response was in flight.
		return
	}

	if errors.Is(err, ErrCameraOffline) {
		t.offline = true
		t.lastErr = err
		if t.surface == nil {
			t.status = StatusIdle
		} else {
			t.status = StatusRendered
		}
		return
	}
	if err != nil {
		log.Printf("[Tile] camera %d: fetch failed: %v", cameraID, err)
		t.lastErr = err
		if t.surface == nil {
			t.status = StatusError
		} else {
			// Keep the stale surface on screen rather than blanking it.
			t.status = StatusRendered
		}
		return
	}

	t.offline = false
	t.lastErr = nil
	t.lastSet = set
	t.renderLocked()
}

// renderLocked runs the full estimate→paint pipeline from the cached
// point set. Caller holds t.mu. A zero-area viewport skips all work; a
// zero-detection point set is a normal state and renders an empty
// surface.
func (t *Tile) renderLocked() {
	if t.lastSet == nil {
		return
	}
	if t.width <= 0 || t.height <= 0 {
		// Collapsed container; nothing sensible to render yet.
		t.status = StatusRendered
		t.grid = nil
		t.surface = nil
		return
	}

	points := FilterByClass(t.lastSet.Points, t.selected)
	t.grid = EstimateDensity(points, t.width, t.height, t.cfg)
	t.surface = RenderSurface(t.grid, t.cfg.MinThreshold)
	t.status = StatusRendered
}

// Resize sets the viewport size and re-renders synchronously from the
// cached point set. No refetch is needed: coordinates are stored
// normalized, so the same points reproject onto any viewport.
func (t *Tile) Resize(width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.width == width && t.height == height {
		return
	}
	t.width = width
	t.height = height
	t.renderLocked()
}

// SetSelectedClasses replaces the class filter and re-renders
// synchronously from the cached point set.
func (t *Tile) SetSelectedClasses(classes []string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(classes) == 0 {
		t.selected = nil
	} else {
		sel := make(map[string]struct{}, len(classes))
		for _, c := range classes {
			sel[c] = struct{}{}
		}
		t.selected = sel
	}
	t.renderLocked()
}

// SetWindowDays changes the detection time window. A change
// invalidates the cached point set's window, so a fresh fetch is
// issued immediately rather than waiting for the next tick.
func (t *Tile) SetWindowDays(days int) {
	if days <= 0 {
		return
	}
	t.mu.Lock()
	if days == t.windowDays {
		t.mu.Unlock()
		return
	}
	t.windowDays = days
	t.fetchToken = uuid.New() // drop any response for the old window
	t.mu.Unlock()

	select {
	case t.kick <- struct{}{}:
	default:
	}
}

// Reassign points the tile at a different camera. The previous
// camera's point cache, grid, and surface are dropped before anything
// else happens, any in-flight fetch is invalidated, and a fresh fetch
// is kicked off for the new camera.
func (t *Tile) Reassign(cameraID int64) {
	t.mu.Lock()
	if cameraID == t.cameraID {
		t.mu.Unlock()
		return
	}
	t.cameraID = cameraID
	t.fetchToken = uuid.New() // invalidate any response in flight
	t.lastSet = nil
	t.grid = nil
	t.surface = nil
	t.lastErr = nil
	t.offline = false
	t.status = StatusIdle
	t.mu.Unlock()

	select {
	case t.kick <- struct{}{}:
	default:
	}
}

// CameraID returns the camera this tile currently renders.
func (t *Tile) CameraID() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.cameraID
}

// Status returns the tile's lifecycle state.
func (t *Tile) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Offline reports whether the camera was last seen offline.
func (t *Tile) Offline() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offline
}

// Surface returns the current rendered overlay, or nil when nothing
// has been rendered (idle, offline placeholder, or error with no
// previous render). The returned image must be treated as read-only.
func (t *Tile) Surface() *image.NRGBA {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.surface
}

// Grid returns the current density grid, or nil. Read-only.
func (t *Tile) Grid() *Grid {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.grid
}

// Stats describes a tile for the dashboard readout.
type Stats struct {
	CameraID        int64          `json:"camera_id"`
	Status          Status         `json:"status"`
	Offline         bool           `json:"offline"`
	TotalDetections int            `json:"total_detections"`
	ClassCounts     map[string]int `json:"class_counts"`
	SelectedClasses []string       `json:"selected_classes,omitempty"`
}

// Stats returns the tile's current readout. Counts come from the last
// fetched point set and are zero when nothing has been fetched yet —
// a zero-detection window is a valid state, never an error.
func (t *Tile) Stats() Stats {
	t.mu.Lock()
	defer t.mu.Unlock()

	s := Stats{
		CameraID:    t.cameraID,
		Status:      t.status,
		Offline:     t.offline,
		ClassCounts: map[string]int{},
	}
	if t.lastSet != nil {
		s.TotalDetections = t.lastSet.TotalDetections
		for k, v := range t.lastSet.ClassCounts {
			s.ClassCounts[k] = v
		}
	}
	for c := range t.selected {
		s.SelectedClasses = append(s.SelectedClasses, c)
	}
	return s
}
