package heatmap

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
)

// fakeSource is a controllable PointSource. When entered/release are
// set, FetchPoints signals entry and then blocks until release is
// closed, which lets tests overlap a fetch with other tile calls.
type fakeSource struct {
	mu      sync.Mutex
	fetches int
	lastID  int64
	lastWin int
	set     *models.PointSet
	err     error

	entered chan struct{}
	release chan struct{}
}

func (f *fakeSource) FetchPoints(ctx context.Context, cameraID int64, windowDays int) (*models.PointSet, error) {
	f.mu.Lock()
	f.fetches++
	f.lastID = cameraID
	f.lastWin = windowDays
	entered, release := f.entered, f.release
	set, err := f.set, f.err
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if release != nil {
		<-release
	}
	return set, err
}

func (f *fakeSource) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

func (f *fakeSource) setResult(set *models.PointSet, err error) {
	f.mu.Lock()
	f.set = set
	f.err = err
	f.mu.Unlock()
}

func testPointSet(points ...models.DetectionPoint) *models.PointSet {
	counts := map[string]int{}
	for _, p := range points {
		counts[p.ClassName]++
	}
	return &models.PointSet{
		Points:          points,
		TotalDetections: len(points),
		ClassCounts:     counts,
	}
}

// testTileConfig uses a long refresh interval so poll ticks never fire
// during a test unless the test is explicitly about polling.
func testTileConfig() Config {
	cfg := DefaultConfig()
	cfg.RefreshInterval = time.Hour
	return cfg
}

func TestTileLifecycle(t *testing.T) {
	t.Parallel()

	src := &fakeSource{set: testPointSet(pt(0.5, 0.5, "person", 1))}
	tile := NewTile(7, src, testTileConfig())
	require.Equal(t, StatusIdle, tile.Status())
	require.Nil(t, tile.Surface())

	tile.Resize(400, 200)
	require.Equal(t, StatusIdle, tile.Status(), "resize before any fetch must not fabricate a render")

	tile.RefreshNow(context.Background())
	assert.Equal(t, StatusRendered, tile.Status())
	assert.NotNil(t, tile.Surface())
	assert.NotNil(t, tile.Grid())
	assert.Equal(t, int64(7), src.lastID)
}

func TestTileZeroViewportRendersNothing(t *testing.T) {
	t.Parallel()

	src := &fakeSource{set: testPointSet(pt(0.5, 0.5, "person", 1))}
	tile := NewTile(1, src, testTileConfig())

	tile.RefreshNow(context.Background())
	assert.Equal(t, StatusRendered, tile.Status())
	assert.Nil(t, tile.Surface())
	assert.Nil(t, tile.Grid())
}

func TestTileEmptyPointSet(t *testing.T) {
	t.Parallel()

	src := &fakeSource{set: testPointSet()}
	tile := NewTile(1, src, testTileConfig())
	tile.Resize(400, 200)

	tile.RefreshNow(context.Background())
	require.Equal(t, StatusRendered, tile.Status())

	// Zero detections is a normal state: an all-transparent surface,
	// not an error.
	surface := tile.Surface()
	require.NotNil(t, surface)
	for y := 0; y < 200; y += 7 {
		for x := 0; x < 400; x += 7 {
			require.Zero(t, surface.NRGBAAt(x, y).A)
		}
	}
	assert.Zero(t, tile.Stats().TotalDetections)
}

func TestTileFetchErrorWithoutPriorRender(t *testing.T) {
	t.Parallel()

	src := &fakeSource{err: errors.New("db locked")}
	tile := NewTile(1, src, testTileConfig())
	tile.Resize(400, 200)

	tile.RefreshNow(context.Background())
	assert.Equal(t, StatusError, tile.Status())
	assert.Nil(t, tile.Surface())
}

func TestTileFetchErrorKeepsStaleSurface(t *testing.T) {
	t.Parallel()

	src := &fakeSource{set: testPointSet(pt(0.5, 0.5, "person", 1))}
	tile := NewTile(1, src, testTileConfig())
	tile.Resize(400, 200)
	tile.RefreshNow(context.Background())
	stale := tile.Surface()
	require.NotNil(t, stale)

	src.setResult(nil, errors.New("db locked"))
	tile.RefreshNow(context.Background())

	assert.Equal(t, StatusRendered, tile.Status(), "stale-but-displayed beats blank")
	assert.Same(t, stale, tile.Surface())
}

func TestTileOfflineCamera(t *testing.T) {
	t.Parallel()

	src := &fakeSource{err: ErrCameraOffline}
	tile := NewTile(1, src, testTileConfig())
	tile.Resize(400, 200)

	tile.RefreshNow(context.Background())
	assert.True(t, tile.Offline())
	assert.Equal(t, StatusIdle, tile.Status())
	assert.Nil(t, tile.Surface())

	// Camera comes back: the offline flag clears on the next success.
	src.setResult(testPointSet(pt(0.5, 0.5, "person", 1)), nil)
	tile.RefreshNow(context.Background())
	assert.False(t, tile.Offline())
	assert.Equal(t, StatusRendered, tile.Status())
	assert.NotNil(t, tile.Surface())
}

func TestTileResizeReRendersWithoutRefetch(t *testing.T) {
	t.Parallel()

	src := &fakeSource{set: testPointSet(pt(0.25, 0.75, "person", 1))}
	tile := NewTile(1, src, testTileConfig())
	tile.Resize(400, 200)
	tile.RefreshNow(context.Background())
	require.Equal(t, 1, src.fetchCount())

	small := tile.Grid()
	tile.Resize(800, 400)
	large := tile.Grid()

	assert.Equal(t, 1, src.fetchCount(), "resize must reuse the cached point set")
	assert.NotSame(t, small, large)
	assert.Equal(t, 40, large.Cols)
	assert.Equal(t, 20, large.Rows)
}

func TestTileClassSelectionReRendersWithoutRefetch(t *testing.T) {
	t.Parallel()

	src := &fakeSource{set: testPointSet(
		pt(0.5, 0.5, "person", 1),
		pt(0.1, 0.1, "car", 1),
	)}
	tile := NewTile(1, src, testTileConfig())
	tile.Resize(400, 200)
	tile.RefreshNow(context.Background())
	require.Equal(t, 1, src.fetchCount())

	tile.SetSelectedClasses([]string{"person"})
	assert.Equal(t, 1, src.fetchCount())

	grid := tile.Grid()
	require.NotNil(t, grid)
	assert.Zero(t, grid.At(20/grid.CellSize, 40/grid.CellSize), "excluded class must leave no density")

	// Clearing the selection restores all classes.
	tile.SetSelectedClasses(nil)
	grid = tile.Grid()
	assert.NotZero(t, grid.At(20/grid.CellSize, 40/grid.CellSize))
}

func TestTileReassignResetsEverything(t *testing.T) {
	t.Parallel()

	src := &fakeSource{set: testPointSet(pt(0.5, 0.5, "person", 1))}
	tile := NewTile(1, src, testTileConfig())
	tile.Resize(400, 200)
	tile.RefreshNow(context.Background())
	require.NotNil(t, tile.Surface())

	tile.Reassign(2)

	assert.Equal(t, int64(2), tile.CameraID())
	assert.Equal(t, StatusIdle, tile.Status())
	assert.Nil(t, tile.Surface())
	assert.Nil(t, tile.Grid())
	assert.Zero(t, tile.Stats().TotalDetections, "previous camera's counts must not survive reassignment")

	tile.RefreshNow(context.Background())
	assert.Equal(t, int64(2), src.lastID)
	assert.Equal(t, StatusRendered, tile.Status())
}

func TestTileReassignSameCameraNoop(t *testing.T) {
	t.Parallel()

	src := &fakeSource{set: testPointSet(pt(0.5, 0.5, "person", 1))}
	tile := NewTile(1, src, testTileConfig())
	tile.Resize(400, 200)
	tile.RefreshNow(context.Background())
	surface := tile.Surface()

	tile.Reassign(1)
	assert.Same(t, surface, tile.Surface())
	assert.Equal(t, StatusRendered, tile.Status())
}

func TestTileDiscardsLateResponseAfterReassign(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		set:     testPointSet(pt(0.5, 0.5, "person", 1)),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	tile := NewTile(1, src, testTileConfig())
	tile.Resize(400, 200)

	refreshed := make(chan struct{})
	go func() {
		tile.RefreshNow(context.Background())
		close(refreshed)
	}()

	<-src.entered // fetch for camera 1 is in flight
	tile.Reassign(2)
	close(src.release) // let the old response land

	select {
	case <-refreshed:
	case <-time.After(5 * time.Second):
		t.Fatal("refresh did not return")
	}

	// The old camera's points arrived after reassignment and must have
	// been dropped on the floor.
	assert.Nil(t, tile.Surface())
	assert.Equal(t, StatusIdle, tile.Status())
	assert.Equal(t, int64(2), tile.CameraID())
}

func TestTileWindowChangeInvalidatesInFlightFetch(t *testing.T) {
	t.Parallel()

	src := &fakeSource{
		set:     testPointSet(pt(0.5, 0.5, "person", 1)),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	tile := NewTile(1, src, testTileConfig())
	tile.Resize(400, 200)

	refreshed := make(chan struct{})
	go func() {
		tile.RefreshNow(context.Background())
		close(refreshed)
	}()

	<-src.entered
	tile.SetWindowDays(30)
	close(src.release)
	<-refreshed

	assert.Nil(t, tile.Surface(), "seven-day response must not be painted as thirty-day data")
}

func TestTilePollLoop(t *testing.T) {
	t.Parallel()

	cfg := testTileConfig()
	cfg.RefreshInterval = 10 * time.Millisecond

	src := &fakeSource{set: testPointSet(pt(0.5, 0.5, "person", 1))}
	tile := NewTile(1, src, cfg)
	tile.Resize(400, 200)
	tile.Start(context.Background())

	require.Eventually(t, func() bool {
		return src.fetchCount() >= 3 && tile.Status() == StatusRendered
	}, 5*time.Second, 5*time.Millisecond)

	tile.Close()
	after := src.fetchCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, src.fetchCount(), "no fetches after Close")
}

func TestTileStats(t *testing.T) {
	t.Parallel()

	src := &fakeSource{set: testPointSet(
		pt(0.5, 0.5, "person", 1),
		pt(0.6, 0.5, "person", 1),
		pt(0.1, 0.1, "car", 1),
	)}
	tile := NewTile(9, src, testTileConfig())
	tile.Resize(400, 200)
	tile.RefreshNow(context.Background())
	tile.SetSelectedClasses([]string{"person"})

	s := tile.Stats()
	assert.Equal(t, int64(9), s.CameraID)
	assert.Equal(t, StatusRendered, s.Status)
	assert.Equal(t, 3, s.TotalDetections, "counts reflect the fetched window, not the filter")
	assert.Equal(t, map[string]int{"person": 2, "car": 1}, s.ClassCounts)
	assert.Equal(t, []string{"person"}, s.SelectedClasses)
}
