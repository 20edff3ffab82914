package heatmap

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
)

// splitSource succeeds for every camera except the ones listed in bad.
type splitSource struct {
	bad map[int64]bool
}

func (s *splitSource) FetchPoints(ctx context.Context, cameraID int64, windowDays int) (*models.PointSet, error) {
	if s.bad[cameraID] {
		return nil, errors.New("stream gone")
	}
	return testPointSet(pt(0.5, 0.5, "person", 1)), nil
}

func TestRegistryEnsureTileIdentity(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(&splitSource{}, testTileConfig())
	defer reg.Close()

	a := reg.EnsureTile(1)
	b := reg.EnsureTile(1)
	assert.Same(t, a, b, "one tile per camera")

	c := reg.EnsureTile(2)
	assert.NotSame(t, a, c)
	assert.ElementsMatch(t, []int64{1, 2}, reg.CameraIDs())
}

func TestRegistryGet(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(&splitSource{}, testTileConfig())
	defer reg.Close()

	_, ok := reg.Get(5)
	assert.False(t, ok)

	tile := reg.EnsureTile(5)
	got, ok := reg.Get(5)
	require.True(t, ok)
	assert.Same(t, tile, got)
}

func TestRegistryRemoveStopsTile(t *testing.T) {
	t.Parallel()

	cfg := testTileConfig()
	cfg.RefreshInterval = 10 * time.Millisecond

	src := &fakeSource{set: testPointSet(pt(0.5, 0.5, "person", 1))}
	reg := NewRegistry(src, cfg)
	defer reg.Close()

	reg.EnsureTile(1)
	require.Eventually(t, func() bool { return src.fetchCount() >= 1 }, 5*time.Second, 5*time.Millisecond)

	reg.Remove(1)
	_, ok := reg.Get(1)
	assert.False(t, ok)

	after := src.fetchCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, src.fetchCount(), "removed tile must stop polling")

	// Removing an unknown camera is a no-op.
	reg.Remove(99)
}

func TestRegistryFailureIsolation(t *testing.T) {
	t.Parallel()

	reg := NewRegistry(&splitSource{bad: map[int64]bool{2: true}}, testTileConfig())
	defer reg.Close()

	good := reg.EnsureTile(1)
	bad := reg.EnsureTile(2)
	good.Resize(400, 200)

	require.Eventually(t, func() bool {
		return good.Status() == StatusRendered && bad.Status() == StatusError
	}, 5*time.Second, 5*time.Millisecond)

	assert.NotNil(t, good.Surface())
	assert.Nil(t, bad.Surface())
}

func TestRegistryCloseStopsEverything(t *testing.T) {
	t.Parallel()

	cfg := testTileConfig()
	cfg.RefreshInterval = 10 * time.Millisecond

	src := &fakeSource{set: testPointSet(pt(0.5, 0.5, "person", 1))}
	reg := NewRegistry(src, cfg)
	reg.EnsureTile(1)
	reg.EnsureTile(2)

	require.Eventually(t, func() bool { return src.fetchCount() >= 2 }, 5*time.Second, 5*time.Millisecond)

	reg.Close()
	after := src.fetchCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, src.fetchCount())
	assert.Empty(t, reg.CameraIDs())
}
