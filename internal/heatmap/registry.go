package heatmap

import (
	"context"
	"sync"
)

// Registry keeps one tile per visible camera, keyed by camera ID.
// Tiles have fully independent lifecycles: creating, removing, or
// breaking one never touches its siblings.
type Registry struct {
	mu     sync.Mutex
	cfg    Config
	source PointSource
	tiles  map[int64]*Tile
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRegistry creates an empty tile registry. Tiles created through
// EnsureTile poll until the registry is closed.
func NewRegistry(source PointSource, cfg Config) *Registry {
	ctx, cancel := context.WithCancel(context.Background())
	return &Registry{
		cfg:    cfg.withDefaults(),
		source: source,
		tiles:  make(map[int64]*Tile),
		ctx:    ctx,
		cancel: cancel,
	}
}

// EnsureTile returns the tile for cameraID, creating and starting it
// if the camera has no tile yet.
func (r *Registry) EnsureTile(cameraID int64) *Tile {
	r.mu.Lock()
	defer r.mu.Unlock()

	if t, ok := r.tiles[cameraID]; ok {
		return t
	}
	t := NewTile(cameraID, r.source, r.cfg)
	t.Start(r.ctx)
	r.tiles[cameraID] = t
	return t
}

// Get returns the tile for cameraID if one exists.
func (r *Registry) Get(cameraID int64) (*Tile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.tiles[cameraID]
	return t, ok
}

// Remove tears down the tile for cameraID. Its poll loop stops and any
// in-flight fetch is abandoned; other tiles are unaffected.
func (r *Registry) Remove(cameraID int64) {
	r.mu.Lock()
	t, ok := r.tiles[cameraID]
	delete(r.tiles, cameraID)
	r.mu.Unlock()

	if ok {
		t.Close()
	}
}

// CameraIDs returns the cameras that currently have tiles.
func (r *Registry) CameraIDs() []int64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]int64, 0, len(r.tiles))
	for id := range r.tiles {
		ids = append(ids, id)
	}
	return ids
}

// Close tears down every tile and stops all polling.
func (r *Registry) Close() {
	r.mu.Lock()
	tiles := r.tiles
	r.tiles = make(map[int64]*Tile)
	r.mu.Unlock()

	r.cancel()
	for _, t := range tiles {
		t.Close()
	}
}
