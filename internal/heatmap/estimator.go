package heatmap

import (
	"math"
	"time"

	"github.com/golang/geo/r2"
	"gonum.org/v1/gonum/floats"

	"github.com/chowkidaar/nvr-backend-go/internal/models"
)

// Config holds the overlay tuning knobs. Zero values are replaced by
// the defaults from DefaultConfig.
type Config struct {
	CellSize        int           // grid cell edge in pixels
	Radius          float64       // Gaussian influence radius in pixels
	MinThreshold    float64       // cells at or below this are not painted
	RefreshInterval time.Duration // periodic point refetch interval
	WindowDays      int           // detection time window
}

// DefaultConfig returns the stock overlay configuration.
func DefaultConfig() Config {
	return Config{
		CellSize:        20,
		Radius:          40,
		MinThreshold:    0.01,
		RefreshInterval: 30 * time.Second,
		WindowDays:      7,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.CellSize <= 0 {
		c.CellSize = d.CellSize
	}
	if c.Radius <= 0 {
		c.Radius = d.Radius
	}
	if c.MinThreshold <= 0 {
		c.MinThreshold = d.MinThreshold
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = d.RefreshInterval
	}
	if c.WindowDays <= 0 {
		c.WindowDays = d.WindowDays
	}
	return c
}

// Grid is a normalized 2-D density field covering a Width×Height pixel
// viewport at CellSize resolution. Values are stored row-major and are
// always in [0,1]. A Grid is transient: it is rebuilt in full on every
// render and never cached across renders.
type Grid struct {
	Cols, Rows    int
	CellSize      int
	Width, Height int
	Values        []float64
}

// Idx returns the flat index for (row, col).
func (g *Grid) Idx(row, col int) int {
	return row*g.Cols + col
}

// At returns the density value at (row, col).
func (g *Grid) At(row, col int) float64 {
	return g.Values[row*g.Cols+col]
}

// CellCenter returns the pixel-space centre of cell (row, col).
func (g *Grid) CellCenter(row, col int) r2.Point {
	half := float64(g.CellSize) / 2
	return r2.Point{
		X: float64(col)*float64(g.CellSize) + half,
		Y: float64(row)*float64(g.CellSize) + half,
	}
}

// unitRect clamps normalized detection coordinates into the frame.
var unitRect = r2.RectFromPoints(r2.Point{X: 0, Y: 0}, r2.Point{X: 1, Y: 1})

// EstimateDensity converts a set of detection points into a normalized
// density grid for a width×height pixel viewport using a Gaussian
// kernel. Each point contributes weight·exp(−d²/(2·radius²)) to every
// cell whose centre lies within twice the influence radius; cells
// beyond that cutoff receive nothing. The cutoff leaves roughly 13.5%
// of the peak contribution on the table, which is intentional — it
// bounds the per-point work without visibly changing the overlay, and
// the 2× multiplier must not be "corrected".
//
// The result is self-relative: after accumulation the grid is divided
// by its own maximum, so the hottest cell is exactly 1.0 whenever any
// positive-weight point exists, regardless of absolute weights. An
// empty or all-invalid point set yields an all-zero grid. Malformed
// input never propagates: coordinates are clamped into [0,1] and NaN
// or negative weights contribute zero.
func EstimateDensity(points []models.DetectionPoint, width, height int, cfg Config) *Grid {
	cfg = cfg.withDefaults()

	cols := (width + cfg.CellSize - 1) / cfg.CellSize
	rows := (height + cfg.CellSize - 1) / cfg.CellSize
	grid := &Grid{
		Cols:     cols,
		Rows:     rows,
		CellSize: cfg.CellSize,
		Width:    width,
		Height:   height,
		Values:   make([]float64, rows*cols),
	}
	if cols <= 0 || rows <= 0 {
		return grid
	}

	cutoff := 2 * cfg.Radius
	cutoffSq := cutoff * cutoff
	twoSigmaSq := 2 * cfg.Radius * cfg.Radius

	for _, p := range points {
		w := p.Weight
		if math.IsNaN(w) || w <= 0 {
			continue
		}
		if math.IsNaN(p.X) || math.IsNaN(p.Y) {
			continue
		}

		pos := unitRect.ClampPoint(r2.Point{X: p.X, Y: p.Y})
		px := pos.X * float64(width)
		py := pos.Y * float64(height)

		// Bound the scan to the cells the kernel can actually reach.
		colMin := clampInt(int((px-cutoff)/float64(cfg.CellSize)), 0, cols-1)
		colMax := clampInt(int((px+cutoff)/float64(cfg.CellSize)), 0, cols-1)
		rowMin := clampInt(int((py-cutoff)/float64(cfg.CellSize)), 0, rows-1)
		rowMax := clampInt(int((py+cutoff)/float64(cfg.CellSize)), 0, rows-1)

		for row := rowMin; row <= rowMax; row++ {
			for col := colMin; col <= colMax; col++ {
				center := grid.CellCenter(row, col)
				dx := center.X - px
				dy := center.Y - py
				distSq := dx*dx + dy*dy
				if distSq > cutoffSq {
					continue
				}
				grid.Values[grid.Idx(row, col)] += w * math.Exp(-distSq/twoSigmaSq)
			}
		}
	}

	max := floats.Max(grid.Values)
	if max > 0 {
		floats.Scale(1/max, grid.Values)
	}
	return grid
}

// FilterByClass returns only the points whose class is in selected.
// A nil or empty selection means no filtering.
func FilterByClass(points []models.DetectionPoint, selected map[string]struct{}) []models.DetectionPoint {
	if len(selected) == 0 {
		return points
	}
	filtered := make([]models.DetectionPoint, 0, len(points))
	for _, p := range points {
		if _, ok := selected[p.ClassName]; ok {
			filtered = append(filtered, p)
		}
	}
	return filtered
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
