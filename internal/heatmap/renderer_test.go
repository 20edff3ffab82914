package heatmap

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testGrid(cols, rows, cellSize, width, height int) *Grid {
	return &Grid{
		Cols:     cols,
		Rows:     rows,
		CellSize: cellSize,
		Width:    width,
		Height:   height,
		Values:   make([]float64, rows*cols),
	}
}

func TestRenderSurfaceSkipsThreshold(t *testing.T) {
	t.Parallel()

	grid := testGrid(2, 2, 20, 40, 40)
	grid.Values[grid.Idx(0, 0)] = 0.01 // exactly at threshold: skipped
	grid.Values[grid.Idx(0, 1)] = 0.005
	grid.Values[grid.Idx(1, 0)] = 0

	surface := RenderSurface(grid, 0.01)
	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			assert.Zerof(t, surface.NRGBAAt(x, y).A, "pixel (%d,%d) painted below threshold", x, y)
		}
	}
}

func TestRenderSurfacePaintsWholeCell(t *testing.T) {
	t.Parallel()

	grid := testGrid(2, 2, 20, 40, 40)
	grid.Values[grid.Idx(1, 1)] = 1.0

	surface := RenderSurface(grid, 0.01)
	want := color.NRGBA{R: 255, G: 0, B: 0, A: 255}

	for y := 0; y < 40; y++ {
		for x := 0; x < 40; x++ {
			got := surface.NRGBAAt(x, y)
			if x >= 20 && y >= 20 {
				assert.Equalf(t, want, got, "pixel (%d,%d) inside the hot cell", x, y)
			} else {
				assert.Zerof(t, got.A, "pixel (%d,%d) outside the hot cell", x, y)
			}
		}
	}
}

func TestRenderSurfaceClipsEdgeCells(t *testing.T) {
	t.Parallel()

	// 50×30 viewport with 20px cells: the last column and row of cells
	// hang over the edge and must be clipped to the surface bounds.
	grid := testGrid(3, 2, 20, 50, 30)
	for i := range grid.Values {
		grid.Values[i] = 1.0
	}

	surface := RenderSurface(grid, 0.01)
	require.Equal(t, image.Rect(0, 0, 50, 30), surface.Bounds())

	assert.NotZero(t, surface.NRGBAAt(49, 29).A)
	// Outside the declared viewport nothing may be touched.
	assert.Zero(t, surface.NRGBAAt(50, 29).A)
}

func TestRenderSurfaceZeroViewport(t *testing.T) {
	t.Parallel()

	surface := RenderSurface(testGrid(0, 0, 20, 0, 0), 0.01)
	assert.True(t, surface.Bounds().Empty())
}

func TestCompositeLightenBrightensOnly(t *testing.T) {
	t.Parallel()

	frame := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	frame.SetNRGBA(0, 0, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
	frame.SetNRGBA(1, 0, color.NRGBA{R: 30, G: 30, B: 30, A: 255})

	overlay := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	overlay.SetNRGBA(0, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	// Fully transparent overlay pixel leaves the frame untouched.
	overlay.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 0})

	out := CompositeLighten(frame, overlay)

	assert.Equal(t, color.NRGBA{R: 200, G: 100, B: 100, A: 255}, out.NRGBAAt(0, 0))
	assert.Equal(t, frame.NRGBAAt(1, 0), out.NRGBAAt(1, 0))
}

func TestCompositeLightenScalesByAlpha(t *testing.T) {
	t.Parallel()

	frame := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	frame.SetNRGBA(0, 0, color.NRGBA{R: 0, G: 0, B: 0, A: 255})

	overlay := image.NewNRGBA(image.Rect(0, 0, 1, 1))
	overlay.SetNRGBA(0, 0, color.NRGBA{R: 255, G: 0, B: 0, A: 90})

	out := CompositeLighten(frame, overlay)
	got := out.NRGBAAt(0, 0)
	assert.Equal(t, uint8(255*90/255), got.R)
	assert.Zero(t, got.G)
}

func TestCompositeLightenKeepsFrameBounds(t *testing.T) {
	t.Parallel()

	frame := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	overlay := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	overlay.SetNRGBA(1, 1, color.NRGBA{R: 255, G: 255, B: 255, A: 255})

	out := CompositeLighten(frame, overlay)
	assert.Equal(t, frame.Bounds(), out.Bounds())
	assert.NotZero(t, out.NRGBAAt(1, 1).R)
	assert.Zero(t, out.NRGBAAt(3, 3).R)
}
