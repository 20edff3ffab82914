package heatmap

import (
	"image"
)

// RenderSurface paints a normalized density grid onto a fresh,
// fully transparent NRGBA surface sized to the grid's viewport.
// Cells at or below minThreshold are skipped entirely so quiet areas
// stay transparent instead of accumulating visual noise. The caller
// composites the result above the live camera frame.
func RenderSurface(grid *Grid, minThreshold float64) *image.NRGBA {
	surface := image.NewNRGBA(image.Rect(0, 0, grid.Width, grid.Height))
	if grid.Width <= 0 || grid.Height <= 0 {
		return surface
	}

	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Cols; col++ {
			v := grid.At(row, col)
			if v <= minThreshold {
				continue
			}
			c := MapColor(v)

			x0 := col * grid.CellSize
			y0 := row * grid.CellSize
			x1 := minInt(x0+grid.CellSize, grid.Width)
			y1 := minInt(y0+grid.CellSize, grid.Height)
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					surface.SetNRGBA(x, y, c)
				}
			}
		}
	}
	return surface
}

// CompositeLighten blends the overlay onto a copy of the frame using a
// per-channel lighten blend, so the heat layer brightens the image
// underneath it rather than darkening it. The overlay's alpha scales
// its contribution before the channel-wise max is taken. Both images
// are interpreted in their own bounds; the result has the frame's
// bounds.
func CompositeLighten(frame *image.NRGBA, overlay *image.NRGBA) *image.NRGBA {
	out := image.NewNRGBA(frame.Bounds())
	copy(out.Pix, frame.Pix)

	b := frame.Bounds().Intersect(overlay.Bounds())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			o := overlay.NRGBAAt(x, y)
			if o.A == 0 {
				continue
			}
			f := out.NRGBAAt(x, y)
			a := uint32(o.A)
			f.R = maxChannel(f.R, uint8(uint32(o.R)*a/255))
			f.G = maxChannel(f.G, uint8(uint32(o.G)*a/255))
			f.B = maxChannel(f.B, uint8(uint32(o.B)*a/255))
			out.SetNRGBA(x, y, f)
		}
	}
	return out
}

func maxChannel(a, b uint8) uint8 {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
