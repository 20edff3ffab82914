package heatmap

import "image/color"

// ColorStop is one anchor of the intensity gradient. Thresholds are
// evenly spaced and strictly increasing across the stop table.
type ColorStop struct {
	Threshold float64
	R, G, B   uint8
	A         uint8
}

// colorStops is the fixed gradient used for every overlay: fully
// transparent blue at zero density ramping to opaque red at peak.
// Alpha never decreases along the table so hotter always reads as
// more opaque.
var colorStops = [6]ColorStop{
	{0.0, 0, 0, 255, 0},
	{0.2, 0, 0, 255, 90},
	{0.4, 0, 255, 255, 130},
	{0.6, 0, 255, 0, 170},
	{0.8, 255, 255, 0, 210},
	{1.0, 255, 0, 0, 255},
}

// Stops returns a copy of the gradient table.
func Stops() []ColorStop {
	s := make([]ColorStop, len(colorStops))
	copy(s, colorStops[:])
	return s
}

// MapColor converts a normalized intensity t in [0,1] to an NRGBA
// color by linear interpolation between the two surrounding stops.
// MapColor(0) is exactly the first stop and MapColor(1) exactly the
// last. Out-of-range inputs are clamped.
func MapColor(t float64) color.NRGBA {
	if t <= 0 {
		s := colorStops[0]
		return color.NRGBA{R: s.R, G: s.G, B: s.B, A: s.A}
	}
	if t >= 1 {
		s := colorStops[len(colorStops)-1]
		return color.NRGBA{R: s.R, G: s.G, B: s.B, A: s.A}
	}

	n := len(colorStops)
	pos := t * float64(n-1)
	i := int(pos)
	if i > n-2 {
		i = n - 2
	}
	f := pos - float64(i)

	lo, hi := colorStops[i], colorStops[i+1]
	return color.NRGBA{
		R: lerpChannel(lo.R, hi.R, f),
		G: lerpChannel(lo.G, hi.G, f),
		B: lerpChannel(lo.B, hi.B, f),
		A: lerpChannel(lo.A, hi.A, f),
	}
}

func lerpChannel(a, b uint8, f float64) uint8 {
	return uint8(float64(a) + (float64(b)-float64(a))*f + 0.5)
}
