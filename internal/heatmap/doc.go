// Package heatmap renders per-camera detection-density overlays.
//
// A sparse set of weighted detection points, positioned in normalized
// frame coordinates, is converted into a smooth heat layer in three
// stages: EstimateDensity accumulates a Gaussian kernel into a coarse
// grid and normalizes it to [0,1], MapColor turns intensities into
// gradient colors, and RenderSurface paints the grid onto a
// transparent raster sized to the viewport. A Tile owns that pipeline
// for one camera together with its point cache and refresh lifecycle;
// a Registry keys tiles by camera ID.
package heatmap
