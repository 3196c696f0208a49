// Package shade turns large point and line datasets into images in bounded
// memory.
//
// # Overview
//
// Rendering millions of records directly overplots and saturates. shade
// instead bins every record into a fixed grid of cells, reduces the
// records falling into each cell to one value, and maps those values to
// colors. Memory depends on the grid size, never on the number of records.
//
// # Quick Start
//
//	import "github.com/gogpu/shade"
//
//	cv, _ := shade.NewCanvas(400, 300, shade.Range{Low: 0, High: 1}, shade.Range{Low: 0, High: 1})
//	src, _ := shade.NewTable(shade.Floats("x", xs), shade.Floats("y", ys))
//
//	agg, _ := cv.Aggregate(src, shade.Point{X: "x", Y: "y"}, shade.Count())
//	img, _ := shade.Render(agg, shade.DefaultColormap, shade.EqHist)
//	img, _ = shade.Dynspread(img)
//	_ = shade.SetBackground(img, shade.MustParseColor("black")).SavePNG("out.png")
//
// # Pipeline
//
// The pipeline has four stages:
//   - Canvas: the grid size and the data ranges it covers
//   - Aggregation: a Glyph (Point or Line) and a Reduction (count, sum, mean, ...)
//     produce an Aggregate, one value per cell
//   - Rendering: Render maps values through a How transform and a Colormap;
//     Colorize blends per-category counts with a color key
//   - Post-processing: Spread, Dynspread, Stack and SetBackground
//
// # Coordinate System
//
// Cell (0, 0) covers the lowest x and y values. Column grows with x and row
// grows with y. The image.Image view of an Image flips rows so that y grows
// upward on screen.
//
// # Concurrency
//
// Aggregation splits the records into batches that run on a work-stealing
// pool, one partial grid per worker. Float sums are kept exactly and rounded
// once when the grid is finished, so results are bit-identical for any
// batch size, worker count or record order.
//
// # Logging
//
// shade is silent by default. Call SetLogger with an slog.Logger to see
// debug output from aggregation and rendering.
package shade

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
