// Command shade renders a CSV file of points or line vertices to a PNG.
//
// Usage:
//
//	shade -in trips.csv -x lon -y lat -agg count -how eq_hist -out trips.png
//	shade -in ais.csv -x lon -y lat -glyph line -agg mean -col speed -cmap viridis
//	shade -in census.csv -x easting -y northing -agg count_cat -col race -dynspread
package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/aclements/go-moremath/stats"
	"golang.org/x/image/colornames"

	"github.com/gogpu/shade"
)

// categoryColors colors categories in order of first appearance.
var categoryColors = []color.Color{
	colornames.Dodgerblue,
	colornames.Orangered,
	colornames.Limegreen,
	colornames.Gold,
	colornames.Mediumorchid,
	colornames.Turquoise,
	colornames.Hotpink,
	colornames.Sienna,
}

func main() {
	var (
		in        = flag.String("in", "", "input CSV file (default stdin)")
		xcol      = flag.String("x", "x", "x column")
		ycol      = flag.String("y", "y", "y column")
		glyph     = flag.String("glyph", "point", "glyph: point or line")
		agg       = flag.String("agg", "count", "reduction: count, any, sum, mean, min, max, var, std, count_cat")
		col       = flag.String("col", "", "column for the reduction")
		how       = flag.String("how", "eq_hist", "transform: linear, log, cbrt, eq_hist")
		width     = flag.Int("width", 600, "image width")
		height    = flag.Int("height", 400, "image height")
		xmin      = flag.Float64("xmin", math.NaN(), "x range low (default data min)")
		xmax      = flag.Float64("xmax", math.NaN(), "x range high (default data max)")
		ymin      = flag.Float64("ymin", math.NaN(), "y range low (default data min)")
		ymax      = flag.Float64("ymax", math.NaN(), "y range high (default data max)")
		cmap      = flag.String("cmap", "default", "colormap name or comma-separated colors")
		spread    = flag.Int("spread", 0, "spread radius in pixels")
		dynspread = flag.Bool("dynspread", false, "spread by a density-dependent radius")
		bg        = flag.String("bg", "", "background color")
		output    = flag.String("out", "shade.png", "output file")
		verbose   = flag.Bool("v", false, "debug logging")
	)
	flag.Parse()

	if *verbose {
		shade.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	cfg := config{
		in: *in, x: *xcol, y: *ycol, glyph: *glyph, agg: *agg, col: *col, how: *how,
		width: *width, height: *height,
		xr: shade.Range{Low: *xmin, High: *xmax}, yr: shade.Range{Low: *ymin, High: *ymax},
		cmap: *cmap, spread: *spread, dynspread: *dynspread, bg: *bg, out: *output,
	}
	if err := run(cfg); err != nil {
		log.Fatalf("shade: %v", err)
	}
	log.Printf("Saved %s (%dx%d)\n", cfg.out, cfg.width, cfg.height)
}

type config struct {
	in, x, y, glyph, agg, col, how string
	width, height                  int
	xr, yr                         shade.Range
	cmap                           string
	spread                         int
	dynspread                      bool
	bg, out                        string
}

func run(cfg config) error {
	src, err := readTable(cfg.in, cfg.agg, cfg.col)
	if err != nil {
		return err
	}
	xr, err := dataRange(src, cfg.x, cfg.xr)
	if err != nil {
		return err
	}
	yr, err := dataRange(src, cfg.y, cfg.yr)
	if err != nil {
		return err
	}
	cv, err := shade.NewCanvas(cfg.width, cfg.height, xr, yr)
	if err != nil {
		return err
	}

	var g shade.Glyph
	switch cfg.glyph {
	case "point":
		g = shade.Point{X: cfg.x, Y: cfg.y}
	case "line":
		g = shade.Line{X: cfg.x, Y: cfg.y}
	default:
		return fmt.Errorf("unknown glyph %q", cfg.glyph)
	}
	red, err := shade.ParseReduction(cfg.agg, cfg.col)
	if err != nil {
		return err
	}
	how, err := shade.ParseHow(cfg.how)
	if err != nil {
		return err
	}

	a, err := cv.Aggregate(src, g, red)
	if err != nil {
		return err
	}

	var img *shade.Image
	if red.Kind() == shade.ReduceCountCat {
		key := make(map[string]color.Color, len(a.Categories()))
		for i, name := range a.Categories() {
			key[name] = categoryColors[i%len(categoryColors)]
		}
		img, err = shade.Colorize(a, key, how)
	} else {
		var cm shade.Colormap
		cm, err = colormap(cfg.cmap)
		if err != nil {
			return err
		}
		img, err = shade.Render(a, cm, how)
	}
	if err != nil {
		return err
	}

	switch {
	case cfg.dynspread:
		img, err = shade.Dynspread(img)
	case cfg.spread > 0:
		img, err = shade.Spread(img, cfg.spread)
	}
	if err != nil {
		return err
	}
	if cfg.bg != "" {
		c, err := shade.ParseColor(cfg.bg)
		if err != nil {
			return err
		}
		img = shade.SetBackground(img, c)
	}
	return img.SavePNG(cfg.out)
}

func readTable(path, agg, col string) (*shade.Table, error) {
	r := os.Stdin
	if path != "" {
		f, err := os.Open(path) //nolint:gosec // path is user-provided intentionally
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	var categorical []string
	if agg == "count_cat" {
		categorical = append(categorical, col)
	}
	return shade.ReadCSV(r, categorical...)
}

// dataRange fills the NaN ends of r from the bounds of the column.
func dataRange(src shade.Source, name string, r shade.Range) (shade.Range, error) {
	if !math.IsNaN(r.Low) && !math.IsNaN(r.High) {
		return r, nil
	}
	c, err := src.Column(name)
	if err != nil {
		return r, err
	}
	fc, ok := c.(shade.FloatColumn)
	if !ok {
		return r, fmt.Errorf("column %q is not numeric", name)
	}
	xs := make([]float64, 0, fc.Len())
	for _, v := range fc.Floats(0, fc.Len()) {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			xs = append(xs, v)
		}
	}
	if len(xs) == 0 {
		return r, fmt.Errorf("column %q has no finite values", name)
	}
	lo, hi := stats.Bounds(xs)
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}
	if math.IsNaN(r.Low) {
		r.Low = lo
	}
	if math.IsNaN(r.High) {
		r.High = hi
	}
	return r, nil
}

func colormap(name string) (shade.Colormap, error) {
	if g, ok := shade.ColormapByName(name); ok {
		return g, nil
	}
	return shade.ParseColormap(strings.Split(name, ",")...)
}
