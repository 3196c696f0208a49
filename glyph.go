package shade

import (
	"math"
)

// Glyph decides which cells a record touches. The set of glyphs is
// closed: Point and Line.
type Glyph interface {
	// Columns returns the names of the x and y coordinate columns.
	Columns() (x, y string)
	glyphKind() glyphKind
}

type glyphKind uint8

const (
	glyphPoint glyphKind = iota
	glyphLine
)

// Point maps each record to the single cell containing (X, Y).
// Records with a NaN coordinate are skipped.
type Point struct {
	X, Y string
}

// Columns implements Glyph.
func (p Point) Columns() (string, string) { return p.X, p.Y }

func (Point) glyphKind() glyphKind { return glyphPoint }

// Line connects consecutive records with straight segments. Each segment
// touches every cell on the discrete line between its endpoints' cells,
// both endpoints included. A record with a NaN coordinate breaks the line:
// the segments on either side of it are skipped.
type Line struct {
	X, Y string
}

// Columns implements Glyph.
func (l Line) Columns() (string, string) { return l.X, l.Y }

func (Line) glyphKind() glyphKind { return glyphLine }

// hit records that record rec contributes to cell.
type hit struct {
	cell int
	rec  int
}

// glyphPlan is a glyph bound to a source and canvas, ready to rasterize
// batches of work units (records for points, segments for lines).
type glyphPlan struct {
	kind   glyphKind
	xs, ys FloatColumn
	cv     Canvas
	n      int
	drop   bool
}

func newGlyphPlan(g Glyph, src Source, cv Canvas, drop bool) (*glyphPlan, error) {
	xn, yn := g.Columns()
	xs, err := floatColumnOf(src, xn, "x")
	if err != nil {
		return nil, err
	}
	ys, err := floatColumnOf(src, yn, "y")
	if err != nil {
		return nil, err
	}
	return &glyphPlan{kind: g.glyphKind(), xs: xs, ys: ys, cv: cv, n: src.Len(), drop: drop}, nil
}

// units returns the number of independently rasterizable work units.
func (p *glyphPlan) units() int {
	if p.kind == glyphLine {
		return max(p.n-1, 0)
	}
	return p.n
}

// rasterize appends the hits of work units [lo, hi) to dst.
func (p *glyphPlan) rasterize(dst []hit, lo, hi int) []hit {
	if p.kind == glyphLine {
		return p.rasterizeLines(dst, lo, hi)
	}
	return p.rasterizePoints(dst, lo, hi)
}

func (p *glyphPlan) rasterizePoints(dst []hit, lo, hi int) []hit {
	xs, ys := p.xs.Floats(lo, hi), p.ys.Floats(lo, hi)
	for i := range xs {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		if p.drop && !p.cv.Contains(x, y) {
			continue
		}
		col, row := p.cv.Project(x, y)
		dst = append(dst, hit{cell: p.cv.Index(col, row), rec: lo + i})
	}
	return dst
}

// rasterizeLines draws segments [lo, hi); segment i joins records i and
// i+1. The segment before lo is re-examined so that a join straddling a
// batch boundary is counted exactly once, as it would be in one batch.
func (p *glyphPlan) rasterizeLines(dst []hit, lo, hi int) []hit {
	first := max(lo-1, 0)
	xs, ys := p.xs.Floats(first, hi+1), p.ys.Floats(first, hi+1)

	var prev cellSegment
	if first < lo {
		prev = p.segment(xs[0], ys[0], xs[1], ys[1])
	}
	for i := lo; i < hi; i++ {
		j := i - first
		seg := p.segment(xs[j], ys[j], xs[j+1], ys[j+1])
		if seg.ok {
			skipFirst := prev.ok && prev.c1 == seg.c0 && prev.r1 == seg.r0
			dst = appendLine(dst, p.cv, seg, i, skipFirst)
		}
		prev = seg
	}
	return dst
}

// cellSegment is a segment clipped to the canvas and projected to cells.
type cellSegment struct {
	c0, r0, c1, r1 int
	ok             bool
}

func (p *glyphPlan) segment(x0, y0, x1, y1 float64) cellSegment {
	if !finite(x0) || !finite(y0) || !finite(x1) || !finite(y1) {
		return cellSegment{}
	}
	x0, y0, x1, y1, ok := clipSegment(x0, y0, x1, y1, p.cv.x, p.cv.y)
	if !ok {
		return cellSegment{}
	}
	c0, r0 := p.cv.Project(x0, y0)
	c1, r1 := p.cv.Project(x1, y1)
	return cellSegment{c0: c0, r0: r0, c1: c1, r1: r1, ok: true}
}

// clipSegment clips the segment to the rectangle xr × yr using the
// Liang–Barsky algorithm. Endpoints that are already inside are returned
// unchanged.
func clipSegment(x0, y0, x1, y1 float64, xr, yr Range) (float64, float64, float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - xr.Low, xr.High - x0, y0 - yr.Low, yr.High - y0}

	t0, t1 := 0.0, 1.0
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, false
			}
			continue
		}
		t := q[i] / p[i]
		if p[i] < 0 {
			if t > t1 {
				return 0, 0, 0, 0, false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return 0, 0, 0, 0, false
			}
			t1 = min(t1, t)
		}
	}

	nx0, ny0, nx1, ny1 := x0, y0, x1, y1
	if t0 > 0 {
		nx0, ny0 = x0+t0*dx, y0+t0*dy
	}
	if t1 < 1 {
		nx1, ny1 = x0+t1*dx, y0+t1*dy
	}
	return nx0, ny0, nx1, ny1, true
}

// appendLine appends the Bresenham path of seg to dst, attributing every
// cell to record rec.
func appendLine(dst []hit, cv Canvas, seg cellSegment, rec int, skipFirst bool) []hit {
	c, r := seg.c0, seg.r0
	dx, sx := abs(seg.c1-c), sign(seg.c1-c)
	dy, sy := -abs(seg.r1-r), sign(seg.r1-r)
	e := dx + dy

	for first := true; ; first = false {
		if !first || !skipFirst {
			dst = append(dst, hit{cell: cv.Index(c, r), rec: rec})
		}
		if c == seg.c1 && r == seg.r1 {
			return dst
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			c += sx
		}
		if e2 <= dx {
			e += dx
			r += sy
		}
	}
}

// LineCells returns the cells (col, row) on the discrete line between
// two cells, both endpoints included, in path order. Cell coordinates
// must be non-negative.
func LineCells(c0, r0, c1, r1 int) [][2]int {
	cv := Canvas{width: max(c0, c1) + 1, height: max(r0, r1) + 1}
	hits := appendLine(nil, cv, cellSegment{c0: c0, r0: r0, c1: c1, r1: r1, ok: true}, 0, false)
	cells := make([][2]int, len(hits))
	for i, h := range hits {
		cells[i] = [2]int{h.cell % cv.width, h.cell / cv.width}
	}
	return cells
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
