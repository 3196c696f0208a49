package shade

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitCanvas(t testing.TB, n int) Canvas {
	t.Helper()
	return mustCanvas(t, n, n, Range{0, float64(n)}, Range{0, float64(n)})
}

func lineCounts(t *testing.T, cv Canvas, xs, ys []float64, opts ...AggregateOption) []uint32 {
	t.Helper()
	src := mustTable(t, Floats("x", xs), Floats("y", ys))
	agg, err := cv.Aggregate(src, Line{X: "x", Y: "y"}, Count(), opts...)
	require.NoError(t, err)
	return agg.Uint32s()
}

func TestLine_DiagonalAny(t *testing.T) {
	cv := unitCanvas(t, 3)
	src := mustTable(t, Floats("x", []float64{0.5, 2.5}), Floats("y", []float64{0.5, 2.5}))

	agg, err := cv.Aggregate(src, Line{X: "x", Y: "y"}, Any())
	require.NoError(t, err)
	assert.Equal(t, Bool, agg.DType())

	for row := 0; row < 3; row++ {
		for col := 0; col < 3; col++ {
			assert.Equal(t, col == row, !agg.Masked(col, row), "cell (%d, %d)", col, row)
		}
	}
}

func TestLineCells(t *testing.T) {
	tests := []struct {
		name           string
		c0, r0, c1, r1 int
		want           [][2]int
	}{
		{"single", 2, 2, 2, 2, [][2]int{{2, 2}}},
		{"horizontal", 0, 1, 3, 1, [][2]int{{0, 1}, {1, 1}, {2, 1}, {3, 1}}},
		{"vertical down", 1, 2, 1, 0, [][2]int{{1, 2}, {1, 1}, {1, 0}}},
		{"diagonal", 0, 0, 2, 2, [][2]int{{0, 0}, {1, 1}, {2, 2}}},
		{"shallow", 0, 0, 3, 1, [][2]int{{0, 0}, {1, 0}, {2, 1}, {3, 1}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LineCells(tt.c0, tt.r0, tt.c1, tt.r1))
		})
	}
}

func TestLineCells_Connected(t *testing.T) {
	for c1 := 0; c1 < 8; c1++ {
		for r1 := 0; r1 < 8; r1++ {
			cells := LineCells(3, 4, c1, r1)
			require.Equal(t, [2]int{3, 4}, cells[0])
			require.Equal(t, [2]int{c1, r1}, cells[len(cells)-1])
			require.Len(t, cells, max(abs(c1-3), abs(r1-4))+1)
			for i := 1; i < len(cells); i++ {
				dc, dr := abs(cells[i][0]-cells[i-1][0]), abs(cells[i][1]-cells[i-1][1])
				require.True(t, dc <= 1 && dr <= 1 && dc+dr > 0, "gap at %v", cells[i])
			}
		}
	}
}

func TestLine_JoinCountedOnce(t *testing.T) {
	cv := unitCanvas(t, 3)
	xs := []float64{0.5, 2.5, 2.5}
	ys := []float64{0.5, 0.5, 2.5}
	want := []uint32{
		1, 1, 1,
		0, 0, 1,
		0, 0, 1,
	}
	assert.Equal(t, want, lineCounts(t, cv, xs, ys))

	// The join straddles a batch boundary.
	assert.Equal(t, want, lineCounts(t, cv, xs, ys, WithBatchSize(1), WithWorkers(2)))
}

func TestLine_NaNBreaksRun(t *testing.T) {
	cv := unitCanvas(t, 3)
	nan := math.NaN()

	got := lineCounts(t, cv, []float64{0.5, nan, 2.5}, []float64{0.5, 1.5, 2.5})
	assert.Equal(t, make([]uint32, 9), got)

	got = lineCounts(t, cv,
		[]float64{0.5, 2.5, nan, 0.5, 0.5},
		[]float64{0.5, 0.5, 1, 2.5, 1.5})
	want := []uint32{
		1, 1, 1,
		1, 0, 0,
		1, 0, 0,
	}
	assert.Equal(t, want, got)
}

func TestLine_Clipped(t *testing.T) {
	cv := unitCanvas(t, 3)

	got := lineCounts(t, cv, []float64{-10, 10}, []float64{0.5, 0.5})
	assert.Equal(t, []uint32{1, 1, 1, 0, 0, 0, 0, 0, 0}, got)

	got = lineCounts(t, cv, []float64{-10, -5}, []float64{0.5, 2.5})
	assert.Equal(t, make([]uint32, 9), got, "segment outside the canvas")
}

func TestClipSegment(t *testing.T) {
	r := Range{0, 1}

	x0, y0, x1, y1, ok := clipSegment(0.25, 0.25, 0.75, 0.5, r, r)
	require.True(t, ok)
	assert.Equal(t, [4]float64{0.25, 0.25, 0.75, 0.5}, [4]float64{x0, y0, x1, y1})

	x0, y0, x1, y1, ok = clipSegment(-1, 0.5, 2, 0.5, r, r)
	require.True(t, ok)
	assert.InDelta(t, 0, x0, 1e-12)
	assert.InDelta(t, 1, x1, 1e-12)
	assert.Equal(t, 0.5, y0)
	assert.Equal(t, 0.5, y1)

	_, _, _, _, ok = clipSegment(-1, 2, 2, 5, r, r)
	assert.False(t, ok)
}

func TestPoint_SkipsNaNAndClamps(t *testing.T) {
	cv := unitCanvas(t, 2)
	src := mustTable(t,
		Floats("x", []float64{0.5, math.NaN(), 5, -1}),
		Floats("y", []float64{0.5, 0.5, 1.5, 0.5}),
	)

	agg, err := cv.Aggregate(src, Point{X: "x", Y: "y"}, Count())
	require.NoError(t, err)
	assert.Equal(t, []uint32{2, 0, 0, 1}, agg.Uint32s())

	agg, err = cv.Aggregate(src, Point{X: "x", Y: "y"}, Count(), WithDropOutside())
	require.NoError(t, err)
	assert.Equal(t, []uint32{1, 0, 0, 0}, agg.Uint32s())
}
