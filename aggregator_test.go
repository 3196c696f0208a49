package shade

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_CountThreePoints(t *testing.T) {
	cv := unitCanvas(t, 10)
	src := mustTable(t,
		Floats("x", []float64{1, 1, 5}),
		Floats("y", []float64{1, 1, 5}),
	)

	agg, err := cv.Aggregate(src, Point{X: "x", Y: "y"}, Count())
	require.NoError(t, err)

	for row := 0; row < 10; row++ {
		for col := 0; col < 10; col++ {
			var want float64
			switch {
			case col == 1 && row == 1:
				want = 2
			case col == 5 && row == 5:
				want = 1
			}
			assert.Equal(t, want, agg.At(col, row), "cell (%d, %d)", col, row)
		}
	}

	img, err := Render(agg, DefaultColormap, Linear)
	require.NoError(t, err)
	assert.Equal(t, 2, img.Coverage())
}

func TestAggregate_LineDiagonal(t *testing.T) {
	cv := unitCanvas(t, 4)
	src := mustTable(t, Floats("x", []float64{0, 3}), Floats("y", []float64{0, 3}))

	agg, err := cv.Aggregate(src, Line{X: "x", Y: "y"}, Any())
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		assert.False(t, agg.Masked(i, i), "cell (%d, %d)", i, i)
	}
	assert.Equal(t, 4, countUnmasked(agg))
}

func countUnmasked(agg *Aggregate) int {
	n := 0
	for _, m := range agg.Mask() {
		if !m {
			n++
		}
	}
	return n
}

// randomTable returns n records whose values spread over many magnitudes,
// so float sums round differently in different orders.
func randomTable(t testing.TB, rng *rand.Rand, n int) *Table {
	t.Helper()
	xs, ys, vs := make([]float64, n), make([]float64, n), make([]float64, n)
	labels := make([]string, n)
	for i := range xs {
		xs[i] = rng.Float64() * 8
		ys[i] = rng.Float64() * 8
		vs[i] = randomValue(rng)
		labels[i] = []string{"a", "b", "c"}[rng.Intn(3)]
	}
	return mustTable(t,
		Floats("x", xs), Floats("y", ys), Floats("v", vs),
		Categorical("k", labels),
	)
}

func randomValue(rng *rand.Rand) float64 {
	return rng.NormFloat64() * math.Pow(10, float64(rng.Intn(17)-4))
}

// segmentTable returns n random two-vertex segments separated by NaN rows,
// written out in the given order.
func segmentTable(t testing.TB, rng *rand.Rand, order []int) *Table {
	t.Helper()
	type segment struct{ x0, y0, x1, y1, v float64 }
	segs := make([]segment, len(order))
	for i := range segs {
		segs[i] = segment{
			rng.Float64() * 8, rng.Float64() * 8,
			rng.Float64() * 8, rng.Float64() * 8,
			randomValue(rng),
		}
	}
	var xs, ys, vs []float64
	var codes []int32
	nan := math.NaN()
	for _, i := range order {
		s := segs[i]
		k := int32(i % 3)
		xs = append(xs, s.x0, s.x1, nan)
		ys = append(ys, s.y0, s.y1, nan)
		vs = append(vs, s.v, nan, nan)
		codes = append(codes, k, k, -1)
	}
	return mustTable(t,
		Floats("x", xs), Floats("y", ys), Floats("v", vs),
		CategoricalCodes("k", codes, []string{"a", "b", "c"}),
	)
}

func allReductions() []Reduction {
	return []Reduction{
		Count(), Any(), Sum("v"), Mean("v"), Min("v"), Max("v"), Var("v"), Std("v"), CountCat("k"),
	}
}

func TestAggregate_BatchAndWorkerIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	src := randomTable(t, rng, 2000)
	cv := unitCanvas(t, 8)

	for _, g := range []Glyph{Point{X: "x", Y: "y"}, Line{X: "x", Y: "y"}} {
		for _, r := range allReductions() {
			want, err := cv.Aggregate(src, g, r, WithWorkers(1), WithBatchSize(1<<20))
			require.NoError(t, err)
			for _, opts := range [][]AggregateOption{
				{WithBatchSize(1), WithWorkers(3)},
				{WithBatchSize(2), WithWorkers(1)},
				{WithBatchSize(17), WithWorkers(4)},
				{WithBatchSize(256)},
			} {
				got, err := cv.Aggregate(src, g, r, opts...)
				require.NoError(t, err)
				assert.True(t, want.Equal(got), "%T %v", g, r)
			}
		}
	}
}

func TestAggregate_CancellingValues(t *testing.T) {
	cv := mustCanvas(t, 1, 1, Range{0, 1}, Range{0, 1})
	src := mustTable(t,
		Floats("x", []float64{0.5, 0.5, 0.5, 0.5}),
		Floats("y", []float64{0.5, 0.5, 0.5, 0.5}),
		Floats("v", []float64{1, 1e16, -1e16, 1}),
	)
	p := Point{X: "x", Y: "y"}

	for _, r := range []Reduction{Sum("v"), Mean("v"), Var("v"), Std("v")} {
		want, err := cv.Aggregate(src, p, r)
		require.NoError(t, err)
		for _, size := range []int{1, 2, 3} {
			got, err := cv.Aggregate(src, p, r, WithBatchSize(size), WithWorkers(2))
			require.NoError(t, err)
			assert.True(t, want.Equal(got), "%v batch size %d", r, size)
		}
		switch r.Kind() {
		case ReduceSum:
			assert.Equal(t, 2.0, want.At(0, 0))
		case ReduceMean:
			assert.Equal(t, 0.5, want.At(0, 0))
		}
	}
}

func TestAggregate_OrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	src := randomTable(t, rng, 500)
	cv := unitCanvas(t, 8)

	perm := rng.Perm(src.Len())
	shuffled := make([]Column, 0, 4)
	for _, name := range src.Names() {
		c, err := src.Column(name)
		require.NoError(t, err)
		switch c := c.(type) {
		case FloatColumn:
			in := c.Floats(0, c.Len())
			out := make([]float64, len(in))
			for i, p := range perm {
				out[i] = in[p]
			}
			shuffled = append(shuffled, Floats(name, out))
		case CategoricalColumn:
			in := c.Codes(0, c.Len())
			out := make([]int32, len(in))
			for i, p := range perm {
				out[i] = in[p]
			}
			shuffled = append(shuffled, CategoricalCodes(name, out, c.Categories()))
		}
	}
	other := mustTable(t, shuffled...)

	for _, r := range allReductions() {
		a, err := cv.Aggregate(src, Point{X: "x", Y: "y"}, r)
		require.NoError(t, err)
		b, err := cv.Aggregate(other, Point{X: "x", Y: "y"}, r, WithBatchSize(31))
		require.NoError(t, err)
		assert.True(t, a.Equal(b), "%v", r)
	}
}

func TestAggregate_LineSegmentOrderIndependence(t *testing.T) {
	const n = 300
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	src := segmentTable(t, rand.New(rand.NewSource(5)), order)
	rand.New(rand.NewSource(9)).Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })
	other := segmentTable(t, rand.New(rand.NewSource(5)), order)
	cv := unitCanvas(t, 8)
	l := Line{X: "x", Y: "y"}

	for _, r := range allReductions() {
		a, err := cv.Aggregate(src, l, r)
		require.NoError(t, err)
		b, err := cv.Aggregate(other, l, r, WithBatchSize(7), WithWorkers(3))
		require.NoError(t, err)
		assert.True(t, a.Equal(b), "%v", r)
	}
}

func TestAggregate_Reductions(t *testing.T) {
	cv := mustCanvas(t, 2, 1, Range{0, 2}, Range{0, 1})
	src := mustTable(t,
		Floats("x", []float64{0.5, 0.5, 0.5, 1.5}),
		Floats("y", []float64{0.5, 0.5, 0.5, 0.5}),
		Floats("v", []float64{1, 3, math.NaN(), 4}),
	)
	p := Point{X: "x", Y: "y"}

	tests := []struct {
		r    Reduction
		want []float64
	}{
		{Count(), []float64{3, 1}},
		{Any(), []float64{1, 1}},
		{Sum("v"), []float64{4, 4}},
		{Mean("v"), []float64{2, 4}},
		{Min("v"), []float64{1, 4}},
		{Max("v"), []float64{3, 4}},
		{Var("v"), []float64{1, 0}},
		{Std("v"), []float64{1, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.r.String(), func(t *testing.T) {
			agg, err := cv.Aggregate(src, p, tt.r)
			require.NoError(t, err)
			assert.Equal(t, tt.want, agg.Values())
		})
	}
}

func TestAggregate_AllNaNCellIsMasked(t *testing.T) {
	cv := mustCanvas(t, 2, 1, Range{0, 2}, Range{0, 1})
	src := mustTable(t,
		Floats("x", []float64{0.5, 1.5}),
		Floats("y", []float64{0.5, 0.5}),
		Floats("v", []float64{math.NaN(), 2}),
	)
	for _, r := range []Reduction{Sum("v"), Mean("v"), Min("v"), Max("v"), Var("v")} {
		agg, err := cv.Aggregate(src, Point{X: "x", Y: "y"}, r)
		require.NoError(t, err)
		assert.True(t, agg.Masked(0, 0), "%v", r)
		assert.False(t, agg.Masked(1, 0), "%v", r)
	}
}

func TestAggregate_CountCat(t *testing.T) {
	cv := mustCanvas(t, 2, 1, Range{0, 2}, Range{0, 1})
	src := mustTable(t,
		Floats("x", []float64{0.5, 0.5, 1.5, 1.5}),
		Floats("y", []float64{0.5, 0.5, 0.5, 0.5}),
		Categorical("k", []string{"a", "b", "b", ""}),
	)

	agg, err := cv.Aggregate(src, Point{X: "x", Y: "y"}, CountCat("k"))
	require.NoError(t, err)
	assert.Equal(t, 2, agg.Depth())
	assert.Equal(t, []string{"a", "b"}, agg.Categories())
	assert.Equal(t, uint32(1), agg.CatAt(0, 0, 0))
	assert.Equal(t, uint32(1), agg.CatAt(0, 0, 1))
	assert.Equal(t, uint32(0), agg.CatAt(1, 0, 0))
	assert.Equal(t, uint32(1), agg.CatAt(1, 0, 1))
	assert.Equal(t, uint32(0), agg.CatAt(1, 0, -1))
	assert.Equal(t, uint32(0), agg.CatAt(1, 0, agg.Depth()))
	assert.Equal(t, []float64{2, 1}, agg.Values())
}

func TestAggregateSummary_MatchesIndividual(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	src := randomTable(t, rng, 1000)
	cv := unitCanvas(t, 8)
	g := Point{X: "x", Y: "y"}

	s, err := NewSummary(
		Named{"n", Count()},
		Named{"total", Sum("v")},
		Named{"lo", Min("v")},
		Named{"cats", CountCat("k")},
	)
	require.NoError(t, err)

	got, err := cv.AggregateSummary(src, g, s, WithBatchSize(64))
	require.NoError(t, err)
	require.Len(t, got, 4)
	for _, n := range s {
		want, err := cv.Aggregate(src, g, n.Reduction)
		require.NoError(t, err)
		assert.True(t, want.Equal(got[n.Name]), n.Name)
	}
}

func TestAggregate_ColumnErrors(t *testing.T) {
	cv := unitCanvas(t, 4)
	src := mustTable(t,
		Floats("x", []float64{1}),
		Floats("y", []float64{1}),
		Categorical("k", []string{"a"}),
	)
	p := Point{X: "x", Y: "y"}

	_, err := cv.Aggregate(src, p, Sum("k"))
	assert.ErrorIs(t, err, ErrUnsupportedReduction)

	_, err = cv.Aggregate(src, p, CountCat("x"))
	assert.ErrorIs(t, err, ErrUnsupportedReduction)

	_, err = cv.Aggregate(src, p, Mean("missing"))
	assert.ErrorIs(t, err, ErrColumnNotFound)

	_, err = cv.Aggregate(src, Point{X: "x", Y: "z"}, Count())
	assert.ErrorIs(t, err, ErrColumnNotFound)

	_, err = cv.AggregateSummary(src, p, Summary{{"a", Count()}, {"a", Any()}})
	assert.Error(t, err)
}

func TestAggregate_EmptySource(t *testing.T) {
	cv := unitCanvas(t, 3)
	src := mustTable(t, Floats("x", nil), Floats("y", nil))

	agg, err := cv.Aggregate(src, Line{X: "x", Y: "y"}, Count())
	require.NoError(t, err)
	assert.Equal(t, make([]uint32, 9), agg.Uint32s())
}

func TestMerge(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	src := randomTable(t, rng, 600)
	cv := unitCanvas(t, 8)
	g := Point{X: "x", Y: "y"}

	half := func(lo, hi int) *Table {
		cols := make([]Column, 0, 4)
		for _, name := range src.Names() {
			c, _ := src.Column(name)
			switch c := c.(type) {
			case FloatColumn:
				cols = append(cols, Floats(name, c.Floats(lo, hi)))
			case CategoricalColumn:
				cols = append(cols, CategoricalCodes(name, c.Codes(lo, hi), c.Categories()))
			}
		}
		return mustTable(t, cols...)
	}
	a, b := half(0, 250), half(250, 600)

	for _, r := range allReductions() {
		whole, err := cv.Aggregate(src, g, r)
		require.NoError(t, err)
		pa, err := cv.Aggregate(a, g, r)
		require.NoError(t, err)
		pb, err := cv.Aggregate(b, g, r)
		require.NoError(t, err)

		merged, err := Merge(pa, pb)
		require.NoError(t, err)
		assert.True(t, whole.Equal(merged), "%v", r)
	}
}

func TestMerge_Mismatch(t *testing.T) {
	src := mustTable(t, Floats("x", []float64{1}), Floats("y", []float64{1}))
	g := Point{X: "x", Y: "y"}

	a, err := unitCanvas(t, 4).Aggregate(src, g, Count())
	require.NoError(t, err)
	b, err := unitCanvas(t, 5).Aggregate(src, g, Count())
	require.NoError(t, err)
	c, err := unitCanvas(t, 4).Aggregate(src, g, Any())
	require.NoError(t, err)

	_, err = Merge(a, b)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = Merge(a, c)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = Merge()
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = Merge(nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = Merge(a, nil)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}
