package shade

import (
	"fmt"
	"runtime"

	"github.com/gogpu/shade/internal/parallel"
)

// Aggregate streams the records of src through glyph g onto the canvas,
// reducing every cell with r, and returns the finished grid.
//
// Records are processed in batches (see WithBatchSize) on a worker pool
// (see WithWorkers). Each batch fills its own partial grid and partial
// grids are merged exactly, so the result is bit-identical for any batch
// size, worker count or record order.
//
// Records with a NaN coordinate are skipped silently: they neither abort
// the pass nor appear in the result. For lines they end the current run.
//
// Column problems are reported before any record is read, as errors
// wrapping ErrColumnNotFound or ErrUnsupportedReduction.
func (c Canvas) Aggregate(src Source, g Glyph, r Reduction, opts ...AggregateOption) (*Aggregate, error) {
	aggs, err := aggregate(src, c, g, []Reduction{r}, opts)
	if err != nil {
		return nil, err
	}
	return aggs[0], nil
}

// AggregateSummary computes all reductions of s in a single pass over the
// records and returns the aggregates keyed by name.
func (c Canvas) AggregateSummary(src Source, g Glyph, s Summary, opts ...AggregateOption) (map[string]*Aggregate, error) {
	if _, err := NewSummary(s...); err != nil {
		return nil, err
	}
	reds := make([]Reduction, len(s))
	for i, n := range s {
		reds[i] = n.Reduction
	}
	aggs, err := aggregate(src, c, g, reds, opts)
	if err != nil {
		return nil, err
	}
	out := make(map[string]*Aggregate, len(s))
	for i, n := range s {
		out[n.Name] = aggs[i]
	}
	return out, nil
}

// binding is a reduction resolved against a source.
type binding struct {
	red        Reduction
	vals       FloatColumn
	codes      CategoricalColumn
	categories []string
}

func bind(src Source, r Reduction) (binding, error) {
	b := binding{red: r}
	switch r.kind {
	case ReduceCount, ReduceAny:
	case ReduceCountCat:
		cc, err := categoricalColumnOf(src, r.column, r.String())
		if err != nil {
			return binding{}, err
		}
		b.codes = cc
		b.categories = cc.Categories()
	case ReduceSum, ReduceMean, ReduceMin, ReduceMax, ReduceVar, ReduceStd:
		fc, err := floatColumnOf(src, r.column, r.String())
		if err != nil {
			return binding{}, err
		}
		b.vals = fc
	default:
		return binding{}, fmt.Errorf("%w: %v", ErrUnsupportedReduction, r.kind)
	}
	return b, nil
}

func (b binding) newAccumulator(cells int) *accumulator {
	return newAccumulator(b.red.kind, cells, len(b.categories))
}

// add folds the hits of batch [lo, hi) into acc.
func (b binding) add(acc *accumulator, hits []hit, lo, hi int) {
	var vals []float64
	var codes []int32
	if b.vals != nil {
		vals = b.vals.Floats(lo, hi)
	}
	if b.codes != nil {
		codes = b.codes.Codes(lo, hi)
	}
	acc.add(hits, lo, vals, codes)
}

// batchSlot is the scratch space of one in-flight batch.
type batchSlot struct {
	hits []hit
	accs []*accumulator
}

func aggregate(src Source, cv Canvas, g Glyph, reds []Reduction, opts []AggregateOption) ([]*Aggregate, error) {
	o := defaultAggregateOptions()
	for _, opt := range opts {
		opt(&o)
	}

	plan, err := newGlyphPlan(g, src, cv, o.drop)
	if err != nil {
		return nil, err
	}
	binds := make([]binding, len(reds))
	for i, r := range reds {
		if binds[i], err = bind(src, r); err != nil {
			return nil, err
		}
	}

	cells := cv.Cells()
	totals := make([]*accumulator, len(binds))
	for i, b := range binds {
		totals[i] = b.newAccumulator(cells)
	}

	units := plan.units()
	batches := (units + o.batchSize - 1) / o.batchSize

	workers := o.workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	workers = max(min(workers, batches), 1)

	pool := parallel.NewPool(workers)
	defer pool.Close()

	slots := make([]*batchSlot, min(workers, batches))

	Logger().Debug("shade: aggregate",
		"canvas", cv.String(),
		"glyph", fmt.Sprintf("%T", g),
		"reductions", fmt.Sprint(reds),
		"records", src.Len(),
		"batches", batches,
		"workers", len(slots))

	// Batches run in waves of len(slots); each wave's partial grids are
	// merged in batch order before the next wave reuses the slots.
	for wave := 0; wave < batches; wave += len(slots) {
		n := min(len(slots), batches-wave)
		pool.ForEach(n, func(i int) {
			s := slots[i]
			if s == nil {
				s = &batchSlot{accs: make([]*accumulator, len(binds))}
				for j, b := range binds {
					s.accs[j] = b.newAccumulator(cells)
				}
				slots[i] = s
			}
			lo := (wave + i) * o.batchSize
			hi := min(lo+o.batchSize, units)

			s.hits = plan.rasterize(s.hits[:0], lo, hi)
			for j, b := range binds {
				s.accs[j].reset()
				b.add(s.accs[j], s.hits, lo, hi)
			}
		})
		for i := range n {
			for j := range totals {
				totals[j].merge(slots[i].accs[j])
			}
		}
	}

	out := make([]*Aggregate, len(binds))
	for i, b := range binds {
		out[i] = newAggregate(cv, b.red, b.categories, totals[i])
	}
	return out, nil
}
