package shade

// DefaultBatchSize is the number of records (or line segments) rasterized
// per batch when WithBatchSize is not given.
const DefaultBatchSize = 1 << 16

// AggregateOption configures Canvas.Aggregate and Canvas.AggregateSummary.
//
// Example:
//
//	agg, err := cv.Aggregate(src, shade.Point{X: "x", Y: "y"}, shade.Count(),
//	    shade.WithBatchSize(1<<20), shade.WithWorkers(4))
type AggregateOption func(*aggregateOptions)

type aggregateOptions struct {
	batchSize int
	workers   int
	drop      bool
}

func defaultAggregateOptions() aggregateOptions {
	return aggregateOptions{
		batchSize: DefaultBatchSize,
		workers:   0, // GOMAXPROCS
	}
}

// WithBatchSize sets how many records are rasterized per batch. Memory use
// is bounded by the grid size times the number of workers, not by the
// batch size; smaller batches only add merge work. Values below 1 are
// ignored.
func WithBatchSize(n int) AggregateOption {
	return func(o *aggregateOptions) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithWorkers sets the number of goroutines aggregating batches.
// 0 (the default) means GOMAXPROCS; 1 aggregates on the calling goroutine.
func WithWorkers(n int) AggregateOption {
	return func(o *aggregateOptions) {
		o.workers = n
	}
}

// WithDropOutside makes the Point glyph drop records outside the canvas
// ranges instead of clamping them onto the edge cells. Lines are always
// clipped to the ranges.
func WithDropOutside() AggregateOption {
	return func(o *aggregateOptions) {
		o.drop = true
	}
}

// RenderOption configures Render and Colorize.
type RenderOption func(*renderOptions)

type renderOptions struct {
	span     *Range
	alpha    uint8
	minAlpha uint8
}

func defaultRenderOptions() renderOptions {
	return renderOptions{alpha: 255, minAlpha: 40}
}

// WithSpan fixes the data range mapped onto the colormap instead of
// deriving it from the aggregate. Values outside the span are clipped.
// A fixed span keeps colors stable across views of the same data. low must
// be finite and below high, or rendering fails with ErrInvalidRange.
func WithSpan(low, high float64) RenderOption {
	return func(o *renderOptions) {
		o.span = &Range{Low: low, High: high}
	}
}

// WithAlpha sets the alpha of unmasked pixels (Render) or the upper end of
// the alpha ramp (Colorize). The default is 255.
func WithAlpha(a uint8) RenderOption {
	return func(o *renderOptions) {
		o.alpha = a
	}
}

// WithMinAlpha sets the alpha Colorize gives to the smallest non-empty
// totals. The default is 40.
func WithMinAlpha(a uint8) RenderOption {
	return func(o *renderOptions) {
		o.minAlpha = a
	}
}

// SpreadOption configures Spread and Dynspread.
type SpreadOption func(*spreadOptions)

type spreadOptions struct {
	shape     Shape
	mask      [][]bool
	compose   Compose
	threshold float64
	maxPx     int
}

func defaultSpreadOptions() spreadOptions {
	return spreadOptions{
		shape:     Circle,
		compose:   ComposeOver,
		threshold: 0.5,
		maxPx:     3,
	}
}

// WithShape selects the mask shape used by Spread and Dynspread.
func WithShape(s Shape) SpreadOption {
	return func(o *spreadOptions) {
		o.shape = s
	}
}

// WithMask sets an explicit structuring mask: an odd-sized square of
// flags centred on the source pixel. It overrides the shape and px.
func WithMask(m [][]bool) SpreadOption {
	return func(o *spreadOptions) {
		o.mask = m
	}
}

// WithCompose selects how overlapping spread pixels are combined.
func WithCompose(c Compose) SpreadOption {
	return func(o *spreadOptions) {
		o.compose = c
	}
}

// WithThreshold sets the neighbour density Dynspread must stay below.
func WithThreshold(t float64) SpreadOption {
	return func(o *spreadOptions) {
		o.threshold = t
	}
}

// WithMaxPx caps the radius Dynspread may choose.
func WithMaxPx(px int) SpreadOption {
	return func(o *spreadOptions) {
		o.maxPx = px
	}
}
