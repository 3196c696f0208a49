package shade

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func sumOf(vals ...float64) float64 {
	var s exactSum
	for _, v := range vals {
		s.add(v)
	}
	return s.value()
}

func TestExactSum_Value(t *testing.T) {
	tests := []struct {
		name string
		vals []float64
		want float64
	}{
		{"empty", nil, 0},
		{"tenths", []float64{0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1, 0.1}, 1},
		{"cancel", []float64{1e100, 1, -1e100}, 1},
		{"cancel twice", []float64{1, 1e16, -1e16, 1}, 2},
		{"round down", []float64{1 << 53, -0.5, -0x1p-54}, 1<<53 - 1},
		{"tie to even", []float64{1 << 53, 1, 0x1p-100}, 1<<53 + 2},
		{"tie broken up", []float64{1<<53 + 10, 1, 0x1p-100}, 1<<53 + 12},
		{"tie broken down", []float64{1<<53 - 4, 0.5, 0x1p-54}, 1<<53 - 3},
		{"infinite", []float64{math.Inf(1), 1}, math.Inf(1)},
		{"overflow", []float64{math.MaxFloat64, math.MaxFloat64}, math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sumOf(tt.vals...))
		})
	}

	assert.True(t, math.IsNaN(sumOf(math.Inf(1), math.Inf(-1))))
}

func TestExactSum_MergeOrder(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 200; trial++ {
		vals := make([]float64, 1+rng.Intn(60))
		for i := range vals {
			vals[i] = rng.NormFloat64() * math.Pow(10, float64(rng.Intn(13)))
		}
		want := sumOf(vals...)

		rng.Shuffle(len(vals), func(i, j int) { vals[i], vals[j] = vals[j], vals[i] })
		size := 1 + rng.Intn(len(vals))
		var total exactSum
		for lo := 0; lo < len(vals); lo += size {
			var part exactSum
			for _, v := range vals[lo:min(lo+size, len(vals))] {
				part.add(v)
			}
			total.merge(&part)
		}
		assert.Equal(t, want, total.value(), "trial %d", trial)
	}
}

func TestExactSum_Reset(t *testing.T) {
	var s exactSum
	s.add(1e16)
	s.add(1)
	s.add(math.Inf(1))
	s.reset()
	s.add(0.5)
	assert.Equal(t, 0.5, s.value())
}
