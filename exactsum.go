package shade

import "math"

// exactSum holds a sum of float64 values without rounding error, as
// non-overlapping partials in increasing order of magnitude (Shewchuk's
// adaptive expansion). Infinite terms, and finite sums that overflow, are
// kept apart in special.
//
// The rounded value depends only on the terms added, not on their order or
// on how partial sums were grouped and merged.
type exactSum struct {
	parts   []float64
	special float64
}

func (s *exactSum) reset() {
	s.parts = s.parts[:0]
	s.special = 0
}

// add adds x exactly. NaN terms poison the sum.
func (s *exactSum) add(x float64) {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		s.special += x
		return
	}
	i := 0
	for _, y := range s.parts {
		if math.Abs(x) < math.Abs(y) {
			x, y = y, x
		}
		hi := x + y
		if math.IsInf(hi, 0) {
			s.special += hi
			s.parts = s.parts[:0]
			return
		}
		lo := y - (hi - x)
		if lo != 0 {
			s.parts[i] = lo
			i++
		}
		x = hi
	}
	s.parts = s.parts[:i]
	if x != 0 {
		s.parts = append(s.parts, x)
	}
}

// addProduct adds a*b, including the rounding error of the product.
func (s *exactSum) addProduct(a, b float64) {
	p := a * b
	s.add(p)
	if !math.IsInf(p, 0) && !math.IsNaN(p) {
		s.add(math.FMA(a, b, -p))
	}
}

// merge adds every term of o to s.
func (s *exactSum) merge(o *exactSum) {
	s.special += o.special
	for _, p := range o.parts {
		s.add(p)
	}
}

func (s *exactSum) clone() exactSum {
	return exactSum{parts: cloneSlice(s.parts), special: s.special}
}

// value returns the sum correctly rounded to the nearest float64, ties to
// even.
func (s *exactSum) value() float64 {
	if s.special != 0 {
		return s.special
	}
	p := s.parts
	n := len(p)
	if n == 0 {
		return 0
	}
	n--
	hi := p[n]
	var lo float64
	for n > 0 {
		x := hi
		n--
		y := p[n]
		hi = x + y
		lo = y - (hi - x)
		if lo != 0 {
			break
		}
	}
	// The partials below lo can only break a tie between hi and its
	// neighbour, so push hi one way when they share lo's sign.
	if n > 0 && ((lo < 0 && p[n-1] < 0) || (lo > 0 && p[n-1] > 0)) {
		y := lo * 2
		x := hi + y
		if y == x-hi {
			hi = x
		}
	}
	return hi
}
