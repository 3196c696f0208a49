package filter

import (
	"errors"
	"sync"
)

// ErrMaskShape is returned by NewMask for masks that are empty, not
// square, or of even size.
var ErrMaskShape = errors.New("filter: mask must be a non-empty odd-sized square")

// Mask is a square structuring element of odd size 2*Radius+1, centred on
// the pixel being spread. Offsets lists the (dx, dy) of every set entry in
// row-major order, so callers can iterate without re-reading the grid.
type Mask struct {
	Radius  int
	Offsets [][2]int
}

// NewMask builds a mask from rows of flags.
func NewMask(rows [][]bool) (Mask, error) {
	n := len(rows)
	if n == 0 || n%2 == 0 {
		return Mask{}, ErrMaskShape
	}
	for _, r := range rows {
		if len(r) != n {
			return Mask{}, ErrMaskShape
		}
	}
	r := n / 2
	m := Mask{Radius: r}
	for y, row := range rows {
		for x, set := range row {
			if set {
				m.Offsets = append(m.Offsets, [2]int{x - r, y - r})
			}
		}
	}
	return m, nil
}

// Disk returns the circular mask of the given radius: every offset with
// dx² + dy² <= radius². Radius 1 is the centre plus its 4-neighbourhood.
// Radius <= 0 returns the identity mask.
func Disk(radius int) Mask {
	return defaultMaskCache.get(maskKey{disk: true, radius: max(radius, 0)})
}

// Square returns the (2*radius+1)² square mask; radius 1 is the centre
// plus its 8-neighbourhood. Radius <= 0 returns the identity mask.
func Square(radius int) Mask {
	return defaultMaskCache.get(maskKey{disk: false, radius: max(radius, 0)})
}

func buildMask(k maskKey) Mask {
	r := k.radius
	m := Mask{Radius: r}
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if k.disk && dx*dx+dy*dy > r*r {
				continue
			}
			m.Offsets = append(m.Offsets, [2]int{dx, dy})
		}
	}
	return m
}

type maskKey struct {
	disk   bool
	radius int
}

// maskCache memoizes generated masks; Dynspread asks for the same few
// radii on every call.
type maskCache struct {
	mu    sync.RWMutex
	cache map[maskKey]Mask
}

var defaultMaskCache = &maskCache{cache: make(map[maskKey]Mask)}

func (c *maskCache) get(k maskKey) Mask {
	c.mu.RLock()
	m, ok := c.cache[k]
	c.mu.RUnlock()
	if ok {
		return m
	}

	m = buildMask(k)
	c.mu.Lock()
	c.cache[k] = m
	c.mu.Unlock()
	return m
}
