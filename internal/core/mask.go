package core

import "math/bits"

// Mask is a pixel-occupancy bitmap used for fine collision tests.
// Each row is packed into 64-bit words, least significant bit first.
type Mask struct {
	w, h  int
	words int // words per row
	bits  []uint64
}

// NewMask allocates an empty mask of the given size.
// Negative dimensions are treated as zero.
func NewMask(w, h int) *Mask {
	w = max(w, 0)
	h = max(h, 0)
	words := (w + 63) / 64
	return &Mask{
		w:     w,
		h:     h,
		words: words,
		bits:  make([]uint64, words*h),
	}
}

// FullMask returns a mask with every pixel set.
func FullMask(w, h int) *Mask {
	m := NewMask(w, h)
	m.Fill()
	return m
}

// Width returns the mask width in pixels.
func (m *Mask) Width() int { return m.w }

// Height returns the mask height in pixels.
func (m *Mask) Height() int { return m.h }

// Set marks or clears a single pixel. Out-of-bounds writes are ignored.
func (m *Mask) Set(x, y int, on bool) {
	if x < 0 || x >= m.w || y < 0 || y >= m.h {
		return
	}
	i := y*m.words + x/64
	bit := uint64(1) << uint(x%64)
	if on {
		m.bits[i] |= bit
	} else {
		m.bits[i] &^= bit
	}
}

// Get reports whether a pixel is set. Out-of-bounds reads return false.
func (m *Mask) Get(x, y int) bool {
	if x < 0 || x >= m.w || y < 0 || y >= m.h {
		return false
	}
	return m.bits[y*m.words+x/64]&(uint64(1)<<uint(x%64)) != 0
}

// Fill sets every pixel inside the mask.
func (m *Mask) Fill() {
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			m.Set(x, y, true)
		}
	}
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, w := range m.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// Overlap reports whether any set pixel of other, placed with its origin at
// (dx, dy) relative to this mask's origin, coincides with a set pixel here.
func (m *Mask) Overlap(other *Mask, dx, dy int) bool {
	_, _, ok := m.OverlapPoint(other, dx, dy)
	return ok
}

// OverlapPoint returns the first overlapping pixel in this mask's coordinates,
// scanning rows top to bottom.
func (m *Mask) OverlapPoint(other *Mask, dx, dy int) (int, int, bool) {
	if other == nil {
		return 0, 0, false
	}
	x0 := max(0, dx)
	x1 := min(m.w, dx+other.w)
	y0 := max(0, dy)
	y1 := min(m.h, dy+other.h)
	if x0 >= x1 || y0 >= y1 {
		return 0, 0, false
	}

	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x += 64 {
			n := min(64, x1-x)
			window := ^uint64(0)
			if n < 64 {
				window = (uint64(1) << uint(n)) - 1
			}
			hit := m.span(y, x) & other.span(y-dy, x-dx) & window
			if hit != 0 {
				return x + bits.TrailingZeros64(hit), y, true
			}
		}
	}
	return 0, 0, false
}

// span returns 64 bits of row y starting at column x.
func (m *Mask) span(y, x int) uint64 {
	row := m.bits[y*m.words : (y+1)*m.words]
	idx := x / 64
	off := uint(x % 64)
	v := row[idx] >> off
	if off != 0 && idx+1 < len(row) {
		v |= row[idx+1] << (64 - off)
	}
	return v
}
