package core

import "testing"

func TestMaskSetGet(t *testing.T) {
	m := NewMask(70, 3)

	m.Set(0, 0, true)
	m.Set(63, 1, true)
	m.Set(64, 1, true)
	m.Set(69, 2, true)
	m.Set(70, 2, true) // out of bounds, ignored

	for _, p := range [][2]int{{0, 0}, {63, 1}, {64, 1}, {69, 2}} {
		if !m.Get(p[0], p[1]) {
			t.Errorf("Get(%d, %d) = false, expected true", p[0], p[1])
		}
	}
	if m.Count() != 4 {
		t.Errorf("Count() = %d, expected 4", m.Count())
	}

	m.Set(63, 1, false)
	if m.Get(63, 1) {
		t.Error("Set(false) should clear the pixel")
	}
}

func TestFullMaskCount(t *testing.T) {
	m := FullMask(52, 320)
	if m.Count() != 52*320 {
		t.Errorf("Count() = %d, expected %d", m.Count(), 52*320)
	}
	if m.Get(52, 0) {
		t.Error("pixels beyond the width must stay clear")
	}
}

func TestMaskOverlap(t *testing.T) {
	a := FullMask(10, 10)
	b := FullMask(5, 5)

	tests := []struct {
		name   string
		dx, dy int
		want   bool
	}{
		{"inside", 2, 2, true},
		{"corner touch inside", 9, 9, true},
		{"right edge adjacent", 10, 0, false},
		{"below adjacent", 0, 10, false},
		{"left partial", -4, 0, true},
		{"left adjacent", -5, 0, false},
		{"above partial", 0, -4, true},
		{"far away", 100, 100, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := a.Overlap(b, tc.dx, tc.dy); got != tc.want {
				t.Errorf("Overlap(dx=%d, dy=%d) = %v, expected %v", tc.dx, tc.dy, got, tc.want)
			}
		})
	}
}

func TestMaskOverlapSparse(t *testing.T) {
	// A hollow ring does not collide with a dot placed in its hole.
	ring := NewMask(5, 5)
	for i := 0; i < 5; i++ {
		ring.Set(i, 0, true)
		ring.Set(i, 4, true)
		ring.Set(0, i, true)
		ring.Set(4, i, true)
	}
	dot := FullMask(1, 1)

	if ring.Overlap(dot, 2, 2) {
		t.Error("dot in the hole should not overlap")
	}
	if !ring.Overlap(dot, 4, 2) {
		t.Error("dot on the ring should overlap")
	}
}

func TestMaskOverlapPointAcrossWords(t *testing.T) {
	wide := NewMask(130, 1)
	wide.Set(100, 0, true)
	probe := FullMask(40, 1)

	x, y, ok := wide.OverlapPoint(probe, 70, 0)
	if !ok {
		t.Fatal("expected overlap across word boundary")
	}
	if x != 100 || y != 0 {
		t.Errorf("OverlapPoint = (%d, %d), expected (100, 0)", x, y)
	}

	if wide.Overlap(probe, 101, 0) {
		t.Error("probe starting after the set pixel should not overlap")
	}
	if wide.Overlap(nil, 0, 0) {
		t.Error("nil mask never overlaps")
	}
}
