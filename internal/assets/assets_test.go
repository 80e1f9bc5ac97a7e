package assets

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/vovakirdan/flappy-neat/internal/config"
)

func testAssets() config.AssetsConfig {
	return config.DefaultFlappyConfig().Assets
}

func TestProceduralSizes(t *testing.T) {
	s := Procedural(testAssets())

	if got := s.BirdSize(); got != image.Pt(34, 24) {
		t.Errorf("BirdSize() = %v, expected (34,24)", got)
	}
	if got := s.PipeSize(); got != image.Pt(52, 320) {
		t.Errorf("PipeSize() = %v, expected (52,320)", got)
	}
	if got := s.BaseSize(); got != image.Pt(336, 112) {
		t.Errorf("BaseSize() = %v, expected (336,112)", got)
	}
}

func TestProceduralPipeMasksAreSolid(t *testing.T) {
	s := Procedural(testAssets())
	for _, upper := range []bool{false, true} {
		if got := s.PipeMask(upper).Count(); got != 52*320 {
			t.Errorf("PipeMask(%v).Count() = %d, expected %d", upper, got, 52*320)
		}
	}
}

func TestBirdFramesShareSilhouette(t *testing.T) {
	s := Procedural(testAssets())
	want := s.BirdMask(0, 0).Count()
	if want == 0 {
		t.Fatal("bird mask should not be empty")
	}
	for frame := 1; frame < FrameCount; frame++ {
		if got := s.BirdMask(frame, 0).Count(); got != want {
			t.Errorf("frame %d count = %d, expected %d", frame, got, want)
		}
	}
	// Ellipse leaves the corners empty
	m := s.BirdMask(0, 0)
	if m.Get(0, 0) || !m.Get(17, 12) {
		t.Error("bird mask should be an ellipse")
	}
}

func TestBirdMaskRotationExpandsBounds(t *testing.T) {
	s := Procedural(testAssets())

	tests := []struct {
		tilt float64
		w, h int
	}{
		{0, 34, 24},
		{-90, 24, 34},
		{90, 24, 34},
		{20, 41, 35}, // ceil(34cos20 + 24sin20), ceil(34sin20 + 24cos20)
	}

	for _, tc := range tests {
		t.Run(fmt.Sprint(tc.tilt), func(t *testing.T) {
			m := s.BirdMask(0, tc.tilt)
			if m.Width() != tc.w || m.Height() != tc.h {
				t.Errorf("BirdMask(0, %v) = %dx%d, expected %dx%d", tc.tilt, m.Width(), m.Height(), tc.w, tc.h)
			}
			if m.Count() == 0 {
				t.Error("rotated mask should not be empty")
			}
		})
	}
}

func TestBirdMaskCache(t *testing.T) {
	s := Procedural(testAssets())

	a := s.BirdMask(1, -30)
	b := s.BirdMask(4, -30.2) // frame wraps, tilt rounds
	if a != b {
		t.Error("expected the cached mask to be reused")
	}
	if s.Cached() != 1 {
		t.Errorf("Cached() = %d, expected 1", s.Cached())
	}
}

func TestBirdMaskConcurrent(t *testing.T) {
	s := Procedural(testAssets())

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for tilt := -90; tilt <= 30; tilt += 10 {
				s.BirdMask(g, float64(tilt))
			}
		}(g)
	}
	wg.Wait()

	if s.Cached() != FrameCount*13 {
		t.Errorf("Cached() = %d, expected %d", s.Cached(), FrameCount*13)
	}
}

func TestMaskFromImageThreshold(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{A: 127})
	img.SetNRGBA(2, 0, color.NRGBA{A: 128})

	m := MaskFromImage(img)
	if !m.Get(0, 0) || m.Get(1, 0) || !m.Get(2, 0) {
		t.Errorf("alpha threshold: got %v %v %v, expected true false true", m.Get(0, 0), m.Get(1, 0), m.Get(2, 0))
	}
}

func TestRotateQuarterTurn(t *testing.T) {
	// A single solid pixel in the top-left corner of a 4x2 image ends up in
	// the bottom-left corner after a counter-clockwise quarter turn.
	img := image.NewNRGBA(image.Rect(0, 0, 4, 2))
	img.SetNRGBA(0, 0, color.NRGBA{A: 255})

	out := Rotate(img, 90)
	if out.Bounds().Dx() != 2 || out.Bounds().Dy() != 4 {
		t.Fatalf("Rotate size = %v, expected 2x4", out.Bounds().Size())
	}
	if out.NRGBAAt(0, 3).A != 255 {
		t.Error("expected the corner pixel at (0, 3)")
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 10, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	for i := 0; i < FrameCount; i++ {
		writePNG(t, filepath.Join(dir, fmt.Sprintf(BirdFile, i)), 10, 8)
	}
	writePNG(t, filepath.Join(dir, PipeFile), 12, 40)

	cfg := testAssets()
	cfg.SpriteDir = dir
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if s.BirdSize() != image.Pt(10, 8) {
		t.Errorf("BirdSize() = %v, expected (10,8)", s.BirdSize())
	}
	if s.PipeSize() != image.Pt(12, 40) {
		t.Errorf("PipeSize() = %v, expected (12,40)", s.PipeSize())
	}
	// No base.png: configured dimensions
	if s.BaseSize() != image.Pt(336, 112) {
		t.Errorf("BaseSize() = %v, expected (336,112)", s.BaseSize())
	}
}

func TestLoadDirMissingFrame(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, fmt.Sprintf(BirdFile, 0)), 10, 8)

	if _, err := LoadDir(dir, testAssets()); err == nil {
		t.Error("expected error for missing bird frames")
	}
}

func TestLoadDirMismatchedFrames(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, fmt.Sprintf(BirdFile, 0)), 10, 8)
	writePNG(t, filepath.Join(dir, fmt.Sprintf(BirdFile, 1)), 10, 8)
	writePNG(t, filepath.Join(dir, fmt.Sprintf(BirdFile, 2)), 11, 8)
	writePNG(t, filepath.Join(dir, PipeFile), 12, 40)

	if _, err := LoadDir(dir, testAssets()); err == nil {
		t.Error("expected error for mismatched frame sizes")
	}
}
