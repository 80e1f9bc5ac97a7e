// Package assets supplies sprite dimensions and collision masks to the
// simulation. Sprites are either generated procedurally from configured
// dimensions or decoded from a directory of PNG files; the simulation only
// ever sees sizes and masks through the read-only Provider interface.
package assets

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/core"
)

// FrameCount is the number of bird animation frames.
const FrameCount = 3

// Provider is the read-only asset source injected into a world.
// Implementations must be safe for concurrent use.
type Provider interface {
	BirdSize() image.Point
	PipeSize() image.Point
	BaseSize() image.Point

	// BirdMask returns the occupancy mask of frame rotated by tilt degrees
	// (counter-clockwise). Its origin is the bird's position.
	BirdMask(frame int, tilt float64) *core.Mask

	// PipeMask returns the mask of the lower half, or the vertically
	// flipped upper half.
	PipeMask(upper bool) *core.Mask
}

type maskKey struct {
	frame int
	tilt  int
}

// Sprites is the Provider backed by decoded or generated images.
type Sprites struct {
	bird  [FrameCount]image.Image
	base  image.Point
	lower *core.Mask
	upper *core.Mask

	mu    sync.RWMutex
	masks map[maskKey]*core.Mask
}

var _ Provider = (*Sprites)(nil)

// New returns sprites loaded from cfg.SpriteDir, or procedural sprites when
// no directory is configured.
func New(cfg config.AssetsConfig) (*Sprites, error) {
	if cfg.SpriteDir != "" {
		return LoadDir(cfg.SpriteDir, cfg)
	}
	return Procedural(cfg), nil
}

func newSprites(bird [FrameCount]image.Image, pipe image.Image, base image.Point) (*Sprites, error) {
	size := bird[0].Bounds().Size()
	for i, img := range bird {
		if img.Bounds().Size() != size {
			return nil, fmt.Errorf("assets: bird frame %d is %v, expected %v", i, img.Bounds().Size(), size)
		}
	}
	if base.X <= 0 || base.Y <= 0 {
		return nil, fmt.Errorf("assets: base size must be positive, got %v", base)
	}

	lower := MaskFromImage(pipe)
	return &Sprites{
		bird:  bird,
		base:  base,
		lower: lower,
		upper: flipVertical(lower),
		masks: make(map[maskKey]*core.Mask),
	}, nil
}

// BirdSize returns the unrotated bird dimensions.
func (s *Sprites) BirdSize() image.Point { return s.bird[0].Bounds().Size() }

// PipeSize returns the dimensions of one pipe half.
func (s *Sprites) PipeSize() image.Point { return image.Pt(s.lower.Width(), s.lower.Height()) }

// BaseSize returns the dimensions of one ground strip.
func (s *Sprites) BaseSize() image.Point { return s.base }

// PipeMask returns the lower or upper pipe mask.
func (s *Sprites) PipeMask(upper bool) *core.Mask {
	if upper {
		return s.upper
	}
	return s.lower
}

// BirdMask returns the cached mask for frame at tilt, rotating on first use.
func (s *Sprites) BirdMask(frame int, tilt float64) *core.Mask {
	frame = ((frame % FrameCount) + FrameCount) % FrameCount
	key := maskKey{frame: frame, tilt: int(math.Round(tilt))}

	s.mu.RLock()
	m, ok := s.masks[key]
	s.mu.RUnlock()
	if ok {
		return m
	}

	m = MaskFromImage(Rotate(s.bird[frame], float64(key.tilt)))

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.masks[key]; ok {
		return cached
	}
	s.masks[key] = m
	return m
}

// Cached reports how many rotated masks are held.
func (s *Sprites) Cached() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.masks)
}

func flipVertical(m *core.Mask) *core.Mask {
	out := core.NewMask(m.Width(), m.Height())
	for y := 0; y < m.Height(); y++ {
		for x := 0; x < m.Width(); x++ {
			if m.Get(x, y) {
				out.Set(x, m.Height()-1-y, true)
			}
		}
	}
	return out
}
