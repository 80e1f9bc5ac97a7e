package assets

import (
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"

	"github.com/vovakirdan/flappy-neat/internal/config"
)

// Sprite file names looked up inside a sprite directory.
const (
	BirdFile = "bird-%d.png" // One file per animation frame
	PipeFile = "pipe.png"    // Lower half; the upper half is its vertical flip
	BaseFile = "base.png"
)

// LoadDir decodes PNG sprites from dir. A missing base.png falls back to the
// configured base dimensions, since the ground only collides by rectangle.
func LoadDir(dir string, cfg config.AssetsConfig) (*Sprites, error) {
	var bird [FrameCount]image.Image
	for i := range bird {
		img, err := decodePNG(filepath.Join(dir, fmt.Sprintf(BirdFile, i)))
		if err != nil {
			return nil, err
		}
		bird[i] = img
	}

	pipe, err := decodePNG(filepath.Join(dir, PipeFile))
	if err != nil {
		return nil, err
	}

	base := image.Pt(cfg.BaseWidth, cfg.BaseHeight)
	if img, err := decodePNG(filepath.Join(dir, BaseFile)); err == nil {
		base = img.Bounds().Size()
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	return newSprites(bird, pipe, base)
}

func decodePNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", path, err)
	}
	return img, nil
}
