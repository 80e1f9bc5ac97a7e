package assets

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/math/f64"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/core"
)

// AlphaThreshold is the minimum alpha (0-255) for a pixel to count as solid.
const AlphaThreshold = 127

// MaskFromImage builds an occupancy mask from the image's alpha channel.
func MaskFromImage(img image.Image) *core.Mask {
	b := img.Bounds()
	m := core.NewMask(b.Dx(), b.Dy())
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := img.At(x, y).RGBA()
			if a>>8 > AlphaThreshold {
				m.Set(x-b.Min.X, y-b.Min.Y, true)
			}
		}
	}
	return m
}

// Rotate returns img rotated counter-clockwise by deg degrees. The result is
// expanded to hold the whole rotated sprite, with transparent corners.
func Rotate(img image.Image, deg float64) *image.NRGBA {
	src := img.Bounds()
	if math.Mod(deg, 360) == 0 {
		dst := image.NewNRGBA(image.Rect(0, 0, src.Dx(), src.Dy()))
		draw.Draw(dst, dst.Bounds(), img, src.Min, draw.Src)
		return dst
	}

	rad := deg * math.Pi / 180
	sin, cos := math.Sincos(rad)
	w, h := float64(src.Dx()), float64(src.Dy())
	dw := int(math.Ceil(math.Abs(w*cos) + math.Abs(h*sin) - 1e-9))
	dh := int(math.Ceil(math.Abs(w*sin) + math.Abs(h*cos) - 1e-9))
	dst := image.NewNRGBA(image.Rect(0, 0, dw, dh))

	// Screen y grows downward, so a counter-clockwise turn maps
	// (x, y) -> (x cos + y sin, -x sin + y cos) around the centres.
	scx := float64(src.Min.X) + w/2
	scy := float64(src.Min.Y) + h/2
	dcx, dcy := float64(dw)/2, float64(dh)/2
	m := f64.Aff3{
		cos, sin, dcx - (cos*scx + sin*scy),
		-sin, cos, dcy - (-sin*scx + cos*scy),
	}
	draw.NearestNeighbor.Transform(dst, m, img, src, draw.Src, nil)
	return dst
}

// Procedural returns sprites generated from the configured dimensions: an
// elliptical bird whose wing moves between frames, a solid pipe and a solid
// ground strip.
func Procedural(cfg config.AssetsConfig) *Sprites {
	bw, bh := cfg.BirdWidth, cfg.BirdHeight
	var bird [FrameCount]image.Image
	for i := range bird {
		bird[i] = birdFrame(bw, bh, i)
	}

	pw, ph := cfg.PipeWidth, cfg.PipeHeight
	pipe := image.NewNRGBA(image.Rect(0, 0, pw, ph))
	draw.Draw(pipe, pipe.Bounds(), image.NewUniform(color.NRGBA{R: 83, G: 168, B: 46, A: 255}), image.Point{}, draw.Src)

	s, err := newSprites(bird, pipe, image.Pt(cfg.BaseWidth, cfg.BaseHeight))
	if err != nil {
		// Dimensions come from a validated config
		panic(err)
	}
	return s
}

var (
	birdBody = color.NRGBA{R: 250, G: 204, B: 21, A: 255}
	birdWing = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
)

// birdFrame draws the body ellipse and a wing that sits high, level or low
// depending on frame. The wing stays inside the body so every frame shares
// one silhouette.
func birdFrame(w, h, frame int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	cx, cy := float64(w)/2, float64(h)/2
	rx, ry := float64(w)/2, float64(h)/2
	wingY := []float64{0.35, 0.5, 0.65}[frame%FrameCount] * float64(h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			dx := (float64(x) + 0.5 - cx) / rx
			dy := (float64(y) + 0.5 - cy) / ry
			if dx*dx+dy*dy > 1 {
				continue
			}
			c := birdBody
			if float64(x) < cx && math.Abs(float64(y)+0.5-wingY) < float64(h)/10 && dx*dx+dy*dy < 0.6 {
				c = birdWing
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}
