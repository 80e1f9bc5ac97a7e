package flappy

import (
	"fmt"
	"math"

	"github.com/vovakirdan/flappy-neat/internal/core"
)

// Visual characters for rendering
const (
	BirdChar      = '●'
	BirdDiveChar  = '▼'
	BirdRiseChar  = '▲'
	PipeChar      = '█'
	PipeCapTop    = '▀'
	PipeCapBottom = '▄'
	GroundChar    = '▒'
	GroundEdge    = '═'
)

// Style holds the colours of the scene.
type Style struct {
	Bird   core.Color
	Leader core.Color // Colour of the lead agent when several are alive
	Pipe   core.Color
	Ground core.Color
	Text   core.Color
}

// DefaultStyle returns a style using the named bird and pipe colours, falling
// back to yellow and green for unknown names.
func DefaultStyle(bird, pipe string) Style {
	s := Style{
		Bird:   core.ColorYellow,
		Leader: core.ColorBrightRed,
		Pipe:   core.ColorGreen,
		Ground: core.ColorOrange,
		Text:   core.ColorWhite,
	}
	if c, ok := core.ParseColor(bird); ok {
		s.Bird = c
	}
	if c, ok := core.ParseColor(pipe); ok {
		s.Pipe = c
	}
	return s
}

// viewport maps world pixels onto screen cells, keeping the whole world visible.
type viewport struct {
	sx, sy float64 // pixels per cell
}

func newViewport(snap Snapshot, dst *core.Screen) viewport {
	w, h := max(dst.Width(), 1), max(dst.Height()-1, 1) // Last row is the HUD
	return viewport{
		sx: float64(snap.Width) / float64(w),
		sy: float64(snap.Height) / float64(h),
	}
}

func (v viewport) col(x float64) int { return int(math.Floor(x / v.sx)) }
func (v viewport) row(y float64) int { return int(math.Floor(y/v.sy)) + 1 }

// RenderSnapshot draws a world snapshot scaled to dst. Row 0 is the HUD.
func RenderSnapshot(dst *core.Screen, snap Snapshot, style Style) {
	dst.Clear()
	v := newViewport(snap, dst)
	groundRow := v.row(float64(snap.GroundY))

	for _, p := range snap.Pipes {
		drawPipe(dst, v, p, groundRow, style.Pipe)
	}

	for y := groundRow; y < dst.Height(); y++ {
		r := GroundChar
		if y == groundRow {
			r = GroundEdge
		}
		dst.DrawHLine(0, y, dst.Width(), r, style.Ground)
	}

	// Draw back to front so the lead agent ends on top
	for i := len(snap.Agents) - 1; i >= 0; i-- {
		a := snap.Agents[i]
		c := style.Bird
		if i == 0 && len(snap.Agents) > 1 {
			c = style.Leader
		}
		ch := BirdChar
		switch {
		case a.Tilt <= -45:
			ch = BirdDiveChar
		case a.Velocity > 0:
			ch = BirdRiseChar
		}
		x0, x1 := v.col(a.X), v.col(a.X+float64(a.Rect.W)-1)
		y0 := v.row(a.Y + float64(a.Rect.H)/2)
		for x := x0; x <= x1; x++ {
			dst.SetCell(x, y0, ch, c)
		}
	}

	hud := fmt.Sprintf(" Score: %d ", snap.Score)
	if snap.Mode != ModePlay {
		hud += fmt.Sprintf(" Alive: %d  Tick: %d ", snap.Alive, snap.Tick)
	}
	dst.DrawTextColor(1, 0, hud, style.Text)
}

func drawPipe(dst *core.Screen, v viewport, p PipeView, groundRow int, c core.Color) {
	x0 := v.col(p.X)
	x1 := v.col(p.X + float64(p.Width) - 1)
	if x1 < 0 || x0 >= dst.Width() {
		return
	}
	upperEnd := v.row(float64(p.UpperY + p.Height))
	lowerStart := v.row(float64(p.LowerY))

	for x := x0; x <= x1; x++ {
		for y := 1; y < upperEnd && y < groundRow; y++ {
			dst.SetCell(x, y, PipeChar, c)
		}
		if upperEnd-1 >= 1 {
			dst.SetCell(x, upperEnd-1, PipeCapTop, c)
		}
		for y := lowerStart; y < groundRow; y++ {
			dst.SetCell(x, y, PipeChar, c)
		}
		if lowerStart < groundRow {
			dst.SetCell(x, lowerStart, PipeCapBottom, c)
		}
	}
}

// DrawMessage draws a boxed two-line message in the centre of dst.
func DrawMessage(dst *core.Screen, title, subtitle string) {
	boxW := max(len([]rune(title)), len([]rune(subtitle))) + 4
	boxH := 5
	boxX := (dst.Width() - boxW) / 2
	boxY := (dst.Height() - boxH) / 2
	r := core.NewRect(boxX, boxY, boxW, boxH)

	dst.DrawRect(r, ' ', core.ColorDefault)
	dst.DrawBox(r)
	dst.DrawText(boxX+(boxW-len([]rune(title)))/2, boxY+1, title)
	dst.DrawText(boxX+(boxW-len([]rune(subtitle)))/2, boxY+3, subtitle)
}
