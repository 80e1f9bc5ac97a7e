package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappy-neat/internal/core"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
)

// FrameMsg carries one snapshot of a running session to a WatchModel.
type FrameMsg struct {
	Snapshot flappy.Snapshot
	Status   string // Shown under the scene, e.g. the generation number
}

// DoneMsg reports that the watched work has finished.
type DoneMsg struct {
	Err error
}

var statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

// WatchModel shows a training or test session while it runs elsewhere.
type WatchModel struct {
	title  string
	style  flappy.Style
	screen *core.Screen
	cancel context.CancelFunc

	snap   flappy.Snapshot
	status string
	frames int
	done   bool
	err    error
}

// NewWatchModel creates a watch view. cancel is called when the viewer quits.
func NewWatchModel(title string, style flappy.Style, w, h int, cancel context.CancelFunc) WatchModel {
	return WatchModel{
		title:  title,
		style:  style,
		screen: core.NewScreen(w, max(h-1, 1)),
		cancel: cancel,
	}
}

// Init implements tea.Model.
func (m WatchModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		case "enter", " ":
			if m.done {
				return m, tea.Quit
			}
		}

	case tea.WindowSizeMsg:
		m.screen.Resize(msg.Width, max(msg.Height-1, 1))

	case FrameMsg:
		m.snap = msg.Snapshot
		m.status = msg.Status
		m.frames++

	case DoneMsg:
		m.done = true
		m.err = msg.Err
	}
	return m, nil
}

// View implements tea.Model.
func (m WatchModel) View() string {
	if m.frames == 0 {
		m.screen.Clear()
		m.screen.DrawTextCentered(m.screen.Height()/2, m.title+": starting...")
	} else {
		flappy.RenderSnapshot(m.screen, m.snap, m.style)
		m.screen.DrawTextColor(m.screen.Width()-len(m.title)-2, 0, m.title, core.ColorCyan)
		if m.done {
			sub := "Press ENTER to exit"
			if m.err != nil {
				sub = m.err.Error()
			}
			flappy.DrawMessage(m.screen, "FINISHED", sub)
		}
	}

	help := "q: stop"
	if m.done {
		help = "enter: exit"
	}
	return RenderScreen(m.screen) + "\n" + statusStyle.Render(fmt.Sprintf(" %s  |  %s", m.status, help))
}

// Done reports whether the watched work has finished.
func (m WatchModel) Done() bool {
	return m.done
}

// Watch runs work while showing its frames. work receives a context that is
// cancelled when the viewer quits and a send function for frames. The
// returned error is work's.
func Watch(ctx context.Context, title string, style flappy.Style, w, h int,
	work func(ctx context.Context, send func(FrameMsg)) error,
) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(NewWatchModel(title, style, w, h, cancel), tea.WithAltScreen(), tea.WithContext(ctx))

	errc := make(chan error, 1)
	go func() {
		err := work(ctx, func(f FrameMsg) { p.Send(f) })
		errc <- err
		p.Send(DoneMsg{Err: err})
	}()

	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		cancel()
		<-errc
		return err
	}
	cancel()
	return <-errc
}
