package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
	"github.com/vovakirdan/flappy-neat/internal/storage"
)

const maxScores = 100 // Max rows loaded per board

// Board is one tab of the scoreboard.
type Board struct {
	Title   string
	Columns []table.Column
	Load    func(store *storage.Store) ([]table.Row, error)
}

// DefaultBoards returns high scores for each preset, then models and runs.
func DefaultBoards() []Board {
	var boards []Board
	for _, p := range []config.Preset{config.PresetEasy, config.PresetNormal, config.PresetHard} {
		scoreKey := flappy.ScoreKey(p)
		boards = append(boards, Board{
			Title:   strings.ToUpper(string(p[:1])) + string(p[1:]),
			Columns: scoreColumns,
			Load: func(store *storage.Store) ([]table.Row, error) {
				scores, err := store.TopScores(scoreKey, maxScores)
				return scoreRows(scores), err
			},
		})
	}
	boards = append(boards,
		Board{
			Title:   "Models",
			Columns: modelColumns,
			Load: func(store *storage.Store) ([]table.Row, error) {
				models, err := store.ListModels()
				return modelRows(models), err
			},
		},
		Board{
			Title:   "Runs",
			Columns: runColumns,
			Load: func(store *storage.Store) ([]table.Row, error) {
				runs, err := store.RecentRuns(maxScores)
				return runRows(runs), err
			},
		},
	)
	return boards
}

// ScoreboardKeyMap defines the key bindings for the scoreboard.
type ScoreboardKeyMap struct {
	Up   key.Binding
	Down key.Binding
	Next key.Binding
	Prev key.Binding
	Quit key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k ScoreboardKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Next, k.Prev, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k ScoreboardKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Up, k.Down}, {k.Next, k.Prev, k.Quit}}
}

// DefaultScoreboardKeyMap returns default key bindings.
func DefaultScoreboardKeyMap() ScoreboardKeyMap {
	return ScoreboardKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("up/k", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("down/j", "scroll down"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "right", "l"),
			key.WithHelp("tab", "next board"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "left", "h"),
			key.WithHelp("S-tab", "prev board"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ScoreboardModel browses the boards of a store.
type ScoreboardModel struct {
	boards []Board
	cursor int
	store  *storage.Store
	table  table.Model
	help   help.Model
	keys   ScoreboardKeyMap
	width  int
	height int
	err    error
	empty  bool
}

// NewScoreboardModel creates a scoreboard opened on the first board.
func NewScoreboardModel(store *storage.Store, boards []Board, width, height int) ScoreboardModel {
	m := ScoreboardModel{
		boards: boards,
		store:  store,
		keys:   DefaultScoreboardKeyMap(),
		help:   help.New(),
		width:  width,
		height: height,
	}
	m.load()
	return m
}

// load rebuilds the table for the current board.
func (m *ScoreboardModel) load() {
	m.err = nil
	m.empty = true
	if len(m.boards) == 0 {
		return
	}
	b := m.boards[m.cursor]
	m.table = table.New(
		table.WithColumns(b.Columns),
		table.WithFocused(true),
		table.WithHeight(max(m.height-8, 3)),
	)
	m.table.SetStyles(tableStyles(true))

	if m.store == nil {
		return
	}
	rows, err := b.Load(m.store)
	if err != nil {
		m.err = err
		return
	}
	m.table.SetRows(rows)
	m.table.GotoTop()
	m.empty = len(rows) == 0
}

// Init initializes the scoreboard model.
func (m ScoreboardModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the scoreboard.
func (m ScoreboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			if len(m.boards) > 0 {
				m.cursor = (m.cursor + 1) % len(m.boards)
				m.load()
			}
			return m, nil
		case key.Matches(msg, m.keys.Prev):
			if len(m.boards) > 0 {
				m.cursor = (m.cursor + len(m.boards) - 1) % len(m.boards)
				m.load()
			}
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.load()
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// View renders the scoreboard.
func (m ScoreboardModel) View() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	tabStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Padding(0, 1)
	activeTabStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Padding(0, 1)

	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, titleStyle.Render("FLAPPY BIRD - RECORDS")))
	b.WriteString("\n\n")

	tabs := make([]string, len(m.boards))
	for i, board := range m.boards {
		if i == m.cursor {
			tabs[i] = activeTabStyle.Render(board.Title)
		} else {
			tabs[i] = tabStyle.Render(board.Title)
		}
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, lipgloss.JoinHorizontal(lipgloss.Top, tabs...)))
	b.WriteString("\n\n")

	var content string
	switch {
	case m.err != nil:
		content = fmt.Sprintf("Cannot load board: %v", m.err)
	case m.empty:
		content = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Italic(true).
			Padding(2, 4).
			Render("Nothing recorded yet.")
	default:
		content = m.table.View()
	}
	b.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Center, tableBorder.Render(content)))

	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Render(m.help.View(m.keys)))
	return b.String()
}

// Board returns the title of the board on screen.
func (m ScoreboardModel) Board() string {
	if len(m.boards) == 0 {
		return ""
	}
	return m.boards[m.cursor].Title
}

// RunScoreboard runs the scoreboard screen until the user quits.
func RunScoreboard(store *storage.Store, width, height int) error {
	p := tea.NewProgram(NewScoreboardModel(store, DefaultBoards(), width, height), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
