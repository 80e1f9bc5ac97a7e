package tui

import (
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
	"github.com/vovakirdan/flappy-neat/internal/storage"
)

var tableBorder = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(lipgloss.Color("240")).
	Padding(0, 1)

func tableStyles(focused bool) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	if focused {
		s.Selected = s.Selected.
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57")).
			Bold(false)
	} else {
		s.Selected = s.Cell
	}
	return s
}

// renderStatic lays rows out as a bordered table for plain output.
func renderStatic(columns []table.Column, rows []table.Row) string {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+2), // Header and its border
		table.WithFocused(false),
	)
	t.SetStyles(tableStyles(false))
	return tableBorder.Render(t.View())
}

var rankingColumns = []table.Column{
	{Title: "Rank", Width: 5},
	{Title: "Agent", Width: 24},
	{Title: "Score", Width: 7},
	{Title: "Fitness", Width: 10},
	{Title: "Ticks", Width: 8},
	{Title: "Crash", Width: 6},
}

func rankingRows(rankings []flappy.Ranking) []table.Row {
	rows := make([]table.Row, len(rankings))
	for i, r := range rankings {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			r.Label,
			strconv.Itoa(r.Score),
			fmt.Sprintf("%.1f", r.Fitness),
			humanize.Comma(int64(r.Ticks)),
			r.Crash.String(),
		}
	}
	return rows
}

// RankingsTable renders the outcome of a test session, best first.
func RankingsTable(rankings []flappy.Ranking) string {
	return renderStatic(rankingColumns, rankingRows(rankings))
}

var modelColumns = []table.Column{
	{Title: "Name", Width: 20},
	{Title: "Fitness", Width: 10},
	{Title: "Score", Width: 7},
	{Title: "Gen", Width: 5},
	{Title: "Hidden", Width: 6},
	{Title: "Saved", Width: 16},
}

func modelRows(models []storage.Model) []table.Row {
	rows := make([]table.Row, len(models))
	for i, m := range models {
		rows[i] = table.Row{
			m.Name,
			fmt.Sprintf("%.1f", m.Fitness),
			strconv.Itoa(m.Score),
			strconv.Itoa(m.Generation),
			strconv.Itoa(m.Hidden),
			when(m.CreatedAt),
		}
	}
	return rows
}

// ModelsTable renders saved models.
func ModelsTable(models []storage.Model) string {
	return renderStatic(modelColumns, modelRows(models))
}

var runColumns = []table.Column{
	{Title: "Run", Width: 8},
	{Title: "Preset", Width: 7},
	{Title: "Gens", Width: 5},
	{Title: "Best", Width: 10},
	{Title: "Stopped", Width: 12},
	{Title: "Started", Width: 16},
}

func runRows(runs []storage.Run) []table.Row {
	rows := make([]table.Row, len(runs))
	for i, r := range runs {
		id := r.ID
		if len(id) > 8 {
			id = id[:8]
		}
		reason := r.StopReason
		if r.FinishedAt.IsZero() {
			reason = "-"
		}
		rows[i] = table.Row{
			id,
			r.Preset,
			strconv.Itoa(r.Generations),
			fmt.Sprintf("%.1f", r.BestFitness),
			reason,
			when(r.StartedAt),
		}
	}
	return rows
}

// RunsTable renders training runs.
func RunsTable(runs []storage.Run) string {
	return renderStatic(runColumns, runRows(runs))
}

var scoreColumns = []table.Column{
	{Title: "Rank", Width: 6},
	{Title: "Score", Width: 10},
	{Title: "Date", Width: 16},
}

func scoreRows(scores []storage.ScoreEntry) []table.Row {
	rows := make([]table.Row, len(scores))
	for i, s := range scores {
		rows[i] = table.Row{
			fmt.Sprintf("#%d", i+1),
			humanize.Comma(int64(s.Score)),
			when(s.CreatedAt),
		}
	}
	return rows
}

// ScoresTable renders a high score list.
func ScoresTable(scores []storage.ScoreEntry) string {
	return renderStatic(scoreColumns, scoreRows(scores))
}

func when(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

var generationColumns = []table.Column{
	{Title: "Gen", Width: 5},
	{Title: "Score", Width: 7},
	{Title: "Ticks", Width: 8},
	{Title: "Best", Width: 10},
	{Title: "Mean", Width: 10},
	{Title: "Std", Width: 8},
	{Title: "Median", Width: 10},
}

// GenerationsTable renders the per-generation history of a run.
func GenerationsTable(gens []storage.GenerationRow) string {
	rows := make([]table.Row, len(gens))
	for i, g := range gens {
		rows[i] = table.Row{
			strconv.Itoa(g.Generation),
			strconv.Itoa(g.Score),
			humanize.Comma(int64(g.Ticks)),
			fmt.Sprintf("%.1f", g.BestFitness),
			fmt.Sprintf("%.1f", g.MeanFitness),
			fmt.Sprintf("%.1f", g.StdFitness),
			fmt.Sprintf("%.1f", g.MedianFitness),
		}
	}
	return renderStatic(generationColumns, rows)
}
