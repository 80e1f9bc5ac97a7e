package telemetry

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/vovakirdan/flappy-neat/internal/config"
	"github.com/vovakirdan/flappy-neat/internal/evolve"
	"github.com/vovakirdan/flappy-neat/internal/games/flappy"
)

func TestDisabledOutput(t *testing.T) {
	om, err := NewOutputManager("", "run")
	if err != nil {
		t.Fatalf("NewOutputManager() error = %v", err)
	}
	if om != nil {
		t.Fatal("expected nil manager for empty dir")
	}

	// Every method tolerates the nil manager
	if err := om.ReportGeneration(evolve.GenerationStats{}, nil); err != nil {
		t.Errorf("ReportGeneration() error = %v", err)
	}
	if err := om.WriteRankings([]flappy.Ranking{{}}); err != nil {
		t.Errorf("WriteRankings() error = %v", err)
	}
	if err := om.WriteConfig(config.DefaultFlappyConfig()); err != nil {
		t.Errorf("WriteConfig() error = %v", err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should report no dir and close cleanly")
	}
}

func TestGenerationsCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	om, err := NewOutputManager(dir, "run-1")
	if err != nil {
		t.Fatalf("NewOutputManager() error = %v", err)
	}

	for gen := 0; gen < 3; gen++ {
		s := evolve.GenerationStats{
			Generation:  gen,
			Population:  50,
			Score:       gen * 2,
			Reason:      flappy.EndExtinct,
			BestFitness: float64(gen) + 0.5,
			Crashes:     map[flappy.CrashKind]int{flappy.CrashPipe: 40, flappy.CrashBase: 10},
			Elapsed:     1500 * time.Millisecond,
		}
		if err := om.ReportGeneration(s, nil); err != nil {
			t.Fatalf("ReportGeneration() error = %v", err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	f, err := os.Open(filepath.Join(dir, GenerationsFile))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer f.Close()

	var rows []GenerationRecord
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatalf("UnmarshalFile() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("len(rows) = %d, expected 3 (one header only)", len(rows))
	}
	last := rows[2]
	if last.RunID != "run-1" || last.Generation != 2 || last.Score != 4 {
		t.Errorf("last row = %+v", last)
	}
	if last.BestFitness != 2.5 || last.PipeCrashes != 40 || last.BaseCrashes != 10 {
		t.Errorf("last row = %+v", last)
	}
	if last.EndReason != "extinct" || last.ElapsedMS != 1500 {
		t.Errorf("EndReason, ElapsedMS = %q, %d", last.EndReason, last.ElapsedMS)
	}
}

func TestRankingsCSVAndConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := NewOutputManager(dir, "run-2")
	if err != nil {
		t.Fatalf("NewOutputManager() error = %v", err)
	}

	rankings := []flappy.Ranking{
		{Label: "winner-310", Score: 12, Fitness: 60.5, Ticks: 600, Crash: flappy.CrashPipe},
		{Label: "heuristic", Score: 3, Fitness: 14, Ticks: 200, Crash: flappy.CrashSky},
	}
	if err := om.WriteRankings(rankings); err != nil {
		t.Fatalf("WriteRankings() error = %v", err)
	}
	if err := om.WriteConfig(config.DefaultFlappyConfig()); err != nil {
		t.Fatalf("WriteConfig() error = %v", err)
	}
	om.Close()

	data, err := os.ReadFile(filepath.Join(dir, RankingsFile))
	if err != nil {
		t.Fatalf("read rankings: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 3 {
		t.Fatalf("rankings.csv has %d lines, expected 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "rank,label,score") {
		t.Errorf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "1,winner-310,12") || !strings.HasSuffix(lines[2], "sky") {
		t.Errorf("rows = %q", lines[1:])
	}

	cfgData, err := os.ReadFile(filepath.Join(dir, ConfigFile))
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	cfg, err := config.Parse(cfgData)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if cfg.Pipe.Gap != 135 {
		t.Errorf("round-tripped gap = %d, expected 135", cfg.Pipe.Gap)
	}
}
