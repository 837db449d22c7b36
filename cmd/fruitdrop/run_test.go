package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/fruitdrop/internal/telemetry"
)

func resetRunFlags(t *testing.T) {
	t.Helper()
	resetFlags(t)
	flagPolicy, flagEpisodes, flagMaxSteps = "greedy", 2, 300
	flagCSV, flagReplayDir, flagNoStore = "", "", true
	t.Cleanup(func() {
		flagPolicy, flagEpisodes, flagMaxSteps = "greedy", 10, 0
		flagCSV, flagReplayDir, flagNoStore = "", "", false
	})
}

func TestRunEpisodesWritesCSV(t *testing.T) {
	resetRunFlags(t)
	flagSeed = 3
	flagCSV = filepath.Join(t.TempDir(), "out", "run.csv")

	cfg, err := loadConfig()
	if err != nil {
		t.Fatalf("loadConfig failed: %v", err)
	}
	if err := runEpisodes(cfg, newLoggerTo(io.Discard, "run")); err != nil {
		t.Fatalf("runEpisodes failed: %v", err)
	}

	records, err := telemetry.ReadCSV(flagCSV)
	if err != nil {
		t.Fatalf("ReadCSV failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, expected 2", len(records))
	}
	if records[0].Seed != 3 || records[1].Seed != 4 {
		t.Errorf("seeds = %d, %d, expected 3, 4", records[0].Seed, records[1].Seed)
	}
}

func TestRunEpisodesReturnsErrors(t *testing.T) {
	tests := []struct {
		name  string
		setup func(t *testing.T)
	}{
		{"negative max steps", func(t *testing.T) { flagMaxSteps = -1 }},
		{"zero episodes", func(t *testing.T) { flagEpisodes = 0 }},
		{"csv path is a directory", func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "taken")
			if err := os.Mkdir(dir, 0o755); err != nil {
				t.Fatal(err)
			}
			flagCSV = dir
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			resetRunFlags(t)
			flagSeed = 1
			tc.setup(t)

			cfg, err := loadConfig()
			if err != nil {
				t.Fatalf("loadConfig failed: %v", err)
			}
			if err := runEpisodes(cfg, newLoggerTo(io.Discard, "run")); err == nil {
				t.Error("expected an error to be returned")
			}
		})
	}
}
