package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruitdrop/internal/config"
	"github.com/vovakirdan/fruitdrop/internal/registry"
	"github.com/vovakirdan/fruitdrop/internal/runner"
	"github.com/vovakirdan/fruitdrop/internal/storage"
	"github.com/vovakirdan/fruitdrop/internal/telemetry"
)

var (
	flagPolicy    string
	flagEpisodes  int
	flagMaxSteps  int
	flagCSV       string
	flagReplayDir string
	flagNoStore   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a policy headless",
	Long: `Play episodes with a scripted policy and no UI.

Episode i uses seed+i, so a run is reproducible from its first seed.
Each episode is logged, saved to the database under the policy name,
and optionally written to a CSV file and a replay directory. A score
summary is printed at the end. Ctrl+C stops after the current step.

Examples:
  fruitdrop run --policy greedy --episodes 100 --seed 1
  fruitdrop run --policy random --csv runs/random.csv
  fruitdrop run --policy greedy --replay-dir ./replays --max-steps 5000`,
	Args: cobra.NoArgs,
	Run:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagPolicy, "policy", "greedy", "Policy to run (see 'fruitdrop list')")
	runCmd.Flags().IntVarP(&flagEpisodes, "episodes", "n", 10, "Number of episodes")
	runCmd.Flags().IntVar(&flagMaxSteps, "max-steps", 0, "Truncate episodes after this many steps (0 = no limit)")
	runCmd.Flags().StringVar(&flagCSV, "csv", "", "Write per-episode telemetry to this CSV file")
	runCmd.Flags().StringVar(&flagReplayDir, "replay-dir", "", "Write one replay file per episode to this directory")
	runCmd.Flags().BoolVar(&flagNoStore, "no-store", false, "Do not save episodes to the database")
}

func runRun(_ *cobra.Command, _ []string) {
	logger := newLogger("run")

	if !registry.Exists(flagPolicy) {
		fmt.Fprintf(os.Stderr, "Error: unknown policy %q\n", flagPolicy)
		fmt.Fprintln(os.Stderr, "Run 'fruitdrop list' to see available policies.")
		os.Exit(1)
	}

	cfg, err := loadConfig()
	if err != nil {
		exitErr("loading config", err)
	}

	if err := runEpisodes(cfg, logger); err != nil {
		exitErr("running episodes", err)
	}
}

// runEpisodes owns the store and telemetry files so they are closed before
// the caller exits on error.
func runEpisodes(cfg config.Config, logger *log.Logger) error {
	var store *storage.Store
	if !flagNoStore {
		store = openStoreOrWarn(logger)
	}
	if store != nil {
		defer store.Close()
	}

	csv, err := telemetry.NewCSVWriter(flagCSV)
	if err != nil {
		return fmt.Errorf("opening telemetry: %w", err)
	}
	defer csv.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	seed := resolveSeed(flagSeed)
	logger.Info("starting run", "policy", flagPolicy, "episodes", flagEpisodes, "seed", seed)

	records := make([]telemetry.EpisodeRecord, 0, max(flagEpisodes, 0))
	results, runErr := runner.Run(ctx, cfg, runner.Options{
		Policy:    flagPolicy,
		Episodes:  flagEpisodes,
		Seed:      seed,
		MaxSteps:  flagMaxSteps,
		ReplayDir: flagReplayDir,
		Logger:    logger,
		OnEpisode: func(res runner.EpisodeResult) error {
			rec := res.Record()
			records = append(records, rec)
			if err := csv.Write(rec); err != nil {
				return err
			}
			if store != nil {
				if _, err := store.SaveEpisode(storage.Episode{
					Player:  res.Player,
					Seed:    res.Seed,
					Score:   res.Score,
					Steps:   res.Steps,
					Merges:  res.Merges,
					MaxType: res.MaxType,
					Reason:  res.Reason,
				}); err != nil {
					logger.Warn("could not save episode", "episode", res.Episode, "error", err)
				}
			}
			return nil
		},
	})

	switch {
	case errors.Is(runErr, context.Canceled):
		logger.Warn("run interrupted", "finished", len(results))
	case runErr != nil:
		return runErr
	}

	if len(records) == 0 {
		return nil
	}
	fmt.Printf("Policy: %s  (seeds %d..%d)\n", flagPolicy, seed, seed+int64(len(records))-1)
	fmt.Println(telemetry.Summarize(records).String())
	return nil
}
