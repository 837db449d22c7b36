// fruitdrop is a deterministic falling-fruit merge game and environment for
// the terminal.
//
// Usage:
//
//	fruitdrop play               - Play in the terminal
//	fruitdrop run                - Run a policy headless for many episodes
//	fruitdrop replay <file>      - Re-simulate and verify a replay
//	fruitdrop scores [player]    - Show top episodes
//	fruitdrop board              - Interactive scoreboard
//	fruitdrop serve              - Start SSH server for remote play
//	fruitdrop config             - Print the effective configuration
//	fruitdrop list               - List available policies
//
// Global flags:
//
//	--fps <rate>       - Override the simulation rate
//	--seed <value>     - Set RNG seed for reproducible episodes
//	--db <path>        - Set database path (default: ~/.fruitdrop/episodes.db)
//	--config <path>    - Load a custom YAML config
//	--preset <name>    - Difficulty preset: easy, normal, hard
//	--log-level <lvl>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	_ "github.com/vovakirdan/fruitdrop/internal/agent" // register policies
	"github.com/vovakirdan/fruitdrop/internal/config"
	"github.com/vovakirdan/fruitdrop/internal/storage"
)

var (
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "fruitdrop",
	Short: "Fruitdrop - a falling-fruit merge game for your terminal",
	Long: `Fruitdrop drops fruits into a container; two touching fruits of the
same type merge into the next type and score points. The simulation is
deterministic for a given seed, so episodes can be replayed exactly.

Examples:
  fruitdrop play
  fruitdrop play --preset easy --record ./replays/mine.yaml
  fruitdrop run --policy greedy --episodes 50 --csv runs.csv
  fruitdrop replay ./replays/mine.yaml
  fruitdrop scores greedy
  fruitdrop serve --ssh :23235`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Simulation rate override (0 = use config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.fruitdrop/episodes.db", "Path to episodes database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(boardCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(listCmd)
}

// newLogger builds the stderr logger shared by all commands.
func newLogger(prefix string) *log.Logger {
	return newLoggerTo(os.Stderr, prefix)
}

// newSessionLogger logs to ~/.fruitdrop/fruitdrop.log, since stderr
// belongs to the full-screen UI while a game runs. The returned closer
// must be called on exit.
func newSessionLogger(prefix string) (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return newLoggerTo(io.Discard, prefix), func() {}
	}
	dir := filepath.Join(home, ".fruitdrop")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return newLoggerTo(io.Discard, prefix), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "fruitdrop.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return newLoggerTo(io.Discard, prefix), func() {}
	}
	return newLoggerTo(f, prefix), func() { f.Close() }
}

func newLoggerTo(w io.Writer, prefix string) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          prefix,
	})
	if level, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(level)
	} else {
		logger.Warn("unknown log level, using info", "level", flagLogLevel)
	}
	return logger
}

// loadConfig resolves the config file, applies the preset and flag
// overrides, and validates the result.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, err
	}

	preset, err := config.ParsePreset(flagPreset)
	if err != nil {
		return config.Config{}, err
	}
	config.ApplyPreset(&cfg, preset)

	if flagFPS > 0 {
		cfg.Screen.FPS = flagFPS
	}
	cfg.Seed = flagSeed

	if err := cfg.Validate(); err != nil {
		return config.Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// resolveSeed replaces the zero seed with a time-based one.
func resolveSeed(seed int64) int64 {
	if seed == 0 {
		return time.Now().UnixNano()
	}
	return seed
}

// terminalSize returns the stdout terminal size, or 80x24.
func terminalSize() (int, int) {
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		return w, h
	}
	return 80, 24
}

// openStoreOrWarn opens the episode store, logging instead of failing so
// that play works without a database.
func openStoreOrWarn(logger *log.Logger) *storage.Store {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open episodes database", "path", flagDBPath, "error", err)
		return nil
	}
	return store
}

// exitErr prints a message and exits with status 1.
func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
	os.Exit(1)
}
