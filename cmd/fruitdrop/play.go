package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruitdrop/internal/core"
	"github.com/vovakirdan/fruitdrop/internal/platform/tui"
)

var (
	flagRecord string
	flagPlayer string
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in the terminal",
	Long: `Start a local game.

Controls:
  Left/H/A, Right/L/D  - Move the cursor
  Space/J/Down         - Drop the fruit
  P/Esc                - Pause
  R                    - Restart
  Ctrl+S               - Save a text screenshot
  Q/Ctrl+C             - Quit

Finished episodes are stored under the player name (default "human").

Examples:
  fruitdrop play
  fruitdrop play --preset hard
  fruitdrop play --seed 42 --record ./replays/seed42.yaml`,
	Args: cobra.NoArgs,
	Run:  runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagRecord, "record", "", "Write a replay of each finished episode to this file")
	playCmd.Flags().StringVar(&flagPlayer, "player", tui.DefaultPlayer, "Player name for stored episodes")
}

func runPlay(_ *cobra.Command, _ []string) {
	logger, closeLog := newSessionLogger("play")
	defer closeLog()

	cfg, err := loadConfig()
	if err != nil {
		exitErr("loading config", err)
	}

	width, height := terminalSize()

	store := openStoreOrWarn(logger)
	if store != nil {
		defer store.Close()
	}

	runErr := tui.Run(tui.Options{
		Config: cfg,
		Runtime: core.RuntimeConfig{
			ScreenW:  width,
			ScreenH:  height,
			TickRate: cfg.Screen.FPS,
			Seed:     flagSeed,
		},
		Store:      store,
		Player:     flagPlayer,
		RecordPath: flagRecord,
		Logger:     logger,
	})
	if runErr != nil {
		if store != nil {
			store.Close()
		}
		closeLog()
		exitErr("running game", runErr)
	}
}
