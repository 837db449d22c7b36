package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruitdrop/internal/replay"
)

var replayCmd = &cobra.Command{
	Use:   "replay <file>",
	Short: "Re-simulate and verify a replay",
	Long: `Load a replay file, run its actions on a fresh environment with the
recorded seed and configuration, and check that score, steps, reason and
final state hash match the recording.

Examples:
  fruitdrop replay ./replays/greedy-0000-seed1.yaml`,
	Args: cobra.ExactArgs(1),
	Run:  runReplay,
}

func runReplay(_ *cobra.Command, args []string) {
	logger := newLogger("replay")

	rp, err := replay.Load(args[0])
	if err != nil {
		exitErr("loading replay", err)
	}
	logger.Debug("replay loaded", "player", rp.Player, "seed", rp.Seed, "actions", len(rp.Actions))

	res, err := replay.Verify(rp)
	if errors.Is(err, replay.ErrMismatch) {
		fmt.Fprintf(os.Stderr, "MISMATCH: %v\n", err)
		os.Exit(2)
	}
	if err != nil {
		exitErr("verifying replay", err)
	}

	reason := res.Reason
	if reason == "" {
		reason = "unfinished"
	}
	fmt.Printf("OK  player=%s seed=%d score=%d steps=%d reason=%s hash=%016x\n",
		rp.Player, rp.Seed, res.Score, res.Steps, reason, res.Hash)
}
