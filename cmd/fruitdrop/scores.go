package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruitdrop/internal/platform/tui"
	"github.com/vovakirdan/fruitdrop/internal/storage"
)

var (
	flagLimit int
	flagClear bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [player]",
	Short: "Show top episodes",
	Long: `Display the best stored episodes, for one player or for everyone.

Examples:
  fruitdrop scores
  fruitdrop scores human
  fruitdrop scores greedy --limit 25
  fruitdrop scores random --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

var boardCmd = &cobra.Command{
	Use:   "board",
	Short: "Interactive scoreboard",
	Long:  `Browse stored episodes in a table with one tab per player.`,
	Args:  cobra.NoArgs,
	Run:   runBoard,
}

func init() {
	scoresCmd.Flags().IntVar(&flagLimit, "limit", 10, "Number of episodes to show")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete the stored episodes instead of listing them")
}

func runScores(_ *cobra.Command, args []string) {
	player := ""
	if len(args) > 0 {
		player = args[0]
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitErr("opening episodes database", err)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearEpisodes(player); err != nil {
			store.Close()
			exitErr("clearing episodes", err)
		}
		if player == "" {
			fmt.Println("Cleared all episodes.")
		} else {
			fmt.Printf("Cleared episodes of %s.\n", player)
		}
		return
	}

	episodes, err := store.TopEpisodes(player, flagLimit)
	if err != nil {
		store.Close()
		exitErr("retrieving episodes", err)
	}

	title := "everyone"
	if player != "" {
		title = player
	}
	fmt.Printf("Top episodes - %s\n\n", title)

	if len(episodes) == 0 {
		fmt.Println("No episodes recorded yet.")
		fmt.Println()
		fmt.Println("Play 'fruitdrop play' or 'fruitdrop run' to record some!")
		return
	}

	fmt.Printf("  %-4s  %-12s  %-8s  %-7s  %-6s  %-3s  %-10s  %s\n",
		"Rank", "Player", "Score", "Steps", "Merges", "Max", "Reason", "Date")
	fmt.Printf("  %s\n", strings.Repeat("-", 74))
	for i, ep := range episodes {
		fmt.Printf("  %-4d  %-12s  %-8d  %-7d  %-6d  %-3d  %-10s  %s\n",
			i+1, ep.Player, ep.Score, ep.Steps, ep.Merges, ep.MaxType,
			ep.Reason, ep.CreatedAt.Format("2006-01-02 15:04"))
	}

	if player != "" {
		stats, err := store.PlayerStats(player)
		if err == nil {
			fmt.Printf("\nEpisodes: %d  Best: %d  Avg: %.1f\n", stats.Episodes, stats.HighScore, stats.AvgScore)
		}
	}
}

func runBoard(_ *cobra.Command, _ []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		exitErr("opening episodes database", err)
	}
	defer store.Close()

	width, height := terminalSize()
	if err := tui.RunBoard(store, width, height); err != nil {
		store.Close()
		fmt.Fprintf(os.Stderr, "Error running scoreboard: %v\n", err)
		os.Exit(1)
	}
}
