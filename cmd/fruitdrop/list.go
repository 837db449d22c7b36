package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/fruitdrop/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available policies",
	Long:  `Shows the scripted policies that 'fruitdrop run' can drive.`,
	Args:  cobra.NoArgs,
	Run:   runList,
}

func runList(_ *cobra.Command, _ []string) {
	policies := registry.List()

	if len(policies) == 0 {
		fmt.Println("No policies available.")
		return
	}

	fmt.Println("Available policies:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, p := range policies {
		maxIDLen = max(maxIDLen, len(p.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Description")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----------")
	for _, p := range policies {
		fmt.Printf("  %-*s  %s\n", maxIDLen, p.ID, p.Description)
	}

	fmt.Println()
	fmt.Println("Run 'fruitdrop run --policy <id>' to run one.")
}
