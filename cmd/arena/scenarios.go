package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-arena/internal/registry"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List all scripted scenarios",
	Long:  `Shows the scripted headless scenarios that 'arena sim' can run.`,
	Args:  cobra.NoArgs,
	Run:   runScenarios,
}

func runScenarios(_ *cobra.Command, _ []string) {
	list := registry.List()

	if len(list) == 0 {
		fmt.Println("No scenarios available.")
		return
	}

	fmt.Println("Available scenarios:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, sc := range list {
		maxIDLen = max(maxIDLen, len(sc.ID))
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, sc := range list {
		fmt.Printf("  %-*s  %s\n", maxIDLen, sc.ID, sc.Title)
	}

	fmt.Println()
	fmt.Println("Run 'arena sim <id>' to run a scenario.")
}
