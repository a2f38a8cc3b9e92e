package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-arena/internal/storage"
)

var flagStatsLimit int

var statsCmd = &cobra.Command{
	Use:   "stats [player]",
	Short: "Show stored session statistics",
	Long: `Without a player, shows the leaderboard across all stored sessions.
With a player, shows that player's totals and most recent sessions.

Examples:
  arena stats
  arena stats alice
  arena stats alice --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagStatsLimit, "limit", 10, "Number of rows to show")
}

func runStats(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening sessions database: %w", err)
	}
	defer store.Close()

	if len(args) == 0 {
		return printLeaderboard(store)
	}
	return printPlayer(store, args[0])
}

func statsTable(headers ...string) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		}).
		Headers(headers...)
}

func printLeaderboard(store *storage.Store) error {
	leaders, err := store.Leaderboard(flagStatsLimit)
	if err != nil {
		return err
	}
	if len(leaders) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Play 'arena play' to get on the board!")
		return nil
	}

	t := statsTable("Rank", "Player", "Games", "Score", "Best", "K/D", "Last played")
	for i, p := range leaders {
		t.Row(
			fmt.Sprintf("%d", i+1),
			p.Player,
			fmt.Sprintf("%d", p.GamesPlayed),
			fmt.Sprintf("%d", p.TotalScore),
			fmt.Sprintf("%d", p.BestScore),
			fmt.Sprintf("%.2f", p.KD()),
			p.LastPlayed.Format("2006-01-02 15:04"),
		)
	}

	fmt.Println(headerStyle.Render("Leaderboard"))
	fmt.Println(t)
	return nil
}

func printPlayer(store *storage.Store, player string) error {
	totals, err := store.PlayerTotals(player)
	if err != nil {
		return err
	}
	if totals == nil || totals.GamesPlayed == 0 {
		fmt.Printf("No sessions recorded for %s.\n", player)
		return nil
	}

	fmt.Println(headerStyle.Render(player))
	fmt.Printf("  %d games, %d points (best %d), %d kills, %d deaths, K/D %.2f\n\n",
		totals.GamesPlayed, totals.TotalScore, totals.BestScore, totals.Kills, totals.Deaths, totals.KD())

	sessions, err := store.RecentSessions(player, flagStatsLimit)
	if err != nil {
		return err
	}

	t := statsTable("Date", "Mode", "Server", "Score", "K", "D", "Shots", "Hits", "Time")
	for _, s := range sessions {
		server := s.Server
		if server == "" {
			server = "offline"
		}
		t.Row(
			s.CreatedAt.Format("2006-01-02 15:04"),
			s.Mode,
			server,
			fmt.Sprintf("%d", s.Score),
			fmt.Sprintf("%d", s.Kills),
			fmt.Sprintf("%d", s.Deaths),
			fmt.Sprintf("%d", s.Shots),
			fmt.Sprintf("%d", s.Hits),
			fmt.Sprintf("%dm%02ds", s.Duration/60, s.Duration%60),
		)
	}
	fmt.Println(t)
	return nil
}
