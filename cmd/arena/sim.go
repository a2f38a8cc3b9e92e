package main

import (
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/registry"
	"github.com/vovakirdan/tui-arena/internal/scenarios"
	"github.com/vovakirdan/tui-arena/internal/storage"
)

var (
	flagSimMode   string
	flagSimRecord bool
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(14)
	boxStyle    = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
)

var simCmd = &cobra.Command{
	Use:   "sim <scenario>",
	Short: "Run a scripted scenario headless",
	Long: `Run a scripted scenario against the client simulation with fixed ticks
and a recording gateway, then print what the client did.

Runs are deterministic for a given --seed.

Examples:
  arena sim pistol-burst
  arena sim duel --seed 7
  arena sim zone-squeeze --mode royale --log-level debug
  arena sim duel --record`,
	Args: cobra.ExactArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().StringVar(&flagSimMode, "mode", "", "Mode preset applied before the scenario")
	simCmd.Flags().BoolVar(&flagSimRecord, "record", false, "Store the run in the sessions database")
}

func runSim(_ *cobra.Command, args []string) error {
	id := args[0]
	if !registry.Exists(id) {
		return fmt.Errorf("unknown scenario %q (run 'arena scenarios' to list them)", id)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := newLogger(false, "arena-sim")
	if err != nil {
		return err
	}
	defer closeLog()

	res, err := scenarios.Run(id, scenarios.RunOptions{
		Config: cfg,
		Mode:   config.ModePreset(flagSimMode),
		Seed:   flagSeed,
		Logger: logger,
	})
	if err != nil {
		return err
	}

	fmt.Println(renderResult(res))

	if flagSimRecord {
		if err := recordRun(res); err != nil {
			return err
		}
		fmt.Println("Run stored in", flagDBPath)
	}
	return nil
}

func renderResult(res *scenarios.Result) string {
	line := func(label, value string) string {
		return labelStyle.Render(label) + value + "\n"
	}

	body := headerStyle.Render(res.Title) + "\n\n"
	body += line("ticks", fmt.Sprintf("%d (%s simulated)", res.Ticks, res.Elapsed().Round(time.Millisecond)))
	body += line("position", fmt.Sprintf("%.0f, %.0f", res.Position.X, res.Position.Y))
	body += line("health", fmt.Sprintf("%.0f", res.Health))
	body += line("weapon", fmt.Sprintf("%s %s", res.Weapon, res.Ammo))
	body += line("shots", fmt.Sprintf("%d fired, %d melee, %d hits", res.Stats.ShotsFired, res.Stats.MeleeSwings, res.Stats.HitsReported))
	body += line("score", fmt.Sprintf("K %d  D %d  %d pts", res.Stats.Kills, res.Stats.Deaths, res.Stats.Score))
	body += line("remotes", fmt.Sprintf("%d", res.Remotes))
	if res.Dropped > 0 {
		body += line("dropped", fmt.Sprintf("%d inbound events", res.Dropped))
	}

	body += "\n" + headerStyle.Render("Outbound events") + "\n"
	for _, name := range slices.Sorted(maps.Keys(res.Events)) {
		body += line(name, fmt.Sprintf("%d", res.Events[name]))
	}

	return boxStyle.Render(body)
}

// recordRun saves a scenario run as a session of player "scenario".
func recordRun(res *scenarios.Result) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	mode := flagSimMode
	if mode == "" {
		mode = string(config.ModeClassic)
	}
	_, err = store.SaveSession(storage.SessionRecord{
		SessionID: uuid.New().String(),
		Player:    "scenario",
		Server:    "sim:" + res.ID,
		Mode:      mode,
		Kills:     res.Stats.Kills,
		Deaths:    res.Stats.Deaths,
		Score:     res.Stats.Score,
		Shots:     res.Stats.ShotsFired,
		Hits:      res.Stats.HitsReported,
		Duration:  int(res.Elapsed().Seconds()),
	})
	return err
}
