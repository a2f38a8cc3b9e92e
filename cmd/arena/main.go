// arena is a terminal client for a top-down multiplayer arena shooter.
//
// Usage:
//
//	arena play               - Pick a mode and play (offline or against a server)
//	arena serve              - Start SSH server for remote play
//	arena scenarios          - List scripted headless scenarios
//	arena sim <scenario>     - Run a scenario headless and print a summary
//	arena stats [player]     - Show stored session statistics
//
// Global flags:
//
//	--config <path>     - Arena config YAML (default: built-in + ~/.arena/configs/arena.yaml)
//	--fps <rate>        - Set tick rate (default: from config)
//	--seed <value>      - Set RNG seed for reproducible spread and spawns
//	--db <path>         - Set database path (default: ~/.arena/sessions.db)
//	--log-level <lvl>   - debug, info, warn or error
//	--log-file <path>   - Log destination while the TUI owns the terminal
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"

	// Import scenarios to register them
	_ "github.com/vovakirdan/tui-arena/internal/scenarios"
)

var (
	// Global flags
	flagConfig   string
	flagFPS      int
	flagSeed     int64
	flagDBPath   string
	flagLogLevel string
	flagLogFile  string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "TUI Arena - a top-down arena shooter in your terminal",
	Long: `TUI Arena is the terminal client for a top-down multiplayer arena shooter.
It predicts your own movement and shots locally and reconciles with the
authoritative game server over a WebSocket.

Available commands:
  play       - Pick a mode and play
  serve      - Start SSH server for remote play
  scenarios  - List scripted headless scenarios
  sim        - Run a scenario headless
  stats      - View stored session statistics

Examples:
  arena play
  arena play --server ws://localhost:8080/ws --name alice
  arena play --mode royale
  arena serve --ssh :2222
  arena sim duel --seed 7
  arena stats alice`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to arena config YAML")
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 0, "Tick rate (0 = use config)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arena/sessions.db", "Path to sessions database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file used while the TUI is running (default ~/.arena/arena.log)")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(simCmd)
	rootCmd.AddCommand(statsCmd)
}

// loadConfig loads the arena config and applies global flag overrides.
func loadConfig() (config.ArenaConfig, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagFPS > 0 {
		cfg.Timing.TickRate = flagFPS
	}
	return cfg, nil
}

// runtimeConfig sizes the front-end to the current terminal.
func runtimeConfig(cfg config.ArenaConfig) core.RuntimeConfig {
	rt := core.DefaultConfig()
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		rt.ScreenW = w
		rt.ScreenH = h
	}
	rt.TickRate = cfg.Timing.TickRate
	rt.Seed = flagSeed
	return rt
}

// newLogger builds the process logger. While a TUI owns the terminal, logs go
// to a file instead of stderr. The returned func releases that file.
func newLogger(tuiMode bool, prefix string) (*log.Logger, func(), error) {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid --log-level: %w", err)
	}

	var out io.Writer = os.Stderr
	closeFn := func() {}
	if tuiMode {
		path := flagLogFile
		if path == "" {
			path = filepath.Join(config.DataDir(), "arena.log")
		}
		if mkErr := os.MkdirAll(filepath.Dir(path), 0o755); mkErr != nil {
			return nil, nil, fmt.Errorf("cannot create log directory: %w", mkErr)
		}
		f, openErr := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if openErr != nil {
			return nil, nil, fmt.Errorf("cannot open log file: %w", openErr)
		}
		out = f
		closeFn = func() { f.Close() }
	}

	logger := log.NewWithOptions(out, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
		Level:           level,
	})
	return logger, closeFn, nil
}
