package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-arena/internal/arena"
	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/platform/tui"
	"github.com/vovakirdan/tui-arena/internal/storage"
)

var (
	flagServer   string
	flagName     string
	flagCodec    string
	flagMode     string
	flagHeadless bool
	flagDuration time.Duration
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play the arena",
	Long: `Start the arena client.

Without --mode a picker lets you choose a mode; after each round you return
to it. With --server the client joins that game server, otherwise it runs an
offline arena where you can practise movement and weapons.

Controls:
  WASD/Arrows      - Move (Shift or X to sprint)
  Mouse            - Aim, left button fires
  , . / J L        - Rotate aim
  Space/F          - Fire
  R                - Reload
  Q                - Next weapon, 1-4 select a slot
  Tab              - Scoreboard
  ?                - Help
  Esc/Ctrl+C       - Quit

Modes:
  classic   - free-for-all
  royale    - shrinking zone
  hardcore  - half health, no spawn shield
  training  - long spawn shield, no zone

Examples:
  arena play
  arena play --mode royale
  arena play --server ws://localhost:8080/ws --name alice --codec msgpack
  arena play --server ws://localhost:8080/ws --headless --duration 5m`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagServer, "server", "", "Game server WebSocket URL (empty = config or offline)")
	playCmd.Flags().StringVar(&flagName, "name", "", "Player name (default: OS user)")
	playCmd.Flags().StringVar(&flagCodec, "codec", "", "Wire codec: json or msgpack (default: config)")
	playCmd.Flags().StringVar(&flagMode, "mode", "", "Mode preset; skips the picker")
	playCmd.Flags().BoolVar(&flagHeadless, "headless", false, "Run without a TUI, logging status to stderr")
	playCmd.Flags().DurationVar(&flagDuration, "duration", 0, "Stop a headless session after this long (0 = until interrupted)")
}

func runPlay(_ *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if flagCodec != "" {
		cfg.Network.Codec = flagCodec
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if flagMode != "" {
		// Reject unknown modes before the terminal is taken over.
		probe := cfg
		if err := config.ApplyMode(&probe, config.ModePreset(flagMode)); err != nil {
			return err
		}
	}

	logger, closeLog, err := newLogger(!flagHeadless, "arena")
	if err != nil {
		return err
	}
	defer closeLog()

	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("could not open sessions database", "error", err)
		fmt.Fprintf(os.Stderr, "Warning: could not open sessions database: %v\n", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := tui.SessionOptions{
		Config:    cfg,
		Mode:      config.ModePreset(flagMode),
		Player:    playerName(),
		ServerURL: flagServer,
		Seed:      flagSeed,
		Store:     store,
		Logger:    logger,
	}
	if flagHeadless {
		return runHeadless(ctx, opts, logger)
	}

	rt := runtimeConfig(cfg)
	if flagMode != "" {
		return tui.Run(ctx, opts, rt)
	}

	server := flagServer
	if server == "" {
		server = cfg.Network.URL
	}

	// Menu loop
	for {
		result, err := tui.RunMenu(server, rt)
		if err != nil {
			return err
		}
		rt = result.Config

		switch {
		case result.Quit:
			return nil
		case result.WantsScoreboard:
			quit, err := tui.RunLeaderboard(store, rt)
			if err != nil {
				return err
			}
			if quit {
				return nil
			}
		default:
			opts.Mode = result.Mode
			if err := tui.Run(ctx, opts, rt); err != nil {
				logger.Error("session ended with error", "error", err)
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			if ctx.Err() != nil {
				return nil
			}
		}
	}
}

// runHeadless drives one session from a fixed-rate loop until interrupted,
// the duration elapses or the server goes away.
func runHeadless(ctx context.Context, opts tui.SessionOptions, logger *log.Logger) error {
	if flagDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, flagDuration)
		defer cancel()
	}

	session, err := tui.NewSession(ctx, opts)
	if err != nil {
		return err
	}
	defer session.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	if session.Client != nil {
		go func() {
			select {
			case <-session.Client.Done():
				logger.Warn("server connection closed", "error", session.Client.Err())
				cancel()
			case <-ctx.Done():
			}
		}()
	}

	logger.Info("headless session started", "session", session.ID, "player", session.Player, "online", session.Online())
	timing := session.Sim.Config().Timing
	loop := &arena.Loop{
		Target:   session.Sim,
		Clock:    session.Clock,
		Interval: timing.TickInterval(),
		Renderer: &statusLogger{sim: session.Sim, logger: logger, every: timing.TickRate * 10},
	}
	if err := loop.Run(ctx); err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	st := session.Sim.Stats()
	logger.Info("headless session finished", "elapsed", st.Elapsed, "snapshots", st.Snapshots, "score", st.Score)
	return nil
}

// statusLogger logs simulation counters every n frames.
type statusLogger struct {
	sim    *arena.Sim
	logger *log.Logger
	every  int
	frames int
}

func (s *statusLogger) Render() {
	s.frames++
	if s.every <= 0 || s.frames%s.every != 0 {
		return
	}
	p := s.sim.Player()
	s.logger.Info("status",
		"health", p.Health,
		"remotes", len(s.sim.Store().Remotes()),
		"snapshots", s.sim.Stats().Snapshots,
		"score", p.Score,
	)
}

// playerName returns --name, falling back to the OS user.
func playerName() string {
	if flagName != "" {
		return flagName
	}
	if u, err := user.Current(); err == nil && u.Username != "" {
		return u.Username
	}
	return "player"
}
