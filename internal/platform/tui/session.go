package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/vovakirdan/tui-arena/internal/arena"
	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/gateway"
	"github.com/vovakirdan/tui-arena/internal/protocol"
	"github.com/vovakirdan/tui-arena/internal/storage"
)

// SessionOptions configure one player's client session.
type SessionOptions struct {
	Config config.ArenaConfig
	Mode   config.ModePreset
	Player string
	// ServerURL overrides Config.Network.URL; both empty means offline play.
	ServerURL string
	Seed      int64
	Store     *storage.Store
	Logger    *log.Logger
}

// Session owns the simulation and its optional network gateway for the
// lifetime of one play session.
type Session struct {
	ID      string
	Player  string
	Mode    config.ModePreset
	Sim     *arena.Sim
	Client  *gateway.Client
	Clock   *arena.Clock
	server  string
	store   *storage.Store
	logger  *log.Logger
	started time.Time
	closed  bool
}

// NewSession builds the simulation and, when a server is configured, dials it.
func NewSession(ctx context.Context, opts SessionOptions) (*Session, error) {
	cfg := opts.Config
	if err := config.ApplyMode(&cfg, opts.Mode); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if opts.Player == "" {
		opts.Player = "player"
	}
	server := opts.ServerURL
	if server == "" {
		server = cfg.Network.URL
	}

	s := &Session{
		ID:      uuid.New().String(),
		Player:  opts.Player,
		Mode:    opts.Mode,
		Clock:   arena.NewClock(arena.SystemTime{}, cfg.Timing.MaxDelta()),
		server:  server,
		store:   opts.Store,
		logger:  logger,
		started: time.Now(),
	}

	simOpts := []arena.Option{
		arena.WithLogger(logger.With("session", s.ID[:8])),
		arena.WithPlayer(s.ID, s.Player),
	}
	if opts.Seed != 0 {
		simOpts = append(simOpts, arena.WithSeed(opts.Seed))
	}

	if server != "" {
		codec, err := protocol.NewCodec(cfg.Network.Codec)
		if err != nil {
			return nil, err
		}
		client, err := gateway.Dial(ctx, gateway.Options{
			URL:         server,
			Codec:       codec,
			PlayerID:    s.ID,
			Player:      s.Player,
			InboxSize:   cfg.Network.InboxSize,
			OutboxSize:  cfg.Network.OutboxSize,
			DialTimeout: time.Duration(cfg.Network.DialTimeoutMS) * time.Millisecond,
			Logger:      logger,
		})
		if err != nil {
			return nil, err
		}
		s.Client = client
		simOpts = append(simOpts, arena.WithEmitter(client), arena.WithSource(client))
	}

	sim, err := arena.New(cfg, simOpts...)
	if err != nil {
		if s.Client != nil {
			s.Client.Close()
		}
		return nil, err
	}
	s.Sim = sim
	return s, nil
}

// Online reports whether the session is connected to a live server.
func (s *Session) Online() bool {
	if s.Client == nil {
		return false
	}
	select {
	case <-s.Client.Done():
		return false
	default:
		return true
	}
}

// Step advances the simulation by the wall-clock time since the last step.
func (s *Session) Step() {
	s.Sim.Tick(s.Clock.Tick())
}

// Record converts the session counters into a storage record.
func (s *Session) Record() storage.SessionRecord {
	st := s.Sim.Stats()
	return storage.SessionRecord{
		SessionID: s.ID,
		Player:    s.Player,
		Server:    s.server,
		Mode:      string(s.Mode),
		Kills:     st.Kills,
		Deaths:    st.Deaths,
		Score:     st.Score,
		Shots:     st.ShotsFired,
		Hits:      st.HitsReported,
		Duration:  int(time.Since(s.started).Seconds()),
	}
}

// Close disconnects from the server and persists the session.
// Persistence failures are logged, never returned. Safe to call multiple times.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var err error
	if s.Client != nil {
		err = s.Client.Close()
	}
	if s.store != nil && s.Sim.Ticks() > 0 {
		if _, saveErr := s.store.SaveSession(s.Record()); saveErr != nil {
			s.logger.Warn("could not save session", "error", saveErr)
		}
	}
	return err
}
