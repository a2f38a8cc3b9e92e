package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/bubbletea"

	"github.com/vovakirdan/tui-arena/internal/config"
	"github.com/vovakirdan/tui-arena/internal/core"
	"github.com/vovakirdan/tui-arena/internal/storage"
)

// SSHServerConfig holds configuration for the SSH server.
type SSHServerConfig struct {
	// Address is the host:port to listen on (e.g., ":23235").
	Address string

	// HostKeyPath is the path to the host key file.
	// If empty, a key will be auto-generated at ~/.arena/host_key.
	HostKeyPath string

	// DBPath is the path to the sessions database.
	DBPath string

	// IdleTimeout is how long to wait before closing idle connections.
	IdleTimeout time.Duration

	// Arena is the simulation config each SSH player starts from.
	Arena config.ArenaConfig

	// ServerURL is the game server every SSH player joins. Empty means
	// each player gets an offline arena.
	ServerURL string

	// Logger receives server and per-session logs. Nil logs to stderr.
	Logger *log.Logger
}

// DefaultSSHServerConfig returns a config with sensible defaults.
func DefaultSSHServerConfig() SSHServerConfig {
	return SSHServerConfig{
		Address:     ":23235",
		DBPath:      "~/.arena/sessions.db",
		IdleTimeout: 30 * time.Minute,
		Arena:       config.Default(),
	}
}

// SSHServer serves the arena client to SSH users through Wish.
type SSHServer struct {
	config SSHServerConfig
	server *ssh.Server
	store  *storage.Store
	logger *log.Logger
}

// NewSSHServer creates a new SSH server with the given configuration.
func NewSSHServer(cfg SSHServerConfig) (*SSHServer, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			Prefix:          "arena-ssh",
		})
	}

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		logger.Warn("could not open sessions database", "error", err)
		// Continue without storage
	}

	srv := &SSHServer{
		config: cfg,
		store:  store,
		logger: logger,
	}

	hostKeyPath := cfg.HostKeyPath
	if hostKeyPath == "" {
		hostKeyPath = filepath.Join(config.DataDir(), "host_key")
	}
	if mkdirErr := os.MkdirAll(filepath.Dir(hostKeyPath), 0o700); mkdirErr != nil {
		return nil, fmt.Errorf("cannot create host key directory: %w", mkdirErr)
	}

	opts := []ssh.Option{
		wish.WithAddress(cfg.Address),
		wish.WithHostKeyPath(hostKeyPath),
		wish.WithIdleTimeout(cfg.IdleTimeout),
		wish.WithMiddleware(
			bubbletea.Middleware(srv.teaHandler),
			srv.sessionMiddleware,
			srv.loggingMiddleware,
		),
	}

	server, err := wish.NewServer(opts...)
	if err != nil {
		if store != nil {
			store.Close()
		}
		return nil, fmt.Errorf("cannot create SSH server: %w", err)
	}

	srv.server = server
	return srv, nil
}

type trackerKey struct{}

// sessionTracker holds the arena session an SSH connection is playing.
type sessionTracker struct {
	mu      sync.Mutex
	current *Session
}

func (t *sessionTracker) set(s *Session) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.current = s
}

// close ends the tracked session, if any.
func (t *sessionTracker) close() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current != nil {
		t.current.Close()
		t.current = nil
	}
}

// sessionMiddleware closes whatever arena session is still open once the
// Bubble Tea program for the connection has returned.
func (s *SSHServer) sessionMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		tracker := &sessionTracker{}
		sshSession.Context().SetValue(trackerKey{}, tracker)
		next(sshSession)
		tracker.close()
	}
}

// teaHandler creates a Bubble Tea program for each SSH session.
func (s *SSHServer) teaHandler(sshSession ssh.Session) (tea.Model, []tea.ProgramOption) {
	pty, _, ok := sshSession.Pty()
	if !ok {
		s.logger.Warn("no PTY requested", "user", sshSession.User())
		return nil, nil
	}

	cfg := core.DefaultConfig()
	cfg.ScreenW = pty.Window.Width
	cfg.ScreenH = pty.Window.Height
	cfg.TickRate = s.config.Arena.Timing.TickRate

	tracker, _ := sshSession.Context().Value(trackerKey{}).(*sessionTracker)
	opts := SessionOptions{
		Config:    s.config.Arena,
		Player:    sshSession.User(),
		ServerURL: s.config.ServerURL,
		Store:     s.store,
		Logger:    s.logger.With("user", sshSession.User()),
	}

	model := NewSessionModel(sshSession.Context(), opts, cfg, tracker)
	return model, []tea.ProgramOption{
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	}
}

// loggingMiddleware logs SSH session events.
func (s *SSHServer) loggingMiddleware(next ssh.Handler) ssh.Handler {
	return func(sshSession ssh.Session) {
		s.logger.Info("session started",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
		next(sshSession)
		s.logger.Info("session ended",
			"user", sshSession.User(),
			"remote", sshSession.RemoteAddr().String(),
		)
	}
}

// ListenAndServe starts the SSH server and blocks until shutdown.
func (s *SSHServer) ListenAndServe() error {
	s.logger.Info("starting SSH server", "address", s.config.Address, "game_server", s.config.ServerURL)

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			s.logger.Error("server error", "error", err)
		}
	}()

	<-done
	s.logger.Info("shutting down...")
	return s.Shutdown()
}

// Shutdown gracefully stops the server.
func (s *SSHServer) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	err := s.server.Shutdown(ctx)
	if s.store != nil {
		s.store.Close()
	}
	return err
}

// Addr returns the server's listen address string.
func (s *SSHServer) Addr() string {
	return s.config.Address
}

// SessionModel manages the full flow for one user: menu -> game or
// leaderboard -> menu. This is the top-level model used for SSH sessions.
type SessionModel struct {
	ctx      context.Context
	opts     SessionOptions
	config   core.RuntimeConfig
	tracker  *sessionTracker
	menu     MenuModel
	board    *LeaderboardModel
	game     *Model
	status   string
	quitting bool
}

// NewSessionModel creates a new session model. opts is the template for every
// game the user starts; its Mode is replaced by the menu selection.
func NewSessionModel(ctx context.Context, opts SessionOptions, cfg core.RuntimeConfig, tracker *sessionTracker) SessionModel {
	server := opts.ServerURL
	if server == "" {
		server = opts.Config.Network.URL
	}
	return SessionModel{
		ctx:     ctx,
		opts:    opts,
		config:  cfg,
		tracker: tracker,
		menu:    NewMenuModel(server, cfg),
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch {
	case m.game != nil:
		return m.updateGame(msg)
	case m.board != nil:
		return m.updateBoard(msg)
	default:
		return m.updateMenu(msg)
	}
}

// updateMenu handles updates when in menu mode.
func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	newMenu, cmd := m.menu.Update(msg)
	if menuModel, ok := newMenu.(MenuModel); ok {
		m.menu = menuModel
	}

	if m.menu.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.menu.WantsScoreboard() {
		board := NewLeaderboardModel(m.opts.Store, m.config.ScreenW, m.config.ScreenH)
		m.board = &board
		m.menu = NewMenuModel(m.menu.server, m.config)
		return m, board.Init()
	}

	if selected := m.menu.Selected(); selected != nil {
		opts := m.opts
		opts.Mode = selected.Mode
		m.menu = NewMenuModel(m.menu.server, m.config)

		session, err := NewSession(m.ctx, opts)
		if err != nil {
			m.status = "could not start game: " + err.Error()
			return m, nil
		}
		m.tracker.set(session)
		m.status = ""

		game := NewModel(session, m.config)
		game.embedded = true
		m.game = &game
		return m, game.Init()
	}

	return m, cmd
}

// updateBoard handles updates when the leaderboard is shown.
func (m SessionModel) updateBoard(msg tea.Msg) (tea.Model, tea.Cmd) {
	newBoard, cmd := m.board.Update(msg)
	if board, ok := newBoard.(LeaderboardModel); ok {
		m.board = &board
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.board.IsGoingBack() {
		m.board = nil
		return m, m.menu.Init()
	}
	return m, cmd
}

// updateGame handles updates when in game mode.
func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	newModel, cmd := m.game.Update(msg)
	if game, ok := newModel.(Model); ok {
		m.game = &game
	}

	if m.game.BackToMenu() {
		m.tracker.close()
		m.game = nil
		m.menu = NewMenuModel(m.menu.server, m.config)
		return m, m.menu.Init()
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	return m, cmd
}

// View renders the current view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}

	switch {
	case m.game != nil:
		return m.game.View()
	case m.board != nil:
		return m.board.View()
	}

	view := m.menu.View()
	if m.status != "" {
		view += "\n" + centerText(colorStyles[core.ColorWarn].Render(m.status), m.config.ScreenW)
	}
	return view
}
