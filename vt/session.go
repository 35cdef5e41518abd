package vt

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Session owns one Screen+Parser pair behind a mutex, enforcing the
// single-writer discipline: one sequential input stream mutates the pair,
// readers take immutable snapshots. Independent sessions share nothing.
type Session struct {
	id     string
	mu     sync.Mutex
	screen *Screen
	parser *Parser
	cfg    Config
	logger *log.Logger
}

// SessionOption configures a Session at construction time.
type SessionOption func(*Session)

// WithResponse sets the callback for bytes the terminal must send back to
// the input source (DSR, CPR, DA, palette reports). It is invoked
// synchronously during Feed.
func WithResponse(fn func([]byte)) SessionOption {
	return func(s *Session) { s.parser.respond = fn }
}

// WithBell sets the BEL callback.
func WithBell(fn func()) SessionOption {
	return func(s *Session) { s.parser.bell = fn }
}

// WithTitle sets the window-title callback (OSC 0/2).
func WithTitle(fn func(string)) SessionOption {
	return func(s *Session) { s.parser.onTitle = fn }
}

// WithIconName sets the icon-name callback (OSC 0/1).
func WithIconName(fn func(string)) SessionOption {
	return func(s *Session) { s.parser.onIcon = fn }
}

// WithLogger routes lifecycle events and the unsupported-sequence
// diagnostics through the given logger.
func WithLogger(l *log.Logger) SessionOption {
	return func(s *Session) {
		s.logger = l
		s.parser.diag = func(msg string) { l.Debug("parser", "event", msg) }
	}
}

// WithDiagnostic sets the unsupported-feature hook directly; it reports
// recognized-but-unimplemented sequences and oversized payloads. Never an
// error path; the engine already recovered by the time it fires.
func WithDiagnostic(fn func(string)) SessionOption {
	return func(s *Session) { s.parser.diag = fn }
}

// WithID overrides the generated session ID.
func WithID(id string) SessionOption {
	return func(s *Session) { s.id = id }
}

// NewSession builds a session with a blank cols x rows screen.
func NewSession(cols, rows int, cfg Config, opts ...SessionOption) *Session {
	cfg = cfg.fillDefaults()
	screen := NewScreen(cols, rows, cfg.Scrollback.MaxLines)
	s := &Session{
		id:     uuid.NewString(),
		screen: screen,
		parser: NewParser(screen, cfg),
		cfg:    cfg,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger != nil {
		cols, rows := screen.Size()
		s.logger.Info("session created", "id", s.id, "cols", cols, "rows", rows)
	}
	return s
}

func (s *Session) ID() string { return s.id }

// Feed consumes a chunk of terminal output, mutating the screen in place.
// Chunk boundaries are arbitrary; sequences split across chunks carry over.
// Feed never fails and performs no I/O beyond the response callback.
func (s *Session) Feed(p []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parser.Feed(p)
}

// Snapshot returns an immutable deep copy of the visible screen.
func (s *Session) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen.Snapshot()
}

// Resize changes the screen geometry; invoked by the owning session on an
// external size-change notification.
func (s *Session) Resize(cols, rows int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.screen.Resize(cols, rows)
	if s.logger != nil {
		s.logger.Debug("session resized", "id", s.id, "cols", cols, "rows", rows)
	}
}

// Damage returns the accumulated dirty state and clears it.
func (s *Session) Damage() Damage {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen.TakeDamage()
}

// Diff computes the update operations between two snapshots using this
// session's diff policy.
func (s *Session) Diff(old, next *Snapshot) []Op {
	return DiffSnapshots(old, next, s.cfg.Diff)
}

// HistoryLines copies the scrollback out, oldest first. A collaborator may
// persist it; the format is its concern.
func (s *Session) HistoryLines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen.history.snapshot()
}

// Title returns the last OSC-set window title.
func (s *Session) Title() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.screen.title
}
