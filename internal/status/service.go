package status

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/nfrund/relay/internal/dispatch"
)

// State describes a session's connection state.
type State string

const (
	StateConnected    State = "connected"
	StateDisconnected State = "disconnected"
)

// DefaultDebounceDelay is how long the service waits after a session's last
// client disconnects before firing the disconnected key. This absorbs page
// reloads and brief network flaps. Override with WithDebounce; set it to 0
// to fire immediately.
const DefaultDebounceDelay = 5 * time.Second

// Event carries a connection-state change for one editing session. It is
// the payload type of the dispatch registry the service fires into.
type Event struct {
	SessionID string    `json:"session_id"`
	State     State     `json:"state"`
	Clients   int       `json:"clients"`
	Timestamp time.Time `json:"timestamp"`
}

// Registry is the dispatch surface the service fires state changes into.
// The host's UI glue subscribes its handlers here.
type Registry = dispatch.Registry[string, Event]

// Service tracks which clients are attached to which editing session and
// fires the dispatch registry on edge transitions: the first client of a
// session fires KeyConnected, the last client leaving fires KeyDisconnected.
// Intermediate joins and leaves are tracked but not dispatched.
type Service struct {
	mu       sync.Mutex
	sessions map[string]map[string]struct{} // sessionID -> clientIDs

	registry *Registry
	logger   *slog.Logger

	// Debouncing for disconnect events, keyed by session.
	debounce      map[string]*time.Timer
	debounceDelay time.Duration
	debounceMu    sync.Mutex
}

// Option is a function that configures a Service.
type Option func(*Service)

// WithDebounce sets a custom debounce delay for disconnect events. Set to 0
// to fire disconnects immediately (useful for testing).
func WithDebounce(d time.Duration) Option {
	return func(s *Service) {
		s.debounceDelay = d
	}
}

// NewService creates a status service firing into the given registry.
func NewService(registry *Registry, opts ...Option) *Service {
	svc := &Service{
		sessions:      make(map[string]map[string]struct{}),
		registry:      registry,
		logger:        slog.Default().With("service", "status"),
		debounce:      make(map[string]*time.Timer),
		debounceDelay: DefaultDebounceDelay,
	}

	for _, opt := range opts {
		opt(svc)
	}

	return svc
}

// ClientConnected records a client joining a session. If it is the session's
// first client, the connected key fires.
func (s *Service) ClientConnected(ctx context.Context, sessionID, clientID string) {
	s.cancelDebounce(sessionID)

	s.mu.Lock()
	clients, known := s.sessions[sessionID]
	if !known {
		clients = make(map[string]struct{})
		s.sessions[sessionID] = clients
	}
	wasEmpty := len(clients) == 0
	clients[clientID] = struct{}{}
	count := len(clients)
	s.mu.Unlock()

	if !wasEmpty {
		s.logger.Debug("Additional client joined session",
			"session_id", sessionID,
			"client_id", clientID,
			"clients", count)
		return
	}

	s.logger.Info("Session connected",
		"session_id", sessionID,
		"client_id", clientID)

	s.fire(ctx, KeyConnected, Event{
		SessionID: sessionID,
		State:     StateConnected,
		Clients:   count,
		Timestamp: time.Now().UTC(),
	})
}

// ClientDisconnected records a client leaving a session. When the session's
// last client leaves, the disconnected key fires after the debounce delay,
// unless a client reconnects in the meantime.
func (s *Service) ClientDisconnected(ctx context.Context, sessionID, clientID string) {
	s.mu.Lock()
	clients, known := s.sessions[sessionID]
	if known {
		delete(clients, clientID)
	}
	remaining := len(clients)
	s.mu.Unlock()

	if !known {
		s.logger.Debug("Disconnect for unknown session", "session_id", sessionID, "client_id", clientID)
		return
	}
	if remaining > 0 {
		s.logger.Debug("Client left session",
			"session_id", sessionID,
			"client_id", clientID,
			"clients", remaining)
		return
	}

	s.logger.Info("Last client left session, scheduling disconnect",
		"session_id", sessionID,
		"client_id", clientID,
		"debounce", s.debounceDelay)

	if s.debounceDelay <= 0 {
		s.fireDisconnected(ctx, sessionID)
		return
	}

	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()
	if timer, exists := s.debounce[sessionID]; exists {
		timer.Stop()
	}
	s.debounce[sessionID] = time.AfterFunc(s.debounceDelay, func() {
		s.debounceMu.Lock()
		delete(s.debounce, sessionID)
		s.debounceMu.Unlock()

		// The timer outlives the caller's request scope.
		s.fireDisconnected(context.Background(), sessionID)
	})
}

// Clients returns the number of clients currently attached to a session.
func (s *Service) Clients(sessionID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions[sessionID])
}

// Shutdown stops pending debounce timers. Scheduled disconnects that have
// not fired yet are dropped.
func (s *Service) Shutdown() {
	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()
	for sessionID, timer := range s.debounce {
		timer.Stop()
		delete(s.debounce, sessionID)
	}
}

func (s *Service) fireDisconnected(ctx context.Context, sessionID string) {
	s.mu.Lock()
	remaining := len(s.sessions[sessionID])
	s.mu.Unlock()

	// A client may have reconnected while the debounce was pending.
	if remaining > 0 {
		s.logger.Debug("Disconnect cancelled, session has clients again",
			"session_id", sessionID,
			"clients", remaining)
		return
	}

	s.logger.Info("Session disconnected", "session_id", sessionID)

	s.fire(ctx, KeyDisconnected, Event{
		SessionID: sessionID,
		State:     StateDisconnected,
		Clients:   0,
		Timestamp: time.Now().UTC(),
	})
}

func (s *Service) fire(ctx context.Context, key string, ev Event) {
	if err := s.registry.Fire(ctx, key, ev); err != nil {
		s.logger.Error("Subscriber failure during dispatch",
			"key", key,
			"session_id", ev.SessionID,
			"error", err)
	}
}

func (s *Service) cancelDebounce(sessionID string) {
	s.debounceMu.Lock()
	defer s.debounceMu.Unlock()
	if timer, exists := s.debounce[sessionID]; exists {
		timer.Stop()
		delete(s.debounce, sessionID)
		s.logger.Debug("Cancelled pending disconnect due to reconnection",
			"session_id", sessionID)
	}
}
