package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

type entry struct {
	session  *Session
	ownerID  string
	lastSeen time.Time
}

// Registry holds the open sessions of a server process. Each session is
// bound to the user that opened it.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*entry

	gate  AuthGate
	store ReservationStore
	cfg   Config
}

func NewRegistry(gate AuthGate, store ReservationStore, cfg Config) *Registry {
	return &Registry{
		sessions: make(map[string]*entry),
		gate:     gate,
		store:    store,
		cfg:      cfg.withDefaults(),
	}
}

// Open starts a session for the current user and fetches their
// reservations. A failed fetch is logged and leaves the cache empty; the
// session is still returned.
func (r *Registry) Open(ctx context.Context) (*Session, error) {
	const op = "booking.Registry.Open"

	if r.gate == nil || !r.gate.IsAuthenticated(ctx) || r.gate.CurrentUser(ctx) == nil {
		return nil, fmt.Errorf("%s:%w", op, ErrAuthRequired)
	}

	u := r.gate.CurrentUser(ctx)
	s := NewSession(uuid.NewString(), r.gate, r.store, r.cfg)

	if err := s.LoadReservations(ctx); err != nil {
		r.cfg.Logger.Warn("opened session without reservations",
			"session_id", s.ID(), "user_id", u.ID, "error", err)
	}

	r.mu.Lock()
	r.sessions[s.ID()] = &entry{session: s, ownerID: u.ID, lastSeen: r.cfg.Now()}
	r.mu.Unlock()

	return s, nil
}

// Get returns the session with the given id if it belongs to the current
// user.
func (r *Registry) Get(ctx context.Context, id string) (*Session, error) {
	const op = "booking.Registry.Get"

	u := r.currentUserID(ctx)
	if u == "" {
		return nil, fmt.Errorf("%s:%w", op, ErrAuthRequired)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok || e.ownerID != u {
		return nil, fmt.Errorf("%s:%w", op, ErrSessionNotFound)
	}

	e.lastSeen = r.cfg.Now()

	return e.session, nil
}

func (r *Registry) Close(ctx context.Context, id string) error {
	const op = "booking.Registry.Close"

	u := r.currentUserID(ctx)
	if u == "" {
		return fmt.Errorf("%s:%w", op, ErrAuthRequired)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.sessions[id]
	if !ok || e.ownerID != u {
		return fmt.Errorf("%s:%w", op, ErrSessionNotFound)
	}

	delete(r.sessions, id)

	return nil
}

// Sweep drops sessions idle for longer than maxIdle and returns how many
// were removed.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := r.cfg.Now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for id, e := range r.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(r.sessions, id)
			n++
		}
	}

	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *Registry) currentUserID(ctx context.Context) string {
	if r.gate == nil || !r.gate.IsAuthenticated(ctx) {
		return ""
	}

	u := r.gate.CurrentUser(ctx)
	if u == nil {
		return ""
	}

	return u.ID
}
