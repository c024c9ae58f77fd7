package simulation

import (
	"strings"
	"sync"
	"time"

	"github.com/aristath/hermes/internal/domain"
	"github.com/aristath/hermes/internal/events"
	"github.com/aristath/hermes/internal/modules/ledger"
	"github.com/aristath/hermes/internal/modules/missions"
	"github.com/aristath/hermes/internal/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// maxPlayerNameLength bounds the display name accepted at session creation
const maxPlayerNameLength = 64

// Registry keeps the live sessions keyed by id
type Registry struct {
	catalog *missions.Catalog
	loader  domain.ScenarioLoader
	events  *events.Manager
	cfg     SessionConfig
	log     zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*Session
	newID    func() string
	now      func() time.Time
}

// NewRegistry creates an empty registry
func NewRegistry(
	catalog *missions.Catalog,
	loader domain.ScenarioLoader,
	eventManager *events.Manager,
	cfg SessionConfig,
	log zerolog.Logger,
) *Registry {
	return &Registry{
		catalog:  catalog,
		loader:   loader,
		events:   eventManager,
		cfg:      cfg,
		log:      log.With().Str("service", "sessions").Logger(),
		sessions: make(map[string]*Session),
		newID:    uuid.NewString,
		now:      time.Now,
	}
}

// Catalog returns the mission catalog sessions start from
func (r *Registry) Catalog() *missions.Catalog {
	return r.catalog
}

// Create opens a new session for playerName
func (r *Registry) Create(playerName string) (*Session, error) {
	name := strings.TrimSpace(playerName)
	if name == "" {
		return nil, ErrInvalidPlayerName
	}
	name = utils.TruncateRunes(name, maxPlayerNameLength)

	s := NewSession(r.newID(), name, r.catalog, r.loader, r.events, r.cfg, r.log)
	s.now = r.now
	s.lastActivity = r.now()

	r.mu.Lock()
	r.sessions[s.ID()] = s
	r.mu.Unlock()

	r.log.Info().Str("session_id", s.ID()).Str("player", name).Msg("Session created")
	return s, nil
}

// Get returns the session with id
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// Transactions returns the trade log of the session's current run, newest first
func (r *Registry) Transactions(id string) ([]ledger.Transaction, error) {
	s, err := r.Get(id)
	if err != nil {
		return nil, err
	}
	return s.State().Transactions, nil
}

// Remove closes and forgets the session with id
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	s.Close()
	r.log.Info().Str("session_id", id).Msg("Session removed")
	return nil
}

// Count returns the number of live sessions
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdle closes sessions whose last activity is older than maxIdle and
// returns how many were removed
func (r *Registry) EvictIdle(maxIdle time.Duration) int {
	cutoff := r.now().Add(-maxIdle)

	r.mu.Lock()
	var idle []*Session
	for id, s := range r.sessions {
		if s.LastActivity().Before(cutoff) {
			idle = append(idle, s)
			delete(r.sessions, id)
		}
	}
	r.mu.Unlock()

	for _, s := range idle {
		s.Close()
	}
	if len(idle) > 0 {
		r.log.Info().Int("evicted", len(idle)).Dur("max_idle", maxIdle).Msg("Evicted idle sessions")
	}
	return len(idle)
}

// CloseAll stops every session; used on shutdown
func (r *Registry) CloseAll() {
	r.mu.Lock()
	all := make([]*Session, 0, len(r.sessions))
	for id, s := range r.sessions {
		all = append(all, s)
		delete(r.sessions, id)
	}
	r.mu.Unlock()

	for _, s := range all {
		s.Close()
	}
}
