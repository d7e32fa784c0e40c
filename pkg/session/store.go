package session

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/getmockd/mimic/internal/id"
	"github.com/getmockd/mimic/pkg/logging"
)

// DefaultTokenLifetime is how long a session token is advertised as valid.
const DefaultTokenLifetime = 24 * time.Hour

// Store is the registry of all sessions of a test run.
type Store struct {
	mu         sync.Mutex
	byTenant   map[string]*Session
	byToken    map[string]*Session
	byUsername map[string]*Session

	now      func() time.Time
	lifetime time.Duration
	observer Observer
	log      *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock sets the time source used for session timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithTokenLifetime sets how long newly created session tokens are valid.
func WithTokenLifetime(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.lifetime = d
		}
	}
}

// WithObserver sets the observer notified of store events.
func WithObserver(o Observer) Option {
	return func(s *Store) {
		if o != nil {
			s.observer = o
		}
	}
}

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

// NewStore creates an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		byTenant:   make(map[string]*Session),
		byToken:    make(map[string]*Session),
		byUsername: make(map[string]*Session),
		now:        time.Now,
		lifetime:   DefaultTokenLifetime,
		observer:   NoopObserver{},
		log:        logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SessionForTenant returns the session of tenantID, creating it on first use.
// An empty tenantID always creates a session with a generated tenant ID.
func (s *Store) SessionForTenant(tenantID string) *Session {
	s.mu.Lock()
	sess, ok := s.byTenant[tenantID]
	if !ok || tenantID == "" {
		sess = s.createLocked(tenantID, "", "")
	}
	s.mu.Unlock()

	if !ok || tenantID == "" {
		s.created(sess)
	}
	return sess
}

// SessionForToken returns the session that owns token, creating one with a
// generated tenant ID on first use.
func (s *Store) SessionForToken(token string) *Session {
	s.mu.Lock()
	sess, ok := s.byToken[token]
	if !ok || token == "" {
		sess = s.createLocked("", token, "")
	}
	s.mu.Unlock()

	if !ok || token == "" {
		s.created(sess)
	}
	return sess
}

// SessionForUsername returns the session of username. On first use the user
// is attached to the session of tenantID when that session exists and has no
// user yet. Otherwise a new session is created, for tenantID if it is free and
// for a generated tenant ID if not.
func (s *Store) SessionForUsername(username, tenantID string) *Session {
	s.mu.Lock()
	if sess, ok := s.byUsername[username]; ok && username != "" {
		s.mu.Unlock()
		return sess
	}

	if existing, ok := s.byTenant[tenantID]; ok && tenantID != "" && existing.Username() == "" {
		existing.setUsername(username)
		if username != "" {
			s.byUsername[username] = existing
		}
		s.mu.Unlock()
		return existing
	}

	sess := s.createLocked(tenantID, "", username)
	s.mu.Unlock()

	s.created(sess)
	return sess
}

// Lookup returns the session of tenantID without creating one.
func (s *Store) Lookup(tenantID string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byTenant[tenantID]
	return sess, ok
}

// LookupToken returns the session owning token without creating one.
func (s *Store) LookupToken(token string) (*Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.byToken[token]
	return sess, ok
}

// Len returns the number of sessions.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byTenant)
}

// Sessions returns a snapshot of all sessions sorted by tenant ID.
func (s *Store) Sessions() []Info {
	s.mu.Lock()
	sessions := make([]*Session, 0, len(s.byTenant))
	for _, sess := range s.byTenant {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	infos := make([]Info, 0, len(sessions))
	for _, sess := range sessions {
		infos = append(infos, sess.Info())
	}
	sort.Slice(infos, func(i, j int) bool {
		return infos[i].TenantID < infos[j].TenantID
	})
	return infos
}

// Delete removes the session of tenantID and everything it holds.
// It reports whether a session was removed.
func (s *Store) Delete(tenantID string) bool {
	s.mu.Lock()
	sess, ok := s.byTenant[tenantID]
	if ok {
		delete(s.byTenant, tenantID)
		for tok, other := range s.byToken {
			if other == sess {
				delete(s.byToken, tok)
			}
		}
		for user, other := range s.byUsername {
			if other == sess {
				delete(s.byUsername, user)
			}
		}
	}
	s.mu.Unlock()

	if ok {
		s.log.Debug("session deleted", "tenant", tenantID)
		s.observer.OnSessionsRemoved(1)
	}
	return ok
}

// Reset removes every session and returns how many were removed.
func (s *Store) Reset() int {
	s.mu.Lock()
	n := len(s.byTenant)
	s.byTenant = make(map[string]*Session)
	s.byToken = make(map[string]*Session)
	s.byUsername = make(map[string]*Session)
	s.mu.Unlock()

	s.log.Info("session store reset", "sessions", n)
	s.observer.OnSessionsRemoved(n)
	return n
}

// createLocked inserts a new session. Blank identity fields are generated.
// s.mu must be held.
func (s *Store) createLocked(tenantID, token, username string) *Session {
	for tenantID == "" || s.byTenant[tenantID] != nil {
		tenantID = id.TenantID()
	}
	for token == "" || s.byToken[token] != nil {
		token = id.Token()
	}

	now := s.now()
	sess := &Session{
		store:     s,
		tenantID:  tenantID,
		token:     token,
		username:  username,
		createdAt: now,
		expiresAt: now.Add(s.lifetime),
		regions:   make(map[string]*RegionCollection),
	}
	s.byTenant[tenantID] = sess
	s.byToken[token] = sess
	if username != "" {
		s.byUsername[username] = sess
	}
	return sess
}

func (s *Store) created(sess *Session) {
	s.log.Debug("session created", "tenant", sess.tenantID, "user", sess.Username())
	s.observer.OnSessionCreated(sess.tenantID)
}
