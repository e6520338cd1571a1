package api

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/yegors/skytrack/internal/lookup"
	"github.com/yegors/skytrack/internal/views"
	"github.com/yegors/skytrack/pkg/logger"
)

// Session is one visitor. It owns an independent controller per view.
type Session struct {
	ID          string
	controllers map[string]*lookup.Controller
}

// Controller returns the session's controller for a view slug
func (s *Session) Controller(slug string) (*lookup.Controller, bool) {
	c, ok := s.controllers[slug]
	return c, ok
}

// SessionStore is a bounded table of visitor sessions. The least recently
// used session is evicted when the table is full; its visitor starts over
// from Idle on the next request.
type SessionStore struct {
	mu       sync.Mutex
	cache    *lru.Cache[string, *Session]
	views    *views.Registry
	fetchers map[views.Provider]lookup.Fetcher
	logger   *logger.Logger
}

// NewSessionStore creates a session table holding at most capacity sessions
func NewSessionStore(capacity int, registry *views.Registry, fetchers map[views.Provider]lookup.Fetcher, logger *logger.Logger) (*SessionStore, error) {
	s := &SessionStore{
		views:    registry,
		fetchers: fetchers,
		logger:   logger.Named("sessions"),
	}

	cache, err := lru.NewWithEvict[string, *Session](capacity, s.onEvict)
	if err != nil {
		return nil, fmt.Errorf("failed to create session table: %w", err)
	}
	s.cache = cache

	return s, nil
}

// Get returns the session with the given id
func (s *SessionStore) Get(id string) (*Session, bool) {
	return s.cache.Get(id)
}

// GetOrCreate returns the session for id, or a new session when id is not a
// valid session id or is not in the table. created reports the latter.
func (s *SessionStore) GetOrCreate(id string) (sess *Session, created bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := uuid.Parse(id); err == nil {
		if sess, ok := s.cache.Get(id); ok {
			return sess, false
		}
	}

	sess = s.newSession()
	s.cache.Add(sess.ID, sess)
	s.logger.Debug("Created session", logger.Int("sessions", s.cache.Len()))
	return sess, true
}

// Len returns the number of live sessions
func (s *SessionStore) Len() int {
	return s.cache.Len()
}

func (s *SessionStore) newSession() *Session {
	all := s.views.All()
	sess := &Session{
		ID:          uuid.NewString(),
		controllers: make(map[string]*lookup.Controller, len(all)),
	}
	for _, v := range all {
		sess.controllers[v.Slug] = lookup.NewController(v.Endpoint, s.fetchers[v.Provider], s.logger)
	}
	return sess
}

// onEvict stops the evicted session's in-flight requests
func (s *SessionStore) onEvict(id string, sess *Session) {
	for _, c := range sess.controllers {
		c.Close()
	}
	s.logger.Debug("Evicted session", logger.String("session", id))
}
