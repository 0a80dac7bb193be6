package study

import (
	"sync"
	"time"

	"flashdeck/internal/domain"

	"github.com/google/uuid"
)

// DefaultTTL is how long an unused session lives
const DefaultTTL = 24 * time.Hour

// Store keeps sessions in memory. Every successful Get slides the expiry.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	ttl      time.Duration
	now      func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a session under a fresh random token
func (s *Store) Create(user domain.User) *Session {
	return s.Open(uuid.NewString(), user)
}

// Open starts a session under id, replacing any session already there
func (s *Store) Open(id string, user domain.User) *Session {
	sess := newSession(id, user, s.now().Add(s.ttl))

	s.mu.Lock()
	s.sessions[id] = sess
	s.mu.Unlock()

	return sess
}

// Get returns a live session and extends it
func (s *Store) Get(id string) (*Session, bool) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, false
	}
	now := s.now()
	if sess.expired(now) {
		s.Delete(id)
		return nil, false
	}
	sess.extend(now.Add(s.ttl))
	return sess, true
}

func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Sweep removes expired sessions and reports how many were dropped
func (s *Store) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
