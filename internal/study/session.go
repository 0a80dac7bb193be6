package study

import (
	"errors"
	"sync"
	"time"

	"flashdeck/internal/domain"
	"flashdeck/internal/quiz"
)

var ErrNoBatch = errors.New("no generated cards to review")

// Batch is a set of generated cards waiting for review
type Batch struct {
	Language string            `json:"language"`
	Pairs    []domain.CardPair `json:"pairs"`
}

// Review holds at most one batch until it is saved or discarded
type Review struct {
	mu    sync.Mutex
	batch *Batch
}

// Set replaces the pending batch
func (r *Review) Set(b Batch) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batch = &b
}

// Pending returns a copy of the pending batch
func (r *Review) Pending() (Batch, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.batch == nil {
		return Batch{}, false
	}
	return Batch{
		Language: r.batch.Language,
		Pairs:    append([]domain.CardPair(nil), r.batch.Pairs...),
	}, true
}

// Take removes the pending batch and returns the pairs at the given indices,
// in batch order. Indices out of range are ignored; nil selects every pair.
func (r *Review) Take(indices []int) (Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.batch == nil {
		return Batch{}, ErrNoBatch
	}
	b := *r.batch
	r.batch = nil
	return b.Select(indices), nil
}

// Restore puts b back unless another batch has been set since it was taken
func (r *Review) Restore(b Batch) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.batch != nil {
		return false
	}
	r.batch = &b
	return true
}

// Select returns a batch with the pairs at the given indices, in batch
// order. Indices out of range are ignored; nil selects every pair.
func (b Batch) Select(indices []int) Batch {
	if indices == nil {
		return b
	}

	selected := make(map[int]bool, len(indices))
	for _, i := range indices {
		selected[i] = true
	}
	picked := make([]domain.CardPair, 0, len(indices))
	for i, p := range b.Pairs {
		if selected[i] {
			picked = append(picked, p)
		}
	}
	return Batch{Language: b.Language, Pairs: picked}
}

// Discard drops the pending batch
func (r *Review) Discard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batch = nil
}

// Session is everything one signed-in user is doing
type Session struct {
	ID      string
	User    domain.User
	Browser *Browser
	Quiz    *quiz.Session
	Review  *Review

	mu        sync.Mutex
	expiresAt time.Time
}

func newSession(id string, user domain.User, expiresAt time.Time) *Session {
	return &Session{
		ID:        id,
		User:      user,
		Browser:   NewBrowser(),
		Quiz:      quiz.NewSession(),
		Review:    &Review{},
		expiresAt: expiresAt,
	}
}

// ExpiresAt returns when the session stops being valid
func (s *Session) ExpiresAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.expiresAt
}

func (s *Session) expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt())
}

func (s *Session) extend(until time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expiresAt = until
}
