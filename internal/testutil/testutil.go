package testutil

import (
	"time"

	"flashdeck/internal/domain"

	"go.uber.org/zap"
)

// NewTestLogger creates a no-op logger for tests
func NewTestLogger() *zap.Logger {
	return zap.NewNop()
}

// NewTestUser creates a test user
func NewTestUser(id int64, email string) *domain.User {
	return &domain.User{
		ID:        id,
		Email:     email,
		CreatedAt: time.Now(),
	}
}

// NewTestCard creates a test card
func NewTestCard(id int64, front, back string) domain.Card {
	return domain.Card{
		ID:        id,
		Front:     front,
		Back:      back,
		CreatedAt: time.Now(),
	}
}

// NewTestCards creates cards with ids 1..n from alternating front/back values
func NewTestCards(pairs ...string) []domain.Card {
	cards := make([]domain.Card, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		cards = append(cards, NewTestCard(int64(i/2+1), pairs[i], pairs[i+1]))
	}
	return cards
}

// FixedRandom always picks Index and never reorders
type FixedRandom struct {
	Index int
}

func (r FixedRandom) Intn(n int) int {
	if r.Index >= n {
		return n - 1
	}
	return r.Index
}

func (FixedRandom) Shuffle(n int, swap func(i, j int)) {}
