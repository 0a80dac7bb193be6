package repository

import (
	"context"
	"errors"

	"flashdeck/internal/domain"
)

var (
	// ErrNotFound is returned when an update matches no row
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when an insert violates a unique constraint
	ErrDuplicate = errors.New("record already exists")
)

// UserRepository defines account data operations
type UserRepository interface {
	CreateUser(ctx context.Context, email, passwordHash string) (*domain.User, error)
	// GetUserByEmail returns nil, nil when no account uses email
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}

// CardRepository defines flashcard table operations
type CardRepository interface {
	ListCards(ctx context.Context) ([]domain.Card, error)
	AddCard(ctx context.Context, front, back string) (*domain.Card, error)
	UpdateCard(ctx context.Context, card domain.Card) error
}

// DeckRepository defines language deck operations
type DeckRepository interface {
	ListDecks(ctx context.Context) ([]domain.Deck, error)
	// GetDeck returns nil, nil when the language has no deck
	GetDeck(ctx context.Context, language string) (*domain.Deck, error)
	InsertDeck(ctx context.Context, deck *domain.Deck) error
	UpdateDeck(ctx context.Context, deck *domain.Deck) error
}

// TableProvisioner creates per-user card tables
type TableProvisioner interface {
	CreateCardTable(ctx context.Context, name string) error
}
