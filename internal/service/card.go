package service

import (
	"context"
	"errors"
	"strings"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"
)

var ErrEmptyCard = errors.New("enter both front and back")

// CardService handles flashcard business logic
type CardService struct {
	cardRepo repository.CardRepository
}

// NewCardService creates a new card service
func NewCardService(cardRepo repository.CardRepository) *CardService {
	return &CardService{cardRepo: cardRepo}
}

// AddCard saves a card after trimming both sides
func (s *CardService) AddCard(ctx context.Context, front, back string) (*domain.Card, error) {
	front, back = strings.TrimSpace(front), strings.TrimSpace(back)
	if front == "" || back == "" {
		return nil, ErrEmptyCard
	}
	return s.cardRepo.AddCard(ctx, front, back)
}

// ListCards returns every card ordered by id
func (s *CardService) ListCards(ctx context.Context) ([]domain.Card, error) {
	return s.cardRepo.ListCards(ctx)
}

// UpdateCard rewrites both sides of an existing card
func (s *CardService) UpdateCard(ctx context.Context, card domain.Card) error {
	card.Front, card.Back = strings.TrimSpace(card.Front), strings.TrimSpace(card.Back)
	if card.Front == "" || card.Back == "" {
		return ErrEmptyCard
	}
	return s.cardRepo.UpdateCard(ctx, card)
}
