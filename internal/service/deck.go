package service

import (
	"context"
	"errors"
	"strings"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"

	"go.uber.org/zap"
)

var (
	ErrEmptyLanguage = errors.New("enter a language")
	ErrEmptyDeck     = errors.New("no word:translation lines found")
	ErrDeckExists    = errors.New("a deck for this language already exists")
	ErrDeckNotFound  = errors.New("no deck for this language")
	ErrNothingToSave = errors.New("no cards selected")
)

// DeckService manages per-language decks
type DeckService struct {
	deckRepo repository.DeckRepository
	logger   *zap.Logger
}

func NewDeckService(deckRepo repository.DeckRepository, logger *zap.Logger) *DeckService {
	return &DeckService{deckRepo: deckRepo, logger: logger}
}

// FormatDeck turns "word:translation" lines into a deck without saving it
func (s *DeckService) FormatDeck(language, text string) (*domain.Deck, error) {
	if strings.TrimSpace(language) == "" {
		return nil, ErrEmptyLanguage
	}
	deck := domain.ParseDeckText(language, text)
	if len(deck.Entries) == 0 {
		return nil, ErrEmptyDeck
	}
	return deck, nil
}

// SaveDeck stores a new deck
func (s *DeckService) SaveDeck(ctx context.Context, deck *domain.Deck) error {
	err := s.deckRepo.InsertDeck(ctx, deck)
	if errors.Is(err, repository.ErrDuplicate) {
		return ErrDeckExists
	}
	if err != nil {
		return err
	}

	s.logger.Info("Deck saved",
		zap.String("language", deck.Language),
		zap.Int("entries", len(deck.Entries)),
	)
	return nil
}

// GetDeck returns the deck for language
func (s *DeckService) GetDeck(ctx context.Context, language string) (*domain.Deck, error) {
	deck, err := s.deckRepo.GetDeck(ctx, strings.TrimSpace(language))
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, ErrDeckNotFound
	}
	return deck, nil
}

// ListDecks returns every deck
func (s *DeckService) ListDecks(ctx context.Context) ([]domain.Deck, error) {
	return s.deckRepo.ListDecks(ctx)
}

// MergeCards adds pairs to the language deck, creating it if needed.
// A word already in the deck takes the new translation.
func (s *DeckService) MergeCards(ctx context.Context, language string, pairs []domain.CardPair) (*domain.Deck, error) {
	language = strings.TrimSpace(language)
	if language == "" {
		return nil, ErrEmptyLanguage
	}
	if len(pairs) == 0 {
		return nil, ErrNothingToSave
	}

	deck, err := s.deckRepo.GetDeck(ctx, language)
	if err != nil {
		return nil, err
	}

	if deck == nil {
		deck = domain.NewDeck(language)
		deck.Merge(pairs)
		err = s.deckRepo.InsertDeck(ctx, deck)
		if errors.Is(err, repository.ErrDuplicate) {
			// created by a concurrent save; merge into that one instead
			deck, err = s.mergeExisting(ctx, language, pairs)
		}
	} else {
		deck.Merge(pairs)
		err = s.deckRepo.UpdateDeck(ctx, deck)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("Cards merged into deck",
		zap.String("language", language),
		zap.Int("added", len(pairs)),
		zap.Int("entries", len(deck.Entries)),
	)
	return deck, nil
}

func (s *DeckService) mergeExisting(ctx context.Context, language string, pairs []domain.CardPair) (*domain.Deck, error) {
	deck, err := s.deckRepo.GetDeck(ctx, language)
	if err != nil {
		return nil, err
	}
	if deck == nil {
		return nil, ErrDeckNotFound
	}
	deck.Merge(pairs)
	if err := s.deckRepo.UpdateDeck(ctx, deck); err != nil {
		return nil, err
	}
	return deck, nil
}
