package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"
)

// DeckRepo implements repository.DeckRepository. Each deck is one row whose
// entries column holds the JSON word -> translation object.
type DeckRepo struct {
	db *sql.DB
}

func NewDeckRepo(db *sql.DB) *DeckRepo {
	return &DeckRepo{db: db}
}

// ListDecks returns every deck ordered by language
func (r *DeckRepo) ListDecks(ctx context.Context) ([]domain.Deck, error) {
	query := `SELECT language, entries FROM decks ORDER BY language`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	defer rows.Close()

	var decks []domain.Deck
	for rows.Next() {
		var language, data string
		if err := rows.Scan(&language, &data); err != nil {
			return nil, fmt.Errorf("scan deck: %w", err)
		}
		entries, err := domain.UnmarshalEntries(data)
		if err != nil {
			return nil, fmt.Errorf("deck %q: %w", language, err)
		}
		decks = append(decks, domain.Deck{Language: language, Entries: entries})
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list decks: %w", err)
	}
	return decks, nil
}

// GetDeck returns the deck for language
func (r *DeckRepo) GetDeck(ctx context.Context, language string) (*domain.Deck, error) {
	var data string
	query := `SELECT entries FROM decks WHERE language = $1`
	err := r.db.QueryRowContext(ctx, query, language).Scan(&data)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get deck: %w", err)
	}

	entries, err := domain.UnmarshalEntries(data)
	if err != nil {
		return nil, fmt.Errorf("deck %q: %w", language, err)
	}
	return &domain.Deck{Language: language, Entries: entries}, nil
}

// InsertDeck stores a new deck. An existing language yields repository.ErrDuplicate.
func (r *DeckRepo) InsertDeck(ctx context.Context, deck *domain.Deck) error {
	data, err := deck.MarshalEntries()
	if err != nil {
		return err
	}

	query := `
		INSERT INTO decks (language, entries)
		VALUES ($1, $2)
	`
	if _, err := r.db.ExecContext(ctx, query, deck.Language, data); err != nil {
		return fmt.Errorf("insert deck: %w", translateError(err))
	}
	return nil
}

// UpdateDeck replaces the entries of an existing deck
func (r *DeckRepo) UpdateDeck(ctx context.Context, deck *domain.Deck) error {
	data, err := deck.MarshalEntries()
	if err != nil {
		return err
	}

	query := `
		UPDATE decks
		SET entries = $1, updated_at = NOW()
		WHERE language = $2
	`
	res, err := r.db.ExecContext(ctx, query, data, deck.Language)
	if err != nil {
		return fmt.Errorf("update deck: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update deck: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update deck %q: %w", deck.Language, repository.ErrNotFound)
	}
	return nil
}
