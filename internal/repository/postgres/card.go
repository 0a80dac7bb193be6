package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"flashdeck/internal/domain"
	"flashdeck/internal/repository"

	"github.com/lib/pq"
)

// DefaultCardTable is the shared card table created by the migrations
const DefaultCardTable = "flashcards"

// CardRepo implements repository.CardRepository over one card table
type CardRepo struct {
	db    *sql.DB
	table string
}

// NewCardRepo creates a card repository reading and writing table
func NewCardRepo(db *sql.DB, table string) (*CardRepo, error) {
	if table == "" {
		table = DefaultCardTable
	}
	if !domain.ValidIdentifier(table) {
		return nil, fmt.Errorf("invalid card table name %q", table)
	}
	return &CardRepo{db: db, table: pq.QuoteIdentifier(table)}, nil
}

// ListCards returns every card ordered by id
func (r *CardRepo) ListCards(ctx context.Context) ([]domain.Card, error) {
	query := fmt.Sprintf(`SELECT id, front, back, created_at FROM %s ORDER BY id`, r.table)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	defer rows.Close()

	var cards []domain.Card
	for rows.Next() {
		var c domain.Card
		var front, back sql.NullString
		var createdAt sql.NullTime
		if err := rows.Scan(&c.ID, &front, &back, &createdAt); err != nil {
			return nil, fmt.Errorf("scan card: %w", err)
		}
		c.Front, c.Back = front.String, back.String
		if createdAt.Valid {
			c.CreatedAt = createdAt.Time
		}
		cards = append(cards, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list cards: %w", err)
	}
	return cards, nil
}

// AddCard inserts a card and returns it with its id
func (r *CardRepo) AddCard(ctx context.Context, front, back string) (*domain.Card, error) {
	query := fmt.Sprintf(`
		INSERT INTO %s (front, back)
		VALUES ($1, $2)
		RETURNING id, created_at
	`, r.table)

	c := domain.Card{Front: front, Back: back}
	if err := r.db.QueryRowContext(ctx, query, front, back).Scan(&c.ID, &c.CreatedAt); err != nil {
		return nil, fmt.Errorf("add card: %w", err)
	}
	return &c, nil
}

// UpdateCard rewrites the front and back of the card with card.ID
func (r *CardRepo) UpdateCard(ctx context.Context, card domain.Card) error {
	query := fmt.Sprintf(`UPDATE %s SET front = $1, back = $2 WHERE id = $3`, r.table)

	res, err := r.db.ExecContext(ctx, query, card.Front, card.Back, card.ID)
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update card: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update card %d: %w", card.ID, repository.ErrNotFound)
	}
	return nil
}
