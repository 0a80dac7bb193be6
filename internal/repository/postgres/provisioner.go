package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"flashdeck/internal/domain"

	"github.com/lib/pq"
)

// Provisioner implements repository.TableProvisioner
type Provisioner struct {
	db *sql.DB
}

func NewProvisioner(db *sql.DB) *Provisioner {
	return &Provisioner{db: db}
}

// CreateCardTable creates the card table name if it does not exist yet
func (p *Provisioner) CreateCardTable(ctx context.Context, name string) error {
	if !domain.ValidIdentifier(name) {
		return fmt.Errorf("invalid table name %q", name)
	}
	if _, err := p.db.ExecContext(ctx, domain.CreateCardTableSQL(pq.QuoteIdentifier(name))); err != nil {
		return fmt.Errorf("create table %s: %w", name, err)
	}
	return nil
}
