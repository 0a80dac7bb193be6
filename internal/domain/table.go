package domain

import (
	"fmt"
	"regexp"
	"strings"
)

const defaultTableBase = "the_users_mail"

var (
	nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)
	identifierRe    = regexp.MustCompile(`^[a-z0-9_]+$`)
)

// CardTableName derives the per-user card table name from an email address
func CardTableName(email string) string {
	base := defaultTableBase
	if email != "" {
		base = nonAlphanumeric.ReplaceAllString(strings.ToLower(email), "_")
	}
	return base + "_flashcards"
}

// ValidIdentifier reports whether name is a lower-case table name that fits
// the Postgres identifier limit. Names are always quoted when used.
func ValidIdentifier(name string) bool {
	return len(name) <= 63 && identifierRe.MatchString(name)
}

// CreateCardTableSQL returns the statement that creates a card table
func CreateCardTableSQL(table string) string {
	return fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
  id serial PRIMARY KEY,
  front text,
  back text,
  created_at timestamptz DEFAULT now()
);`, table)
}
