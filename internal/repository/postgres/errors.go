package postgres

import (
	"errors"

	"flashdeck/internal/repository"

	"github.com/lib/pq"
)

const uniqueViolation = "23505"

// translateError maps driver errors onto repository errors
func translateError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return repository.ErrDuplicate
	}
	return err
}
