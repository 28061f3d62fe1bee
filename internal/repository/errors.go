package repository

import (
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code)
	}
	return ""
}

func isUniqueViolation(err error) bool {
	return pqCode(err) == pqUniqueViolation
}

func isForeignKeyViolation(err error) bool {
	return pqCode(err) == pqForeignKeyViolation
}

// validID reports whether id can be compared against a UUID column. Anything
// else cannot match a row and would make PostgreSQL reject the query.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func allValidIDs(ids []string) bool {
	for _, id := range ids {
		if !validID(id) {
			return false
		}
	}
	return true
}
