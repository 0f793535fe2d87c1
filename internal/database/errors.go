// Package database contains the sqlx repositories. Sentinel errors defined
// here let the service layer distinguish failure modes without string
// matching: ErrNotFound maps to a missing row, ErrSlotUnavailable to a
// booking conflict detected inside the creation transaction, and
// ErrDuplicate to a unique-constraint violation such as a second review
// for the same booking.
package database

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a requested row does not exist
var ErrNotFound = errors.New("not found")

// ErrSlotUnavailable is returned when the facility already has an active
// booking overlapping the requested slot
var ErrSlotUnavailable = errors.New("slot unavailable")

// ErrDuplicate is returned when an insert violates a uniqueness constraint
var ErrDuplicate = errors.New("duplicate record")

// isUniqueViolation reports whether err is a Postgres unique_violation
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
