package tipdb

import "errors"

// Sentinel errors for the repository layer. These are infrastructure-level
// conditions; the application layer maps them onto its own taxonomy.
var (
	// ErrNotFound indicates the requested record does not exist.
	ErrNotFound = errors.New("not found")

	// ErrNoRowsAffected indicates an UPDATE matched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")
)
