package tipservice

import (
	"errors"
	"fmt"

	tipdomain "github.com/tipcircle/tipboard/app/modules/tip/domain"
)

var (
	// ErrTipNotFound is returned when the referenced tip does not exist.
	// Not retryable; surfaced to the caller as-is.
	ErrTipNotFound = errors.New("tip not found")

	// ErrMissingAdmin is returned when a verification carries no acting
	// admin identifier. Authorization itself is an external concern; the
	// engine only requires that an identity was supplied.
	ErrMissingAdmin = errors.New("admin id is required")
)

// InvalidStatusError is returned when a verification requests a status
// outside the terminal set. This is a programmer error on the caller's
// side and is never retried.
type InvalidStatusError struct {
	Status tipdomain.TipStatus
}

func (e *InvalidStatusError) Error() string {
	return fmt.Sprintf("status %q is not a valid verification outcome", e.Status)
}

// StoreUnavailableError wraps a transient store failure (timeout,
// connectivity). Safe to retry with backoff at the caller's discretion;
// the engine performs no automatic retry to avoid duplicate side effects.
type StoreUnavailableError struct {
	Op  string
	Err error
}

func (e *StoreUnavailableError) Error() string {
	return fmt.Sprintf("store unavailable during %s: %v", e.Op, e.Err)
}

func (e *StoreUnavailableError) Unwrap() error {
	return e.Err
}
