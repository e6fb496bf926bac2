// Package engine defines the error taxonomy shared by the offramp domain
// packages. Every failure in the engine is recoverable at the call site;
// handlers map these sentinels to HTTP status codes.
package engine

import "errors"

var (
	// ErrInvalidAmount is returned for non-positive or otherwise unusable
	// monetary input. The operation must not have mutated any state.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrRateUnavailable means no exchange rate exists for the requested
	// asset pair. A missing rate is never treated as zero.
	ErrRateUnavailable = errors.New("exchange rate unavailable")

	// ErrInvalidTransition is returned when an illegal lifecycle transition
	// is attempted on a transaction or KYC application.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrUnknownCategory is returned when an expense or budget references
	// a category code that is not in the category table.
	ErrUnknownCategory = errors.New("unknown expense category")

	// ErrAlreadyResolved is returned when a settlement is completed or
	// cancelled more than once.
	ErrAlreadyResolved = errors.New("settlement already resolved")

	// ErrPersistenceUnavailable wraps store read/write failures so callers
	// can distinguish them from validation errors and retry.
	ErrPersistenceUnavailable = errors.New("persistence unavailable")
)
