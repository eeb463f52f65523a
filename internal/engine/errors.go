package engine

import "errors"

// Sentinel errors produced by the booking decision and cancellation
// guards.  Handlers compare with errors.Is and translate each into a
// stable HTTP status plus message.  None of these indicate a storage
// failure; they are terminal business outcomes for the request.
var (
	// ErrWindowClosed means the requested class's booking window is not
	// currently open for the journey departure.
	ErrWindowClosed = errors.New("booking window not open")

	// ErrSoldOut means a tatkal booking was requested with zero tatkal
	// availability.  Tatkal has no waitlist, so the request fails.
	ErrSoldOut = errors.New("no tatkal seats available")

	// ErrAlreadyCancelled means the booking is already in the cancelled
	// state.  Cancelling twice is an error, not a no-op.
	ErrAlreadyCancelled = errors.New("booking already cancelled")

	// ErrNonCancellable means the booking is a confirmed tatkal booking,
	// which cannot be cancelled.
	ErrNonCancellable = errors.New("tatkal booking cannot be cancelled")

	// ErrValidation covers malformed input: reversed segments, unknown
	// station codes, weekday mismatches and past journey dates.  Wrap it
	// with fmt.Errorf("%w: ...") to attach detail.
	ErrValidation = errors.New("validation failed")
)
