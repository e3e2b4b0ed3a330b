package contracts

import "errors"

// Per-ticker failure taxonomy. All three are non-fatal to a shard: the
// ticker is skipped, an error string is recorded, and the run continues.
var (
	// ErrDataUnavailable means every fetch source was exhausted for a ticker.
	ErrDataUnavailable = errors.New("price data unavailable")

	// ErrInsufficientData means the fetched series is shorter than MinRows.
	ErrInsufficientData = errors.New("insufficient price history")

	// ErrComputeFailed means the whole feature row could not be produced.
	// Individual indicator sub-failures never raise this; they fall back to
	// their documented neutral defaults instead.
	ErrComputeFailed = errors.New("indicator computation failed")
)
