/*
errors.go - Error types for the passenger tracker

PURPOSE:
  The tier state machine itself is total: every reachable combination of
  counts has a defined transition. Errors only arise when a caller breaks
  the tracker's contract (complaining about a flight that was not
  cancelled, or feeding flights after the year has been closed).

USAGE:
  if errors.Is(err, tracker.ErrYearEnded) {
      // ingestion ran past the year-end barrier
  }

SEE ALSO:
  - tracker.go: Returns these errors
  - ingest/parser.go: MalformedRecordError for bad input lines
*/
package tracker

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrYearEnded is returned when a flight or complaint arrives after
	// EndYear. Promotion must run on a fully-updated record set.
	ErrYearEnded = errors.New("year already ended")

	// ErrComplaintWithoutCancellation is returned when a complaint is recorded
	// for a passenger whose most recent flight was not cancelled.
	ErrComplaintWithoutCancellation = errors.New("complaint without a cancelled flight")

	// ErrPassengerNotFound is returned by Get for unknown ids.
	ErrPassengerNotFound = errors.New("passenger not found")
)

// =============================================================================
// STRUCTURED ERRORS
// =============================================================================

// ComplaintError carries the passenger the rejected complaint was for.
type ComplaintError struct {
	PassengerID string
	Reason      string
}

func (e *ComplaintError) Error() string {
	return fmt.Sprintf("complaint rejected for passenger %s: %s", e.PassengerID, e.Reason)
}

func (e *ComplaintError) Unwrap() error {
	return ErrComplaintWithoutCancellation
}
