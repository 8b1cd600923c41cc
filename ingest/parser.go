/*
Package ingest turns flight-record text into tracker events.

PURPOSE:
  Parses one flight per line and feeds the events to the tracker in input
  order, then signals year end exactly once. Malformed lines are rejected
  here, before the tracker ever sees them.

LINE FORMAT:
  <passengerId> <cancelled> [<complained>]

  passengerId  any non-blank token
  cancelled    Y or N
  complained   Y or N; required when cancelled is Y. When cancelled is N
               it may be omitted, and if present must be N.

  1001 Y N     cancelled, no complaint
  1001 Y Y     cancelled, complained
  1002 N       completed flight

SEE ALSO:
  - loader.go: Streams a file through the parser into the tracker
  - tracker/tracker.go: FlightEvent consumer
*/
package ingest

import (
	"errors"
	"fmt"
	"strings"

	"github.com/warp/cancellation-rewards/tracker"
)

// =============================================================================
// ERRORS
// =============================================================================

// ErrMalformedRecord is the sentinel wrapped by every MalformedRecordError.
var ErrMalformedRecord = errors.New("malformed record")

// MalformedRecordError describes a line that could not be parsed.
type MalformedRecordError struct {
	Line   int
	Text   string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed record at line %d: %s (%q)", e.Line, e.Reason, e.Text)
	}
	return fmt.Sprintf("malformed record: %s (%q)", e.Reason, e.Text)
}

func (e *MalformedRecordError) Unwrap() error {
	return ErrMalformedRecord
}

// =============================================================================
// PARSER
// =============================================================================

// ParseLine parses a single non-blank record. The returned event has Line 0;
// callers reading files set it.
func ParseLine(text string) (tracker.FlightEvent, error) {
	malformed := func(reason string) error {
		return &MalformedRecordError{Text: text, Reason: reason}
	}

	fields := strings.Fields(text)
	if len(fields) < 2 {
		return tracker.FlightEvent{}, malformed("expected passenger id and cancelled flag")
	}
	if len(fields) > 3 {
		return tracker.FlightEvent{}, malformed("too many fields")
	}

	cancelled, ok := parseFlag(fields[1])
	if !ok {
		return tracker.FlightEvent{}, malformed("cancelled flag must be Y or N")
	}

	ev := tracker.FlightEvent{PassengerID: fields[0], Cancelled: cancelled}

	if len(fields) == 2 {
		if cancelled {
			return tracker.FlightEvent{}, malformed("cancelled flight needs a complaint flag")
		}
		return ev, nil
	}

	complained, ok := parseFlag(fields[2])
	if !ok {
		return tracker.FlightEvent{}, malformed("complaint flag must be Y or N")
	}
	if complained && !cancelled {
		return tracker.FlightEvent{}, malformed("complaint on a flight that was not cancelled")
	}
	ev.Complained = complained
	return ev, nil
}

func parseFlag(s string) (value bool, ok bool) {
	switch s {
	case "Y", "y":
		return true, true
	case "N", "n":
		return false, true
	default:
		return false, false
	}
}
