package ingest

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"github.com/warp/cancellation-rewards/tracker"
)

// =============================================================================
// READER - Streams events from text
// =============================================================================

// Reader yields one FlightEvent per non-blank line.
type Reader struct {
	scanner *bufio.Scanner
	line    int
}

func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next returns the next event, io.EOF at end of input, or a
// *MalformedRecordError for a bad line. Reading may continue after a
// malformed line.
func (r *Reader) Next() (tracker.FlightEvent, error) {
	for r.scanner.Scan() {
		r.line++
		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}

		ev, err := ParseLine(text)
		if err != nil {
			var mre *MalformedRecordError
			if errors.As(err, &mre) {
				mre.Line = r.line
			}
			return tracker.FlightEvent{}, err
		}
		ev.Line = r.line
		return ev, nil
	}
	if err := r.scanner.Err(); err != nil {
		return tracker.FlightEvent{}, fmt.Errorf("read flight records: %w", err)
	}
	return tracker.FlightEvent{}, io.EOF
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int { return r.line }

// =============================================================================
// LOADER - Applies a whole year then closes it
// =============================================================================

// Sink receives flight events and the year-end signal.
type Sink interface {
	Apply(ev tracker.FlightEvent) error
	EndYear() tracker.YearEndResult
}

// Options controls Load.
type Options struct {
	// SkipMalformed logs and skips bad lines instead of stopping.
	SkipMalformed bool
	Logger        *zap.Logger
}

// Stats summarises a Load.
type Stats struct {
	Lines   int
	Events  int
	Skipped int
	YearEnd tracker.YearEndResult
}

// Load applies every record in r to sink and then calls EndYear once.
// On error EndYear is not called, so no promotion is evaluated on a
// partial year.
func Load(ctx context.Context, r io.Reader, sink Sink, opts Options) (Stats, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var stats Stats
	reader := NewReader(r)
	for {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		ev, err := reader.Next()
		stats.Lines = reader.Line()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if opts.SkipMalformed && errors.Is(err, ErrMalformedRecord) {
				stats.Skipped++
				logger.Warn("skipping malformed record", zap.Error(err))
				continue
			}
			return stats, err
		}

		if err := sink.Apply(ev); err != nil {
			return stats, fmt.Errorf("line %d: %w", ev.Line, err)
		}
		stats.Events++
	}

	stats.YearEnd = sink.EndYear()
	logger.Info("flight records loaded",
		zap.Int("lines", stats.Lines),
		zap.Int("events", stats.Events),
		zap.Int("skipped", stats.Skipped),
		zap.Int("promoted", len(stats.YearEnd.Promotions)),
	)
	return stats, nil
}
