/*
Package tracker is the stateful core of the cancellation rewards engine.

PURPOSE:
  Holds one Passenger per distinct id, applies flight events to them in
  input order, and runs the single year-end multiplier pass. The Tracker
  owns the year-end phase flag; there is no process-wide state.

PHASES:
  Open:       RecordFlight / RecordComplaint / Apply mutate records.
  YearEnded:  EndYear has run. Mutations return ErrYearEnded, queries report
              final tiers and multiplier status.

ORDERING:
  Events for one passenger must arrive in their original relative order.
  Records never read each other, so interleaving across passengers does not
  change the outcome. EndYear is a barrier: call it once, after every event.

CONCURRENCY:
  Writes are expected from one ingestion loop. Reads take a read lock so the
  HTTP lookup surface can serve them concurrently.

EXAMPLE:
  t := tracker.New()
  _ = t.Apply(tracker.FlightEvent{PassengerID: "1001", Cancelled: true})
  result := t.EndYear()
  rec, ok := t.Lookup("1001")

SEE ALSO:
  - passenger.go: Per-record transitions
  - ingest/loader.go: Feeds events and signals year end
*/
package tracker

import (
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/warp/cancellation-rewards/tier"
)

// =============================================================================
// EVENTS AND RESULTS
// =============================================================================

// FlightEvent is one input record. Complained is only meaningful when
// Cancelled is true.
type FlightEvent struct {
	PassengerID string
	Cancelled   bool
	Complained  bool
	Line        int // source line, 0 when not read from a file
}

// Promotion describes one year-end multiplier promotion.
type Promotion struct {
	PassengerID string       `json:"passenger_id"`
	From        tier.Variant `json:"from"`
	To          tier.Variant `json:"to"`
	MilesBefore int          `json:"miles_before"`
	MilesAfter  int          `json:"miles_after"`
}

// YearEndResult summarises an EndYear call.
type YearEndResult struct {
	AlreadyEnded bool
	Evaluated    int
	Promotions   []Promotion
}

// =============================================================================
// TRACKER
// =============================================================================

// Tracker is the passenger registry plus the year-end phase flag.
type Tracker struct {
	mu         sync.RWMutex
	passengers map[string]*Passenger
	yearEnded  bool
	logger     *zap.Logger
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithLogger sets the logger used for tier transitions and the year-end pass.
func WithLogger(l *zap.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// New returns an empty tracker in the open phase.
func New(opts ...Option) *Tracker {
	t := &Tracker{
		passengers: make(map[string]*Passenger),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RecordFlight applies one flight to the passenger, creating the record on
// first sighting.
func (t *Tracker) RecordFlight(id string, cancelled bool) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recordFlightLocked(id, cancelled)
}

func (t *Tracker) recordFlightLocked(id string, cancelled bool) error {
	if t.yearEnded {
		return ErrYearEnded
	}

	p, ok := t.passengers[id]
	if !ok {
		p = NewPassenger(id)
		t.passengers[id] = p
	}

	from := p.Tier()
	if p.RecordFlight(cancelled) {
		t.logger.Debug("tier upgraded",
			zap.String("passenger_id", id),
			zap.Stringer("from", from),
			zap.Stringer("to", p.Tier()),
			zap.Int("cancelled_flights", p.CancelledFlights()),
		)
	}
	return nil
}

// RecordComplaint registers a complaint about the passenger's most recent
// flight, which must have been cancelled.
func (t *Tracker) RecordComplaint(id string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.recordComplaintLocked(id)
}

func (t *Tracker) recordComplaintLocked(id string) error {
	if t.yearEnded {
		return ErrYearEnded
	}

	p, ok := t.passengers[id]
	if !ok {
		return &ComplaintError{PassengerID: id, Reason: "no flights recorded"}
	}
	if !p.LastFlightCancelled() {
		return &ComplaintError{PassengerID: id, Reason: "last flight was not cancelled"}
	}
	p.RecordComplaint()
	return nil
}

// Apply records the flight and, for a cancelled flight the passenger
// complained about, the complaint. Both happen under one lock.
func (t *Tracker) Apply(ev FlightEvent) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if err := t.recordFlightLocked(ev.PassengerID, ev.Cancelled); err != nil {
		return err
	}
	if ev.Cancelled && ev.Complained {
		return t.recordComplaintLocked(ev.PassengerID)
	}
	return nil
}

// EndYear closes the year and promotes every qualifying passenger. It runs
// at most once; later calls change nothing and report AlreadyEnded.
func (t *Tracker) EndYear() YearEndResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.yearEnded {
		return YearEndResult{AlreadyEnded: true}
	}
	t.yearEnded = true

	result := YearEndResult{Evaluated: len(t.passengers)}
	for _, id := range t.sortedIDsLocked() {
		p := t.passengers[id]
		from, before := p.Tier(), p.Miles()
		if !p.closeYear() {
			continue
		}
		result.Promotions = append(result.Promotions, Promotion{
			PassengerID: id,
			From:        from,
			To:          p.Tier(),
			MilesBefore: before,
			MilesAfter:  p.Miles(),
		})
	}

	t.logger.Info("year ended",
		zap.Int("passengers", result.Evaluated),
		zap.Int("promoted", len(result.Promotions)),
	)
	return result
}

// =============================================================================
// QUERIES
// =============================================================================

// YearEnded reports whether EndYear has run.
func (t *Tracker) YearEnded() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.yearEnded
}

// Len returns the number of distinct passengers seen.
func (t *Tracker) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.passengers)
}

// Lookup returns a snapshot of the passenger, or false if the id was never seen.
func (t *Tracker) Lookup(id string) (Record, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	p, ok := t.passengers[id]
	if !ok {
		return Record{}, false
	}
	return p.Record(), true
}

// Get is Lookup with an error for unknown ids.
func (t *Tracker) Get(id string) (Record, error) {
	rec, ok := t.Lookup(id)
	if !ok {
		return Record{}, ErrPassengerNotFound
	}
	return rec, nil
}

// Records returns snapshots of every passenger ordered by id.
func (t *Tracker) Records() []Record {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := t.sortedIDsLocked()
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		out = append(out, t.passengers[id].Record())
	}
	return out
}

func (t *Tracker) sortedIDsLocked() []string {
	ids := make([]string, 0, len(t.passengers))
	for id := range t.passengers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
