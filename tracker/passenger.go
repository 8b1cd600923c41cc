/*
passenger.go - Per-passenger tier state machine

PURPOSE:
  A Passenger accumulates flight and cancellation counts, accrues mileage at
  the rate of the tier it currently holds, and climbs the base ladder as
  soon as its cancelled-flight count reaches the next entry threshold.

STATE MACHINE:
  NoTier --(cancelled>=25)--> Gold --(cancelled>=50)--> Platinum --(cancelled>=100)--> ExecutivePlatinum
  Platinum          --(year end, 0 complaints)--> PlatinumPro
  ExecutivePlatinum --(year end, 0 complaints)--> SuperExecutivePlatinum

  Transitions only move up. Promotion tiers are terminal.

MILEAGE:
  Every cancelled flight earns the current tier's rate. Mileage earned under
  an earlier tier is frozen at the transition and never recomputed, with one
  exception: the year-end promotion re-seeds mileage as
  cancelledFlights x 2000 over the whole year.

SEE ALSO:
  - tier/ladder.go: Thresholds and rates
  - tracker.go: Owns the year-end phase and the passenger registry
*/
package tracker

import (
	"github.com/warp/cancellation-rewards/tier"
)

// Passenger is the mutable record for one passenger id. It is created on
// first sighting and lives for the rest of the run.
type Passenger struct {
	id               string
	current          tier.Variant
	totalFlights     int
	cancelledFlights int
	miles            int
	complaints       int

	lastCancelled bool // most recent flight was cancelled
	closed        bool // year-end pass has evaluated this record
}

// NewPassenger returns a passenger with no flights in NoTier.
func NewPassenger(id string) *Passenger {
	return &Passenger{id: id, current: tier.NoTier}
}

// =============================================================================
// MUTATIONS
// =============================================================================

// RecordFlight counts one flight and, if it was cancelled, accrues mileage
// at the current tier's rate before checking for a tier upgrade.
// It reports whether the passenger changed tier.
func (p *Passenger) RecordFlight(cancelled bool) bool {
	p.totalFlights++
	p.lastCancelled = cancelled
	if !cancelled {
		return false
	}

	p.cancelledFlights++
	p.miles += p.current.MilesPerCancelledFlight()
	return p.upgrade()
}

// upgrade steps up the base ladder while the cancelled count qualifies.
// With one flight per call at most one threshold is newly crossed, so the
// count equals the new tier's threshold exactly at the transition.
func (p *Passenger) upgrade() bool {
	changed := false
	for p.current.IsBase() {
		next, ok := p.current.Next()
		if !ok || p.cancelledFlights < next.EntryThreshold() {
			break
		}
		p.current = next
		changed = true
	}
	return changed
}

// RecordComplaint counts a complaint about the flight just recorded.
func (p *Passenger) RecordComplaint() {
	p.complaints++
}

// closeYear runs the one-time year-end evaluation. A second call is a no-op.
// It reports whether the passenger was promoted.
func (p *Passenger) closeYear() bool {
	if p.closed {
		return false
	}
	p.closed = true

	if !p.qualifies() {
		return false
	}
	promo, ok := p.current.Promotion()
	if !ok {
		return false
	}
	p.current = promo
	// Retroactive over the whole year, unlike ordinary transitions.
	p.miles = p.cancelledFlights * promo.MilesPerCancelledFlight()
	return true
}

func (p *Passenger) qualifies() bool {
	return p.current.EarnsMultiplier() && p.complaints == 0
}

// =============================================================================
// QUERIES
// =============================================================================

func (p *Passenger) ID() string                { return p.id }
func (p *Passenger) Tier() tier.Variant        { return p.current }
func (p *Passenger) TierName() string          { return p.current.String() }
func (p *Passenger) Miles() int                { return p.miles }
func (p *Passenger) CancelledFlights() int     { return p.cancelledFlights }
func (p *Passenger) TotalFlights() int         { return p.totalFlights }
func (p *Passenger) Complaints() int           { return p.complaints }
func (p *Passenger) LastFlightCancelled() bool { return p.lastCancelled }

// HasMultiplier is false until the year-end pass has evaluated the record.
func (p *Passenger) HasMultiplier() bool {
	return p.closed && p.qualifies()
}

// Record returns a read-only copy of the passenger's state.
func (p *Passenger) Record() Record {
	return Record{
		ID:               p.id,
		Tier:             p.current,
		TotalFlights:     p.totalFlights,
		CancelledFlights: p.cancelledFlights,
		Miles:            p.miles,
		Complaints:       p.complaints,
		HasMultiplier:    p.HasMultiplier(),
	}
}

// Record is a snapshot of a passenger handed to display and export layers.
type Record struct {
	ID               string       `json:"id" yaml:"id"`
	Tier             tier.Variant `json:"tier" yaml:"tier"`
	TotalFlights     int          `json:"total_flights" yaml:"total_flights"`
	CancelledFlights int          `json:"cancelled_flights" yaml:"cancelled_flights"`
	Miles            int          `json:"miles" yaml:"miles"`
	Complaints       int          `json:"complaints" yaml:"complaints"`
	HasMultiplier    bool         `json:"has_multiplier" yaml:"has_multiplier"`
}
