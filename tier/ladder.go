/*
Package tier defines the reward ladder passengers climb as the airline
cancels their flights.

PURPOSE:
  A pure, stateless lookup table. Each Variant carries two constants: the
  cumulative cancelled-flight count needed to hold it and the mileage earned
  per cancelled flight while holding it. There is no mutable state here; the
  tracker package owns all per-passenger transitions.

THE LADDER:
  Variant                 Entry                    Miles/cancelled flight
  NoTier                  0                        1000
  Gold                    25                       1000
  Platinum                50                       1000
  ExecutivePlatinum       100                      1000
  PlatinumPro             from Platinum            2000
  SuperExecutivePlatinum  from ExecutivePlatinum   2000

BASE vs PROMOTION:
  Base tiers (NoTier < Gold < Platinum < ExecutivePlatinum) are strictly
  ordered by entry threshold and reached by cancellation count alone.
  Promotion tiers are reached only at year end, each from exactly one base
  tier, and are terminal.

EXAMPLE:
  next, ok := tier.Gold.Next()          // Platinum, true
  promo, ok := tier.Platinum.Promotion() // PlatinumPro, true
  tier.PlatinumPro.MilesPerCancelledFlight() // 2000

SEE ALSO:
  - tracker/passenger.go: Applies the ladder to a passenger record
*/
package tier

import (
	"fmt"
)

// =============================================================================
// VARIANT
// =============================================================================

// Variant is one rung of the reward ladder. The zero value is NoTier.
type Variant int

const (
	NoTier Variant = iota
	Gold
	Platinum
	ExecutivePlatinum
	PlatinumPro
	SuperExecutivePlatinum
)

// Mileage rates in miles per cancelled flight.
const (
	BaseRate       = 1000
	MultiplierRate = 2000
)

// Rung holds the constant attributes of a Variant.
type Rung struct {
	Name                    string
	DisplayName             string
	EntryThreshold          int
	MilesPerCancelledFlight int

	base       bool
	next       Variant // next base tier; only meaningful when hasNext
	hasNext    bool
	promotion  Variant // year-end target; only meaningful when canPromote
	canPromote bool
}

// ladder is indexed by Variant.
var ladder = [...]Rung{
	NoTier: {
		Name: "NoTier", DisplayName: "None",
		EntryThreshold: 0, MilesPerCancelledFlight: BaseRate,
		base: true, next: Gold, hasNext: true,
	},
	Gold: {
		Name: "Gold", DisplayName: "Gold",
		EntryThreshold: 25, MilesPerCancelledFlight: BaseRate,
		base: true, next: Platinum, hasNext: true,
	},
	Platinum: {
		Name: "Platinum", DisplayName: "Platinum",
		EntryThreshold: 50, MilesPerCancelledFlight: BaseRate,
		base: true, next: ExecutivePlatinum, hasNext: true,
		promotion: PlatinumPro, canPromote: true,
	},
	ExecutivePlatinum: {
		Name: "ExecutivePlatinum", DisplayName: "Executive Platinum",
		EntryThreshold: 100, MilesPerCancelledFlight: BaseRate,
		base: true,
		promotion: SuperExecutivePlatinum, canPromote: true,
	},
	// Promotion tiers report the threshold of the base tier they come from.
	PlatinumPro: {
		Name: "PlatinumPro", DisplayName: "Platinum Pro",
		EntryThreshold: 50, MilesPerCancelledFlight: MultiplierRate,
	},
	SuperExecutivePlatinum: {
		Name: "SuperExecutivePlatinum", DisplayName: "Super Executive Platinum",
		EntryThreshold: 100, MilesPerCancelledFlight: MultiplierRate,
	},
}

var unknownRung = Rung{Name: "Unknown", DisplayName: "Unknown"}

// All returns every variant in ladder order.
func All() []Variant {
	return []Variant{NoTier, Gold, Platinum, ExecutivePlatinum, PlatinumPro, SuperExecutivePlatinum}
}

// Lookup returns the constant attributes of v.
func Lookup(v Variant) Rung {
	if !v.Valid() {
		return unknownRung
	}
	return ladder[v]
}

func (v Variant) Valid() bool { return v >= NoTier && int(v) < len(ladder) }

func (v Variant) String() string               { return Lookup(v).Name }
func (v Variant) DisplayName() string          { return Lookup(v).DisplayName }
func (v Variant) EntryThreshold() int          { return Lookup(v).EntryThreshold }
func (v Variant) MilesPerCancelledFlight() int { return Lookup(v).MilesPerCancelledFlight }

// IsBase reports whether v is reachable by cancellation count alone.
func (v Variant) IsBase() bool { return Lookup(v).base }

// IsTerminal reports whether no further transition leaves v.
func (v Variant) IsTerminal() bool {
	r := Lookup(v)
	return !r.hasNext && !r.canPromote
}

// Next returns the base tier above v. ExecutivePlatinum and the promotion
// tiers have none.
func (v Variant) Next() (Variant, bool) {
	r := Lookup(v)
	return r.next, r.hasNext
}

// Promotion returns the year-end multiplier tier for v, if any.
func (v Variant) Promotion() (Variant, bool) {
	r := Lookup(v)
	return r.promotion, r.canPromote
}

// EarnsMultiplier reports whether a complaint-free passenger in v holds the
// mileage multiplier at year end. NoTier and Gold never do.
func (v Variant) EarnsMultiplier() bool {
	return v.Valid() && v != NoTier && v != Gold
}

// =============================================================================
// TEXT ENCODING
// =============================================================================

// ParseVariant accepts the canonical name (e.g. "ExecutivePlatinum").
func ParseVariant(s string) (Variant, error) {
	for _, v := range All() {
		if ladder[v].Name == s {
			return v, nil
		}
	}
	return NoTier, fmt.Errorf("unknown tier %q", s)
}

// MarshalText implements encoding.TextMarshaler, used by both JSON and YAML.
func (v Variant) MarshalText() ([]byte, error) {
	if !v.Valid() {
		return nil, fmt.Errorf("invalid tier %d", int(v))
	}
	return []byte(v.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (v *Variant) UnmarshalText(data []byte) error {
	parsed, err := ParseVariant(string(data))
	if err != nil {
		return err
	}
	*v = parsed
	return nil
}
