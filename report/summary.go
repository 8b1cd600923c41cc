package report

import (
	"fmt"
	"io"

	"github.com/shopspring/decimal"

	"github.com/warp/cancellation-rewards/tier"
	"github.com/warp/cancellation-rewards/tracker"
)

// =============================================================================
// SUMMARY - Aggregate view over all passengers
// =============================================================================

// TierCount is the number of passengers holding one tier.
type TierCount struct {
	Tier       tier.Variant `json:"tier" yaml:"tier"`
	Passengers int          `json:"passengers" yaml:"passengers"`
}

// Summary aggregates a set of records. Averages use decimal arithmetic and
// are rounded to two places.
type Summary struct {
	Passengers        int             `json:"passengers" yaml:"passengers"`
	ByTier            []TierCount     `json:"by_tier" yaml:"by_tier"`
	TotalFlights      int             `json:"total_flights" yaml:"total_flights"`
	CancelledFlights  int             `json:"cancelled_flights" yaml:"cancelled_flights"`
	TotalMiles        int64           `json:"total_miles" yaml:"total_miles"`
	AverageMiles      decimal.Decimal `json:"average_miles" yaml:"average_miles"`
	CancellationRate  decimal.Decimal `json:"cancellation_rate_pct" yaml:"cancellation_rate_pct"`
	MultiplierHolders int             `json:"multiplier_holders" yaml:"multiplier_holders"`
	MultiplierShare   decimal.Decimal `json:"multiplier_share_pct" yaml:"multiplier_share_pct"`
}

var hundred = decimal.NewFromInt(100)

// Summarize computes a Summary. ByTier lists every tier in ladder order,
// including empty ones.
func Summarize(recs []tracker.Record) Summary {
	counts := make(map[tier.Variant]int)
	s := Summary{Passengers: len(recs)}

	for _, r := range recs {
		counts[r.Tier]++
		s.TotalFlights += r.TotalFlights
		s.CancelledFlights += r.CancelledFlights
		s.TotalMiles += int64(r.Miles)
		if r.HasMultiplier {
			s.MultiplierHolders++
		}
	}

	for _, v := range tier.All() {
		s.ByTier = append(s.ByTier, TierCount{Tier: v, Passengers: counts[v]})
	}

	s.AverageMiles = ratio(decimal.NewFromInt(s.TotalMiles), s.Passengers, decimal.NewFromInt(1))
	s.CancellationRate = ratio(decimal.NewFromInt(int64(s.CancelledFlights)), s.TotalFlights, hundred)
	s.MultiplierShare = ratio(decimal.NewFromInt(int64(s.MultiplierHolders)), s.Passengers, hundred)
	return s
}

// ratio returns num/den*scale rounded to two places, or zero when den is 0.
func ratio(num decimal.Decimal, den int, scale decimal.Decimal) decimal.Decimal {
	if den == 0 {
		return decimal.Zero
	}
	return num.Mul(scale).Div(decimal.NewFromInt(int64(den))).Round(2)
}

// WriteSummary renders a Summary.
func WriteSummary(w io.Writer, s Summary, format Format) error {
	if format != FormatText && format != "" {
		return encode(w, s, format)
	}

	if _, err := fmt.Fprintf(w, "Passengers: %d\n", s.Passengers); err != nil {
		return err
	}
	for _, tc := range s.ByTier {
		if _, err := fmt.Fprintf(w, "  %-26s %d\n", tc.Tier.DisplayName()+":", tc.Passengers); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w,
		"Total flights: %d\nCancelled flights: %d (%s%%)\nTotal miles: %d\nAverage miles: %s\nMileage multiplier: %d (%s%%)\n",
		s.TotalFlights,
		s.CancelledFlights, s.CancellationRate.StringFixed(2),
		s.TotalMiles,
		s.AverageMiles.StringFixed(2),
		s.MultiplierHolders, s.MultiplierShare.StringFixed(2),
	)
	return err
}
