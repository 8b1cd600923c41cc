package tracker_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/cancellation-rewards/tier"
	"github.com/warp/cancellation-rewards/tracker"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

// fly records c cancelled flights followed by (total-c) completed ones.
func fly(t *testing.T, tr *tracker.Tracker, id string, cancelled, total int) {
	t.Helper()
	for i := 0; i < cancelled; i++ {
		require.NoError(t, tr.RecordFlight(id, true))
	}
	for i := cancelled; i < total; i++ {
		require.NoError(t, tr.RecordFlight(id, false))
	}
}

func lookup(t *testing.T, tr *tracker.Tracker, id string) tracker.Record {
	t.Helper()
	rec, ok := tr.Lookup(id)
	require.True(t, ok, "passenger %s should exist", id)
	return rec
}

func expectedBaseTier(c int) tier.Variant {
	switch {
	case c >= 100:
		return tier.ExecutivePlatinum
	case c >= 50:
		return tier.Platinum
	case c >= 25:
		return tier.Gold
	default:
		return tier.NoTier
	}
}

// =============================================================================
// TIER TRANSITIONS
// =============================================================================

func TestTracker_TierFollowsCancelledCount(t *testing.T) {
	// GIVEN: passengers with every cancelled count from 0 to 130
	// WHEN: flights are recorded one at a time, with some completed ones mixed in
	// THEN: tier is decided by the cancelled count alone and miles = c x 1000

	tr := tracker.New()
	for c := 0; c <= 130; c++ {
		id := fmt.Sprintf("p-%03d", c)
		fly(t, tr, id, c, c+c%7)

		rec := lookup(t, tr, id)
		assert.Equal(t, expectedBaseTier(c), rec.Tier, "c=%d", c)
		assert.Equal(t, c*1000, rec.Miles, "c=%d", c)
		assert.Equal(t, c, rec.CancelledFlights)
		assert.Equal(t, c+c%7, rec.TotalFlights)
	}
}

func TestTracker_UpgradeHappensOnThresholdFlight(t *testing.T) {
	// GIVEN: a passenger with 24 cancelled flights
	tr := tracker.New()
	fly(t, tr, "1001", 24, 24)
	assert.Equal(t, tier.NoTier, lookup(t, tr, "1001").Tier)

	// WHEN: the 25th cancelled flight is recorded
	require.NoError(t, tr.RecordFlight("1001", true))

	// THEN: Gold is reached within that same call
	rec := lookup(t, tr, "1001")
	assert.Equal(t, tier.Gold, rec.Tier)
	assert.Equal(t, 25, rec.CancelledFlights)
	assert.Equal(t, 25000, rec.Miles)
}

func TestTracker_CompletedFlightChangesOnlyTotal(t *testing.T) {
	tr := tracker.New()
	fly(t, tr, "1001", 49, 49)

	require.NoError(t, tr.RecordFlight("1001", false))

	rec := lookup(t, tr, "1001")
	assert.Equal(t, tier.Gold, rec.Tier)
	assert.Equal(t, 49, rec.CancelledFlights)
	assert.Equal(t, 50, rec.TotalFlights)
	assert.Equal(t, 49000, rec.Miles)
}

func TestPassenger_QueriesMatchRecord(t *testing.T) {
	p := tracker.NewPassenger("42")
	for i := 0; i < 50; i++ {
		p.RecordFlight(true)
	}
	p.RecordFlight(false)
	p.RecordComplaint()

	assert.Equal(t, "42", p.ID())
	assert.Equal(t, "Platinum", p.TierName())
	assert.Equal(t, 50000, p.Miles())
	assert.Equal(t, 50, p.CancelledFlights())
	assert.Equal(t, 51, p.TotalFlights())
	assert.Equal(t, 1, p.Complaints())
	assert.False(t, p.HasMultiplier(), "no multiplier before year end")
}

// =============================================================================
// YEAR END
// =============================================================================

func TestEndYear_PlatinumWithoutComplaintsPromoted(t *testing.T) {
	// GIVEN: Platinum passenger, 60 cancelled flights, no complaints
	tr := tracker.New()
	fly(t, tr, "1001", 60, 75)
	assert.False(t, lookup(t, tr, "1001").HasMultiplier)

	// WHEN: the year ends
	result := tr.EndYear()

	// THEN: promoted to PlatinumPro with the whole year re-rated at 2000
	rec := lookup(t, tr, "1001")
	assert.Equal(t, tier.PlatinumPro, rec.Tier)
	assert.Equal(t, 120000, rec.Miles)
	assert.True(t, rec.HasMultiplier)

	require.Len(t, result.Promotions, 1)
	assert.Equal(t, tracker.Promotion{
		PassengerID: "1001",
		From:        tier.Platinum,
		To:          tier.PlatinumPro,
		MilesBefore: 60000,
		MilesAfter:  120000,
	}, result.Promotions[0])
}

func TestEndYear_PlatinumWithComplaintStays(t *testing.T) {
	tr := tracker.New()
	fly(t, tr, "1001", 60, 60)
	require.NoError(t, tr.RecordComplaint("1001"))

	tr.EndYear()

	rec := lookup(t, tr, "1001")
	assert.Equal(t, tier.Platinum, rec.Tier)
	assert.Equal(t, 60000, rec.Miles)
	assert.False(t, rec.HasMultiplier)
}

func TestEndYear_ExecutivePlatinumPromoted(t *testing.T) {
	tr := tracker.New()
	fly(t, tr, "2002", 110, 130)

	tr.EndYear()

	rec := lookup(t, tr, "2002")
	assert.Equal(t, tier.SuperExecutivePlatinum, rec.Tier)
	assert.Equal(t, 220000, rec.Miles)
	assert.True(t, rec.HasMultiplier)
}

func TestEndYear_LowTiersNeverEarnMultiplier(t *testing.T) {
	tr := tracker.New()
	fly(t, tr, "no-tier", 24, 30)
	fly(t, tr, "gold", 40, 40)

	tr.EndYear()

	for _, id := range []string{"no-tier", "gold"} {
		rec := lookup(t, tr, id)
		assert.False(t, rec.HasMultiplier, id)
	}
	assert.Equal(t, tier.NoTier, lookup(t, tr, "no-tier").Tier)
	assert.Equal(t, 24000, lookup(t, tr, "no-tier").Miles)
	assert.Equal(t, tier.Gold, lookup(t, tr, "gold").Tier)
}

func TestEndYear_Idempotent(t *testing.T) {
	tr := tracker.New()
	fly(t, tr, "a", 60, 60)
	fly(t, tr, "b", 105, 110)
	fly(t, tr, "c", 30, 30)
	require.NoError(t, tr.RecordComplaint("c"))

	first := tr.EndYear()
	afterFirst := tr.Records()

	second := tr.EndYear()
	afterSecond := tr.Records()

	assert.False(t, first.AlreadyEnded)
	assert.Len(t, first.Promotions, 2)
	assert.True(t, second.AlreadyEnded)
	assert.Empty(t, second.Promotions)
	assert.Equal(t, afterFirst, afterSecond)
}

func TestEndYear_BlocksFurtherMutation(t *testing.T) {
	tr := tracker.New()
	fly(t, tr, "1001", 3, 3)
	tr.EndYear()

	assert.ErrorIs(t, tr.RecordFlight("1001", true), tracker.ErrYearEnded)
	assert.ErrorIs(t, tr.RecordComplaint("1001"), tracker.ErrYearEnded)
	assert.ErrorIs(t, tr.Apply(tracker.FlightEvent{PassengerID: "new", Cancelled: true}), tracker.ErrYearEnded)
	assert.Equal(t, 1, tr.Len())
	assert.True(t, tr.YearEnded())
}

// =============================================================================
// COMPLAINTS
// =============================================================================

func TestRecordComplaint_RequiresCancelledFlight(t *testing.T) {
	tr := tracker.New()

	err := tr.RecordComplaint("ghost")
	assert.ErrorIs(t, err, tracker.ErrComplaintWithoutCancellation)

	require.NoError(t, tr.RecordFlight("1001", false))
	err = tr.RecordComplaint("1001")
	var complaintErr *tracker.ComplaintError
	require.ErrorAs(t, err, &complaintErr)
	assert.Equal(t, "1001", complaintErr.PassengerID)
	assert.Equal(t, 0, lookup(t, tr, "1001").Complaints)
}

func TestApply_ComplaintOnlyForCancelledFlights(t *testing.T) {
	tr := tracker.New()

	require.NoError(t, tr.Apply(tracker.FlightEvent{PassengerID: "1001", Cancelled: true, Complained: true}))
	require.NoError(t, tr.Apply(tracker.FlightEvent{PassengerID: "1001", Cancelled: false, Complained: true}))
	require.NoError(t, tr.Apply(tracker.FlightEvent{PassengerID: "1001", Cancelled: true, Complained: false}))

	rec := lookup(t, tr, "1001")
	assert.Equal(t, 1, rec.Complaints)
	assert.Equal(t, 2, rec.CancelledFlights)
	assert.Equal(t, 3, rec.TotalFlights)
}

// =============================================================================
// ORDER INDEPENDENCE ACROSS PASSENGERS
// =============================================================================

func TestTracker_InterleavingAcrossPassengersDoesNotMatter(t *testing.T) {
	streamA := make([]tracker.FlightEvent, 0, 70)
	for i := 0; i < 70; i++ {
		streamA = append(streamA, tracker.FlightEvent{PassengerID: "A", Cancelled: i%10 != 0, Complained: i == 33})
	}
	streamB := make([]tracker.FlightEvent, 0, 120)
	for i := 0; i < 120; i++ {
		streamB = append(streamB, tracker.FlightEvent{PassengerID: "B", Cancelled: i%12 != 0})
	}

	// A then B
	sequential := tracker.New()
	for _, ev := range append(append([]tracker.FlightEvent{}, streamA...), streamB...) {
		require.NoError(t, sequential.Apply(ev))
	}

	// Alternate, B first
	interleaved := tracker.New()
	for i := 0; i < len(streamA) || i < len(streamB); i++ {
		if i < len(streamB) {
			require.NoError(t, interleaved.Apply(streamB[i]))
		}
		if i < len(streamA) {
			require.NoError(t, interleaved.Apply(streamA[i]))
		}
	}

	sequential.EndYear()
	interleaved.EndYear()
	assert.Equal(t, sequential.Records(), interleaved.Records())
}

// =============================================================================
// LOOKUP
// =============================================================================

func TestLookup_UnknownPassenger(t *testing.T) {
	tr := tracker.New()

	_, ok := tr.Lookup("nobody")
	assert.False(t, ok)

	_, err := tr.Get("nobody")
	assert.ErrorIs(t, err, tracker.ErrPassengerNotFound)
}

func TestRecords_SortedByID(t *testing.T) {
	tr := tracker.New()
	for _, id := range []string{"300", "100", "200"} {
		require.NoError(t, tr.RecordFlight(id, false))
	}

	var ids []string
	for _, r := range tr.Records() {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"100", "200", "300"}, ids)
}
