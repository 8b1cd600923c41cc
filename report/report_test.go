package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/cancellation-rewards/report"
	"github.com/warp/cancellation-rewards/tier"
	"github.com/warp/cancellation-rewards/tracker"
)

func sampleRecords() []tracker.Record {
	return []tracker.Record{
		{ID: "1001", Tier: tier.PlatinumPro, TotalFlights: 75, CancelledFlights: 60, Miles: 120000, HasMultiplier: true},
		{ID: "2002", Tier: tier.Platinum, TotalFlights: 60, CancelledFlights: 56, Miles: 56000, Complaints: 1},
		{ID: "3003", Tier: tier.NoTier, TotalFlights: 5, CancelledFlights: 1, Miles: 1000},
	}
}

// =============================================================================
// RECORD OUTPUT
// =============================================================================

func TestWriteRecord_Text(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, report.WriteRecord(&buf, sampleRecords()[0], report.FormatText))

	assert.Equal(t, "Rewards tier: Platinum Pro\n"+
		"Total flights: 75\n"+
		"Total cancelled flights: 60\n"+
		"Total miles accumulated: 120000\n"+
		"This passenger earned the mileage multiplier\n", buf.String())
}

func TestWriteRecord_TextNoTierShowsNone(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, report.WriteRecord(&buf, sampleRecords()[2], report.FormatText))

	assert.Contains(t, buf.String(), "Rewards tier: None\n")
	assert.Contains(t, buf.String(), "did not earn the mileage multiplier")
}

func TestWriteRecord_JSON(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, report.WriteRecord(&buf, sampleRecords()[1], report.FormatJSON))

	assert.JSONEq(t, `{
		"id": "2002",
		"tier": "Platinum",
		"total_flights": 60,
		"cancelled_flights": 56,
		"miles": 56000,
		"complaints": 1,
		"has_multiplier": false
	}`, buf.String())
}

func TestWriteRecords_YAML(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, report.WriteRecords(&buf, sampleRecords()[:1], report.FormatYAML))

	assert.Contains(t, buf.String(), "- id: \"1001\"\n")
	assert.Contains(t, buf.String(), "  tier: PlatinumPro\n")
	assert.Contains(t, buf.String(), "  has_multiplier: true\n")
}

func TestWriteRecords_TextSeparatesPassengers(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, report.WriteRecords(&buf, sampleRecords(), report.FormatText))

	out := buf.String()
	assert.Contains(t, out, "Passenger: 1001\nRewards tier: Platinum Pro\n")
	assert.Contains(t, out, "Passenger: 3003\nRewards tier: None\n")
	assert.Equal(t, 3, bytes.Count(buf.Bytes(), []byte("\n\n")))
}

func TestParseFormat(t *testing.T) {
	f, err := report.ParseFormat("yaml")
	require.NoError(t, err)
	assert.Equal(t, report.FormatYAML, f)

	_, err = report.ParseFormat("xml")
	assert.Error(t, err)
}

// =============================================================================
// SUMMARY
// =============================================================================

func TestSummarize(t *testing.T) {
	s := report.Summarize(sampleRecords())

	assert.Equal(t, 3, s.Passengers)
	assert.Equal(t, 140, s.TotalFlights)
	assert.Equal(t, 117, s.CancelledFlights)
	assert.Equal(t, int64(177000), s.TotalMiles)
	assert.True(t, s.AverageMiles.Equal(decimal.NewFromInt(59000)), "got %s", s.AverageMiles)
	assert.True(t, s.MultiplierShare.Equal(decimal.RequireFromString("33.33")), "got %s", s.MultiplierShare)
	assert.True(t, s.CancellationRate.Equal(decimal.RequireFromString("83.57")), "got %s", s.CancellationRate)
	assert.Equal(t, 1, s.MultiplierHolders)

	require.Len(t, s.ByTier, len(tier.All()))
	counts := map[tier.Variant]int{}
	for _, tc := range s.ByTier {
		counts[tc.Tier] = tc.Passengers
	}
	assert.Equal(t, 1, counts[tier.PlatinumPro])
	assert.Equal(t, 1, counts[tier.Platinum])
	assert.Equal(t, 1, counts[tier.NoTier])
	assert.Equal(t, 0, counts[tier.Gold])
}

func TestSummarize_Empty(t *testing.T) {
	s := report.Summarize(nil)

	assert.Equal(t, 0, s.Passengers)
	assert.True(t, s.AverageMiles.IsZero())
	assert.True(t, s.MultiplierShare.IsZero())
}

func TestWriteSummary_TextAndJSON(t *testing.T) {
	s := report.Summarize(sampleRecords())

	var text bytes.Buffer
	require.NoError(t, report.WriteSummary(&text, s, report.FormatText))
	assert.Contains(t, text.String(), "Passengers: 3\n")
	assert.Contains(t, text.String(), "Average miles: 59000.00\n")
	assert.Contains(t, text.String(), "Mileage multiplier: 1 (33.33%)\n")

	var js bytes.Buffer
	require.NoError(t, report.WriteSummary(&js, s, report.FormatJSON))
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Equal(t, "33.33", decoded["multiplier_share_pct"])
	assert.EqualValues(t, 177000, decoded["total_miles"])
}
