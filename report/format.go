/*
Package report renders passenger records and year-end summaries.

PURPOSE:
  The display side of the engine. Text output matches the console the
  rewards desk has always used; JSON and YAML serve scripts and exports.

FORMATS:
  text:  human-readable block per passenger
  json:  tracker.Record / Summary as JSON
  yaml:  same fields as YAML

TEXT EXAMPLE:
  Rewards tier: Platinum Pro
  Total flights: 75
  Total cancelled flights: 60
  Total miles accumulated: 120000
  This passenger earned the mileage multiplier

SEE ALSO:
  - summary.go: Aggregate statistics
  - console/console.go: Interactive lookup using WriteRecord
*/
package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/warp/cancellation-rewards/tracker"
)

// Format selects an output encoding.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name.
func ParseFormat(s string) (Format, error) {
	switch f := Format(s); f {
	case FormatText, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or yaml)", s)
	}
}

// WriteRecord renders one passenger.
func WriteRecord(w io.Writer, rec tracker.Record, format Format) error {
	switch format {
	case FormatText, "":
		return writeRecordText(w, rec)
	default:
		return encode(w, rec, format)
	}
}

// WriteRecords renders every passenger. Text output separates records with
// a blank line and prefixes each with its id.
func WriteRecords(w io.Writer, recs []tracker.Record, format Format) error {
	if format != FormatText && format != "" {
		if recs == nil {
			recs = []tracker.Record{}
		}
		return encode(w, recs, format)
	}

	for _, rec := range recs {
		if _, err := fmt.Fprintf(w, "Passenger: %s\n", rec.ID); err != nil {
			return err
		}
		if err := writeRecordText(w, rec); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}
	return nil
}

func writeRecordText(w io.Writer, rec tracker.Record) error {
	multiplier := "This passenger did not earn the mileage multiplier"
	if rec.HasMultiplier {
		multiplier = "This passenger earned the mileage multiplier"
	}

	_, err := fmt.Fprintf(w,
		"Rewards tier: %s\nTotal flights: %d\nTotal cancelled flights: %d\nTotal miles accumulated: %d\n%s\n",
		rec.Tier.DisplayName(), rec.TotalFlights, rec.CancelledFlights, rec.Miles, multiplier)
	return err
}

func encode(w io.Writer, v any, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
