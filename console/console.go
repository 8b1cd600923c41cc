/*
Package console implements the interactive passenger lookup loop.

PURPOSE:
  After the year has been processed, the rewards desk types passenger ids
  and gets each passenger's tier, flight counts, mileage and multiplier
  status back. "-1" (or end of input) ends the session.

SESSION:
  Enter the ID of the passenger (or "-1" to quit): 1001
  Rewards tier: Platinum Pro
  ...

  Enter the ID of the passenger (or "-1" to quit): 9999
  Passenger not found.

  Enter the ID of the passenger (or "-1" to quit): -1
  Program terminated...

SEE ALSO:
  - report/format.go: Record rendering
  - cmd/mileage/lookup.go: Wires the session to stdin/stdout
*/
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/warp/cancellation-rewards/report"
	"github.com/warp/cancellation-rewards/tracker"
)

const (
	Prompt     = `Enter the ID of the passenger (or "-1" to quit): `
	NotFound   = "Passenger not found."
	Terminated = "Program terminated..."
	QuitToken  = "-1"
)

// Directory resolves passenger ids. *tracker.Tracker satisfies it.
type Directory interface {
	Lookup(id string) (tracker.Record, bool)
}

// Session is one interactive lookup loop.
type Session struct {
	In        io.Reader
	Out       io.Writer
	Directory Directory
	Format    report.Format
}

// Run prompts for ids until "-1", end of input or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.In)
	scanner.Split(bufio.ScanWords)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := fmt.Fprint(s.Out, Prompt); err != nil {
			return err
		}

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("read passenger id: %w", err)
			}
			break
		}

		id := strings.TrimSpace(scanner.Text())
		if id == QuitToken {
			break
		}

		if err := s.show(id); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(s.Out, "\n%s\n", Terminated)
	return err
}

func (s *Session) show(id string) error {
	rec, ok := s.Directory.Lookup(id)
	if !ok {
		_, err := fmt.Fprintf(s.Out, "%s\n\n", NotFound)
		return err
	}
	if err := report.WriteRecord(s.Out, rec, s.Format); err != nil {
		return err
	}
	_, err := fmt.Fprintln(s.Out)
	return err
}
