package main

import (
	"github.com/spf13/cobra"

	"github.com/warp/cancellation-rewards/report"
)

func reportCmd(a *app) *cobra.Command {
	var summaryOnly bool

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print every passenger after year end",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tr, _, err := a.loadYear(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if summaryOnly {
				return report.WriteSummary(out, report.Summarize(tr.Records()), a.cfg.OutputFormat())
			}
			return report.WriteRecords(out, tr.Records(), a.cfg.OutputFormat())
		},
	}

	cmd.Flags().BoolVar(&summaryOnly, "summary", false, "print only the aggregate year summary")
	return cmd
}
