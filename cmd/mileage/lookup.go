package main

import (
	"github.com/spf13/cobra"

	"github.com/warp/cancellation-rewards/console"
)

func lookupCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "lookup",
		Short: "Look up passengers interactively",
		Long: `Load the flight records, close the year, then prompt for passenger ids
on stdin and print each passenger's tier, flights and miles. Enter -1 to quit.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if a.cfg.Input.Path == stdinPath {
				return errStdinConflict
			}

			tr, _, err := a.loadYear(cmd)
			if err != nil {
				return err
			}

			session := &console.Session{
				In:        cmd.InOrStdin(),
				Out:       cmd.OutOrStdout(),
				Directory: tr,
				Format:    a.cfg.OutputFormat(),
			}
			return session.Run(cmd.Context())
		},
	}
}
