package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tonearm/internal/library"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "scan",
		Short: "Discover new files in the music directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *library.Service) error {
				added, err := svc.ScanLocal(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if added == 0 {
					fmt.Fprintln(out, "No new tracks found.")
					return nil
				}
				fmt.Fprintf(out, "Added %d new tracks; run `tonearm sync` to publish them.\n", added)
				return nil
			})
		},
	}
}
