package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tonearm/internal/library"
)

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <track-id>",
		Short: "Remove a track from the library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *library.Service) error {
				if err := svc.RemoveTrack(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed track %s\n", args[0])
				return nil
			})
		},
	}
}
