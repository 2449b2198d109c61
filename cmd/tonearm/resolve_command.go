package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tonearm/internal/library"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve <track-id>",
		Short: "Resolve the best playback location for a track",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *library.Service) error {
				m, ok := svc.Current()
				if !ok {
					return fmt.Errorf("no library loaded; run `tonearm sync` first")
				}
				track, ok := m.TrackByID(args[0])
				if !ok {
					return fmt.Errorf("track %q not found", args[0])
				}
				loc, ok := svc.ResolvePlayableLocation(track)
				if !ok {
					return fmt.Errorf("track %q has no playable location", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", loc.Source, loc.URI)
				return nil
			})
		},
	}
}
