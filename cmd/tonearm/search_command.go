package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tonearm/internal/library"
)

func newSearchCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "search <query>",
		Short: "Search the library by title, artist, or album",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.Join(args, " ")
			return ctx.withService(func(svc *library.Service) error {
				tracks, err := svc.Search(query)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(tracks) == 0 {
					fmt.Fprintf(out, "No tracks match %q\n", query)
					return nil
				}
				fmt.Fprintln(out, renderTrackTable(tracks))
				return nil
			})
		},
	}
}
