package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"tonearm/internal/library"
	"tonearm/internal/manifest"
)

func newTracksCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "tracks",
		Short: "List every track in the library",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *library.Service) error {
				tracks := svc.ListAllTracks()
				if len(tracks) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "Library is empty; run `tonearm sync` or `tonearm scan` first.")
					return nil
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderTrackTable(tracks))
				return nil
			})
		},
	}
}

func renderTrackTable(tracks []manifest.Track) string {
	rows := make([][]string, 0, len(tracks))
	for _, track := range tracks {
		rows = append(rows, []string{
			track.ID,
			track.Title,
			track.Artist,
			track.Album,
			formatDuration(track.Duration),
			humanize.IBytes(uint64(track.FileSize)),
			yesNo(track.IsLocal),
		})
	}
	return renderTable(
		[]string{"ID", "Title", "Artist", "Album", "Length", "Size", "Local"},
		rows,
		[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
	)
}

func formatDuration(seconds int) string {
	if seconds <= 0 {
		return "-"
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
