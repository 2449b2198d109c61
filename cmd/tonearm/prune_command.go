package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tonearm/internal/library"
)

func newPruneOrphansCommand(ctx *commandContext) *cobra.Command {
	var apply bool

	cmd := &cobra.Command{
		Use:   "prune-orphans",
		Short: "Drop manifest entries whose media exists nowhere",
		Long: "Scans the manifest for tracks with no local file and no remote object.\n" +
			"Without --apply the command only reports what would be removed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *library.Service) error {
				removed, err := svc.PruneOrphans(cmd.Context(), apply)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				switch {
				case removed == 0:
					fmt.Fprintln(out, "No orphaned tracks found.")
				case apply:
					fmt.Fprintf(out, "Removed %d orphaned tracks.\n", removed)
				default:
					fmt.Fprintf(out, "%d orphaned tracks would be removed; rerun with --apply.\n", removed)
				}
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&apply, "apply", false, "Persist the pruned manifest instead of reporting only")
	return cmd
}
