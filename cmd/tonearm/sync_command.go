package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"tonearm/internal/library"
)

func newSyncCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "sync",
		Short: "Reconcile the local library with the remote manifest",
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withService(func(svc *library.Service) error {
				m, err := svc.Sync(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Synced library to version %d (%d tracks)\n",
					m.Version, len(m.Tracks))
				return nil
			})
		},
	}
}
