package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"tonearm/internal/library"
)

func newWipeCommand(ctx *commandContext) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "wipe",
		Short: "Destroy the remote library and all local state",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !force && !confirmWipe(cmd) {
				fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
				return nil
			}
			return ctx.withService(func(svc *library.Service) error {
				report := svc.WipeEverything(cmd.Context())
				out := cmd.OutOrStdout()
				for _, step := range report.Steps {
					status := "ok"
					if step.Err != nil {
						status = step.Err.Error()
					}
					fmt.Fprintf(out, "%-30s %s\n", step.Name, status)
				}
				if report.Failed() {
					return fmt.Errorf("wipe completed with errors")
				}
				fmt.Fprintln(out, "Library wiped.")
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Skip the confirmation prompt")
	return cmd
}

func confirmWipe(cmd *cobra.Command) bool {
	fmt.Fprint(cmd.OutOrStdout(), "This permanently deletes every track, remote and local. Type 'wipe' to continue: ")
	reader := bufio.NewReader(cmd.InOrStdin())
	line, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	return strings.TrimSpace(line) == "wipe"
}
