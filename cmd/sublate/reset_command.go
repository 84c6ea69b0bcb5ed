package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sublate/internal/timeline"
)

func newResetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "reset [video-id]",
		Short: "Return stuck processing videos to uploading",
		Long:  "Resets videos left in the processing state by an interrupted run. With no argument every stuck video is reset.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) > 0 {
				id = args[0]
			}
			return ctx.withStore(func(store *timeline.Store) error {
				updated, err := store.ResetStale(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Reset %d videos\n", updated)
				return nil
			})
		},
	}
}
