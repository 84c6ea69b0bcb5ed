package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sublate/internal/timeline"
)

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <video-id>",
		Short: "Remove a video and its timeline entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *timeline.Store) error {
				removed, err := store.RemoveVideo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if !removed {
					return fmt.Errorf("video %s not found", args[0])
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed video %s\n", args[0])
				return nil
			})
		},
	}
}
