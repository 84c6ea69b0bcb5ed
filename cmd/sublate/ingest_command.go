package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sublate/internal/pipeline"
	"sublate/internal/timeline"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <path>",
		Short: "Register a video file for processing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(_ *timeline.Store, manager *pipeline.Manager) error {
				video, err := manager.Ingest(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Registered %q as video %s\n", video.Title, video.ID)
				return nil
			})
		},
	}
}
