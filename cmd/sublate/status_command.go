package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sublate/internal/pipeline"
	"sublate/internal/timeline"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "status <video-id>",
		Short: "Show processing status for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(_ *timeline.Store, manager *pipeline.Manager) error {
				snapshot, err := manager.Status(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, snapshot)
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Video: %s\n", snapshot.VideoID)
				fmt.Fprintf(out, "Filename: %s\n", snapshot.Filename)
				fmt.Fprintf(out, "Title: %s\n", snapshot.Title)
				fmt.Fprintf(out, "Status: %s\n", formatStatusLabel(string(snapshot.Status)))
				if snapshot.DurationSeconds > 0 {
					fmt.Fprintf(out, "Duration: %s\n", formatSeconds(snapshot.DurationSeconds))
				}
				fmt.Fprintf(out, "Entries: %d\n", snapshot.EntryCount)
				if snapshot.PlaybackPath != "" {
					fmt.Fprintf(out, "Playback path: %s\n", snapshot.PlaybackPath)
				}
				if snapshot.ErrorMessage != "" {
					fmt.Fprintf(out, "Error: %s\n", snapshot.ErrorMessage)
				}
				fmt.Fprintf(out, "Updated: %s\n", formatDisplayTime(snapshot.UpdatedAt))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON")
	return cmd
}
