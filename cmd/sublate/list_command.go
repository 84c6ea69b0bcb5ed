package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sublate/internal/timeline"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var (
		statusFilters []string
		jsonOut       bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List registered videos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			statuses := make([]timeline.Status, 0, len(statusFilters))
			for _, raw := range statusFilters {
				status, ok := timeline.ParseStatus(raw)
				if !ok {
					return fmt.Errorf("unknown status %q", raw)
				}
				statuses = append(statuses, status)
			}

			return ctx.withStore(func(store *timeline.Store) error {
				videos, err := store.ListVideos(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, videos)
				}
				if len(videos) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No videos found")
					return nil
				}

				rows, err := buildVideoListRows(cmd.Context(), store, videos)
				if err != nil {
					return err
				}
				rendered := renderTable(
					[]string{"ID", "Title", "Status", "Duration", "Entries", "Updated"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignRight, alignRight, alignLeft},
				)
				fmt.Fprintln(cmd.OutOrStdout(), rendered)
				return nil
			})
		},
	}

	cmd.Flags().StringSliceVarP(&statusFilters, "status", "s", nil, "Filter by status (repeatable)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON")
	return cmd
}
