package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sublate/internal/srt"
	"sublate/internal/timeline"
)

func newEntriesCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entries",
		Short: "Inspect and edit timeline entries",
	}
	cmd.AddCommand(newEntriesListCommand(ctx))
	cmd.AddCommand(newEntriesAddCommand(ctx))
	cmd.AddCommand(newEntriesDeleteCommand(ctx))
	return cmd
}

func newEntriesListCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list <video-id>",
		Short: "List timeline entries for a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *timeline.Store) error {
				entries, err := store.ListEntries(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if jsonOut {
					return writeJSON(cmd, entries)
				}
				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "No entries found")
					return nil
				}
				rendered := renderTable(
					[]string{"ID", "Start", "End", "Original", "Translated", "Conf"},
					buildEntryRows(entries),
					[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				)
				fmt.Fprintln(cmd.OutOrStdout(), rendered)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit machine-readable JSON")
	return cmd
}

func newEntriesAddCommand(ctx *commandContext) *cobra.Command {
	var (
		start       float64
		end         float64
		text        string
		translation string
	)

	cmd := &cobra.Command{
		Use:   "add <video-id>",
		Short: "Insert a manual timeline entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withStore(func(store *timeline.Store) error {
				entry, err := store.CreateEntry(cmd.Context(), args[0], start, end, text, translation)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added entry %d (%s - %s)\n",
					entry.ID, srt.FormatTimestamp(entry.StartSeconds), srt.FormatTimestamp(entry.EndSeconds))
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&start, "start", 0, "Start time in seconds")
	cmd.Flags().Float64Var(&end, "end", 0, "End time in seconds")
	cmd.Flags().StringVar(&text, "text", "", "Original text")
	cmd.Flags().StringVar(&translation, "translation", "", "Translated text")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func newEntriesDeleteCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <entry-id>",
		Short: "Delete a timeline entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			return ctx.withStore(func(store *timeline.Store) error {
				if err := store.DeleteEntry(cmd.Context(), id); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted entry %d\n", id)
				return nil
			})
		},
	}
}
