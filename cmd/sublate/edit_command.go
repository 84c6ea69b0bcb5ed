package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"sublate/internal/pipeline"
	"sublate/internal/timeline"
)

func newEditCommand(ctx *commandContext) *cobra.Command {
	var (
		start       float64
		end         float64
		text        string
		translation string
		retranslate bool
	)

	cmd := &cobra.Command{
		Use:   "edit <entry-id>",
		Short: "Update a timeline entry",
		Long:  "Updates entry fields in place. With --retranslate the translation is regenerated afterwards using the surrounding entries as context.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}

			patch := timeline.EntryPatch{}
			changed := false
			if cmd.Flags().Changed("start") {
				patch.StartSeconds = &start
				changed = true
			}
			if cmd.Flags().Changed("end") {
				patch.EndSeconds = &end
				changed = true
			}
			if cmd.Flags().Changed("text") {
				patch.TextOriginal = &text
				changed = true
			}
			if cmd.Flags().Changed("translation") {
				patch.TextTranslated = &translation
				changed = true
			}
			if !changed && !retranslate {
				return errors.New("nothing to do: set --start, --end, --text, --translation, or --retranslate")
			}

			return ctx.withManager(func(store *timeline.Store, manager *pipeline.Manager) error {
				if changed {
					entry, err := store.UpdateEntry(cmd.Context(), id, patch)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Updated entry %d\n", entry.ID)
				}
				if retranslate {
					entry, err := manager.RetranslateEntry(cmd.Context(), id)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Retranslated entry %d: %s\n", entry.ID, entry.TextTranslated)
				}
				return nil
			})
		},
	}

	cmd.Flags().Float64Var(&start, "start", 0, "New start time in seconds")
	cmd.Flags().Float64Var(&end, "end", 0, "New end time in seconds")
	cmd.Flags().StringVar(&text, "text", "", "New original text")
	cmd.Flags().StringVar(&translation, "translation", "", "New translated text")
	cmd.Flags().BoolVar(&retranslate, "retranslate", false, "Regenerate the translation after applying changes")
	return cmd
}
