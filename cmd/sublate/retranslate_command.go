package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sublate/internal/pipeline"
	"sublate/internal/timeline"
)

func newRetranslateCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retranslate <entry-id>",
		Short: "Regenerate the translation for a single entry",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseEntryID(args[0])
			if err != nil {
				return err
			}
			return ctx.withManager(func(_ *timeline.Store, manager *pipeline.Manager) error {
				entry, err := manager.RetranslateEntry(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Retranslated entry %d: %s\n", entry.ID, entry.TextTranslated)
				return nil
			})
		},
	}
}
