package main

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"sublate/internal/srt"
	"sublate/internal/timeline"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var (
		trackFlag string
		fallback  bool
		output    string
	)

	cmd := &cobra.Command{
		Use:   "export <video-id>",
		Short: "Export a video's timeline as an SRT file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			track, err := srt.ParseTrack(trackFlag)
			if err != nil {
				return err
			}

			return ctx.withStore(func(store *timeline.Store) error {
				video, err := store.GetVideo(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				entries, err := store.ListEntries(cmd.Context(), video.ID)
				if err != nil {
					return err
				}

				cues := make([]timeline.Entry, len(entries))
				for i, entry := range entries {
					cues[i] = *entry
				}

				var opts []srt.Option
				if fallback {
					opts = append(opts, srt.WithFallbackToOriginal())
				}

				dest := strings.TrimSpace(output)
				if dest == "" {
					base := strings.TrimSpace(video.Title)
					if base == "" {
						base = strings.TrimSuffix(video.Filename, filepath.Ext(video.Filename))
					}
					dest = srt.ExportPath(ctx.configValue().Paths.LibraryDir, base, track)
				}

				if err := srt.WriteFile(dest, cues, track, opts...); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cues to %s\n", len(cues), dest)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&trackFlag, "track", string(srt.TrackTranslated), "Track to export (original or translated)")
	cmd.Flags().BoolVar(&fallback, "fallback", false, "Fall back to original text when a translation is missing")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Destination file path (defaults under the library directory)")
	return cmd
}
