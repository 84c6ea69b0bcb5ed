package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sublate/internal/pipeline"
	"sublate/internal/timeline"
)

func newProcessCommand(ctx *commandContext) *cobra.Command {
	var (
		model         string
		sourceLang    string
		targetLang    string
		contextWindow int
	)

	cmd := &cobra.Command{
		Use:   "process <video-id|path>",
		Short: "Run transcription and translation for a video and wait",
		Long:  "Accepts a registered video id or a media file path; paths are ingested first.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withManager(func(_ *timeline.Store, manager *pipeline.Manager) error {
				videoID := strings.TrimSpace(args[0])
				if info, err := os.Stat(videoID); err == nil && !info.IsDir() {
					video, err := manager.Ingest(cmd.Context(), videoID)
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Registered %q as video %s\n", video.Title, video.ID)
					videoID = video.ID
				}

				overrides := pipeline.Overrides{
					WhisperModel:   strings.TrimSpace(model),
					ContextWindow:  contextWindow,
					SourceLanguage: strings.TrimSpace(sourceLang),
					TargetLanguage: strings.TrimSpace(targetLang),
				}
				var submitOverrides *pipeline.Overrides
				if !overrides.IsZero() {
					submitOverrides = &overrides
				}

				if err := manager.Submit(cmd.Context(), videoID, submitOverrides); err != nil {
					return err
				}
				manager.Wait()

				snapshot, err := manager.Status(cmd.Context(), videoID)
				if err != nil {
					return err
				}
				switch snapshot.Status {
				case timeline.StatusReady:
					fmt.Fprintf(cmd.OutOrStdout(), "Processing complete: %d entries (%s)\n", snapshot.EntryCount, formatSeconds(snapshot.DurationSeconds))
					return nil
				case timeline.StatusError:
					return fmt.Errorf("processing failed: %s", snapshot.ErrorMessage)
				default:
					return fmt.Errorf("processing ended in state %s", snapshot.Status)
				}
			})
		},
	}

	cmd.Flags().StringVar(&model, "model", "", "Whisper model tier for this run")
	cmd.Flags().StringVar(&sourceLang, "source-lang", "", "Source language override")
	cmd.Flags().StringVar(&targetLang, "target-lang", "", "Target language override")
	cmd.Flags().IntVar(&contextWindow, "context-window", 0, "Translation context window override")
	return cmd
}
