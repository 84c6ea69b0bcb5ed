package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"sublate/internal/config"
	"sublate/internal/logging"
	"sublate/internal/services"
	"sublate/internal/timeline"
	"sublate/internal/vad"
)

// transcribeIntervals cuts one snippet per speech interval and transcribes
// them across a bounded worker pool. Per-interval failures are absorbed: the
// entry keeps its timing with empty text and zero confidence. Only context
// cancellation aborts the stage.
func (m *Manager) transcribeIntervals(ctx context.Context, logger *slog.Logger, video *timeline.Video, cfg *config.Config, workDir, wavPath string, intervals []vad.Interval) ([]*timeline.Entry, error) {
	if len(intervals) == 0 {
		return nil, nil
	}

	segmentDir := filepath.Join(workDir, "segments")
	if err := os.MkdirAll(segmentDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, stageTranscribe, "create segment dir", "", err)
	}

	transcriber := m.transcriberFactory(cfg)
	model := strings.TrimSpace(cfg.Whisper.Model)

	workers := cfg.Workflow.TranscribeWorkers
	if workers < 1 {
		workers = 1
	}
	if workers > len(intervals) {
		workers = len(intervals)
	}

	entries := make([]*timeline.Entry, len(intervals))
	indexes := make(chan int)

	var wg sync.WaitGroup
	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				entries[i] = m.transcribeOne(ctx, logger, transcriber, video, segmentDir, wavPath, model, i, intervals[i])
			}
		}()
	}

feed:
	for i := range intervals {
		select {
		case <-ctx.Done():
			break feed
		case indexes <- i:
		}
	}
	close(indexes)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	failed := 0
	for _, entry := range entries {
		if entry.TextOriginal == "" && entry.Confidence == 0 {
			failed++
		}
	}
	logger.Info("intervals transcribed",
		logging.Int("interval_count", len(intervals)),
		logging.Int("empty_count", failed),
		logging.Int("workers", workers),
	)
	return entries, nil
}

func (m *Manager) transcribeOne(ctx context.Context, logger *slog.Logger, transcriber Transcriber, video *timeline.Video, segmentDir, wavPath, model string, index int, interval vad.Interval) *timeline.Entry {
	entry := &timeline.Entry{
		VideoID:      video.ID,
		StartSeconds: interval.Start,
		EndSeconds:   interval.End,
	}
	if ctx.Err() != nil {
		return entry
	}

	snippet := filepath.Join(segmentDir, fmt.Sprintf("segment-%04d.wav", index))
	if err := m.extractor.CutSnippet(ctx, wavPath, snippet, interval.Start, interval.Duration()); err != nil {
		logger.Warn("snippet cut failed; keeping entry with empty text",
			logging.Int("segment", index),
			logging.Error(err),
		)
		return entry
	}

	result, err := transcriber.Transcribe(ctx, snippet, segmentDir, model)
	if err != nil {
		logger.Warn("transcription failed; keeping entry with empty text",
			logging.Int("segment", index),
			logging.Error(err),
		)
		return entry
	}

	entry.TextOriginal = result.Text
	entry.Confidence = result.Confidence
	return entry
}
