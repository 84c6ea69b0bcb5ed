package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"sublate/internal/logging"
	"sublate/internal/services"
	"sublate/internal/timeline"
)

const (
	stageExtract    = "extract"
	stageSegment    = "segment"
	stageTranscribe = "transcribe"
	stageTranslate  = "translate"
)

// Submit accepts a processing run for a video and dispatches it
// asynchronously. It fails with ErrAlreadyRunning when a run is already in
// flight for the id, here or recorded as processing in the store.
// Resubmitting a ready or errored video starts over; prior entries are
// replaced only when the new run commits.
func (m *Manager) Submit(ctx context.Context, videoID string, overrides *Overrides) error {
	videoID = strings.TrimSpace(videoID)
	if videoID == "" {
		return errors.New("video id is required")
	}

	m.mu.Lock()
	if _, exists := m.active[videoID]; exists {
		m.mu.Unlock()
		return fmt.Errorf("video %s: %w", videoID, ErrAlreadyRunning)
	}
	m.active[videoID] = struct{}{}
	m.mu.Unlock()

	accepted := false
	defer func() {
		if !accepted {
			m.release(videoID)
		}
	}()

	video, err := m.store.GetVideo(ctx, videoID)
	if err != nil {
		return err
	}
	if video.Status == timeline.StatusProcessing {
		return fmt.Errorf("video %s: %w", videoID, ErrAlreadyRunning)
	}

	if overrides != nil && !overrides.IsZero() {
		encoded, err := overrides.Encode()
		if err != nil {
			return err
		}
		if err := m.store.SetVideoConfig(ctx, videoID, encoded); err != nil {
			return err
		}
		video.ConfigJSON = encoded
	}

	if err := m.store.UpdateVideoStatus(ctx, videoID, timeline.StatusProcessing); err != nil {
		return err
	}

	accepted = true
	m.wg.Add(1)
	m.dispatcher.Dispatch(func() {
		defer m.wg.Done()
		defer m.release(videoID)
		m.run(ctx, video)
	})
	return nil
}

func (m *Manager) release(videoID string) {
	m.mu.Lock()
	delete(m.active, videoID)
	m.mu.Unlock()
}

// ActiveRuns returns the number of runs currently in flight.
func (m *Manager) ActiveRuns() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.active)
}

// Wait blocks until every dispatched run has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

func (m *Manager) run(ctx context.Context, video *timeline.Video) {
	ctx = services.WithVideoID(ctx, video.ID)
	ctx = services.WithRequestID(ctx, uuid.NewString())
	logger := logging.WithContext(ctx, m.logger)

	started := time.Now()
	logger.Info("run started", logging.String("source_file", video.SourcePath))

	err := m.process(ctx, logger, video)
	switch {
	case err == nil:
		logger.Info("run completed", logging.Duration("run_duration", time.Since(started)))
	case errors.Is(err, context.Canceled):
		logger.Warn("run interrupted by shutdown; video stays processing until reset or resubmit")
	default:
		logger.Error("run failed", logging.Error(err), logging.Alert("run_failure"))
		if setErr := m.store.SetVideoError(ctx, video.ID, err.Error()); setErr != nil {
			if errors.Is(setErr, context.Canceled) {
				logger.Debug("shutting down, could not persist run failure")
			} else {
				logger.Error("failed to persist run failure", logging.Error(setErr))
			}
		}
	}
}

func (m *Manager) process(ctx context.Context, logger *slog.Logger, video *timeline.Video) error {
	overrides, err := DecodeOverrides(video.ConfigJSON)
	if err != nil {
		return services.Wrap(services.ErrValidation, stageExtract, "decode overrides", "", err)
	}
	effective := overrides.apply(m.cfg)

	workDir := video.StagingRoot(effective.Paths.StagingDir)
	if workDir == "" {
		return services.Wrap(services.ErrConfiguration, stageExtract, "resolve staging dir", "staging directory not configured", nil)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return services.Wrap(services.ErrConfiguration, stageExtract, "create staging dir", "", err)
	}

	probe, err := m.prober.Inspect(ctx, video.SourcePath)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, stageExtract, "probe source", "", err)
	}
	if !probe.HasAudio() {
		return services.Wrap(services.ErrValidation, stageExtract, "probe source", "source has no audio stream", nil)
	}
	duration := probe.DurationSeconds()

	wavPath := filepath.Join(workDir, "audio.wav")
	if err := m.extractor.ExtractAudio(ctx, video.SourcePath, wavPath); err != nil {
		return services.Wrap(services.ErrExternalTool, stageExtract, "extract audio", "", err)
	}
	if err := m.store.SetVideoMedia(ctx, video.ID, wavPath, duration); err != nil {
		return err
	}
	logger.Info("audio extracted",
		logging.String("audio_path", wavPath),
		logging.Float64("duration_seconds", duration),
	)

	intervals, err := m.segmenter.DetectSpeech(ctx, wavPath, duration)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, stageSegment, "detect speech", "", err)
	}
	logger.Info("speech segmented", logging.Int("interval_count", len(intervals)))

	entries, err := m.transcribeIntervals(ctx, logger, video, effective, workDir, wavPath, intervals)
	if err != nil {
		return err
	}

	if len(entries) > 0 {
		translator, err := m.translatorFactory(effective)
		if err != nil {
			return services.Wrap(services.ErrConfiguration, stageTranslate, "build translator", "", err)
		}
		originals := make([]string, len(entries))
		for i, entry := range entries {
			originals[i] = entry.TextOriginal
		}
		translations, err := translator.TranslateAll(ctx, originals)
		if err != nil {
			return services.Wrap(services.ErrTransient, stageTranslate, "translate timeline", "", err)
		}
		for i := range entries {
			entries[i].TextTranslated = translations[i]
		}
		logger.Info("timeline translated", logging.Int("entry_count", len(entries)))
	}

	if err := m.store.ReplaceAll(ctx, video.ID, entries); err != nil {
		return err
	}
	return m.store.UpdateVideoStatus(ctx, video.ID, timeline.StatusReady)
}
