package workflow

import (
	"context"
	"errors"
	"time"

	"sublate/internal/logging"
	"sublate/internal/pipeline"
	"sublate/internal/timeline"
)

// Start begins background polling.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return errors.New("workflow already running")
	}
	runCtx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	m.running = true
	m.wg.Add(1)
	m.mu.Unlock()

	go m.poll(runCtx)
	return nil
}

// Stop terminates polling and waits for in-flight runs to finish.
func (m *Manager) Stop() {
	m.mu.Lock()
	if !m.running {
		m.mu.Unlock()
		return
	}
	cancel := m.cancel
	m.running = false
	m.cancel = nil
	m.mu.Unlock()

	cancel()
	m.wg.Wait()
	m.submitter.Wait()
}

func (m *Manager) poll(ctx context.Context) {
	defer m.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		m.dispatchPending(ctx)

		select {
		case <-ctx.Done():
			return
		case <-time.After(m.pollInterval):
		}
	}
}

// dispatchPending submits uploaded videos until the active-run ceiling is
// reached. Submission failures are recorded but never stop the loop.
func (m *Manager) dispatchPending(ctx context.Context) {
	capacity := m.maxActive - m.submitter.ActiveRuns()
	if capacity <= 0 {
		return
	}

	videos, err := m.store.ListVideos(ctx, timeline.StatusUploading)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		m.setLastError(err)
		m.logger.Error("failed to list pending videos", logging.Error(err))
		return
	}

	for _, video := range videos {
		if capacity <= 0 {
			return
		}
		select {
		case <-ctx.Done():
			return
		default:
		}

		err := m.submitter.Submit(ctx, video.ID, nil)
		switch {
		case err == nil:
			capacity--
			m.logger.Info("video submitted",
				logging.String(logging.FieldVideoID, video.ID),
				logging.String("filename", video.Filename),
			)
		case errors.Is(err, pipeline.ErrAlreadyRunning):
			m.logger.Debug("video already in flight", logging.String(logging.FieldVideoID, video.ID))
		case errors.Is(err, context.Canceled):
			return
		default:
			m.setLastError(err)
			m.logger.Error("video submission failed",
				logging.String(logging.FieldVideoID, video.ID),
				logging.Error(err),
			)
		}
	}
}
