package workflow

import (
	"context"

	"sublate/internal/logging"
	"sublate/internal/timeline"
)

// StatusSummary represents lightweight workflow diagnostics.
type StatusSummary struct {
	Running    bool
	ActiveRuns int
	LastError  string
	VideoStats map[timeline.Status]int
}

// Status returns the latest workflow information.
func (m *Manager) Status(ctx context.Context) StatusSummary {
	m.mu.RLock()
	running := m.running
	lastErr := m.lastErr
	m.mu.RUnlock()

	stats, err := m.store.Stats(ctx)
	if err != nil {
		m.logger.Warn("failed to read video stats", logging.Error(err))
	}

	summary := StatusSummary{
		Running:    running,
		ActiveRuns: m.submitter.ActiveRuns(),
		VideoStats: stats,
	}
	if lastErr != nil {
		summary.LastError = lastErr.Error()
	}
	return summary
}

func (m *Manager) setLastError(err error) {
	m.mu.Lock()
	m.lastErr = err
	m.mu.Unlock()
}
