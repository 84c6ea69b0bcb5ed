package workflow

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"sublate/internal/config"
	"sublate/internal/logging"
	"sublate/internal/pipeline"
	"sublate/internal/timeline"
)

// Submitter starts processing runs and reports drain state.
// *pipeline.Manager satisfies it.
type Submitter interface {
	Submit(ctx context.Context, videoID string, overrides *pipeline.Overrides) error
	ActiveRuns() int
	Wait()
}

// Manager coordinates background processing of uploaded videos.
type Manager struct {
	cfg          *config.Config
	store        *timeline.Store
	submitter    Submitter
	logger       *slog.Logger
	pollInterval time.Duration
	maxActive    int

	mu      sync.RWMutex
	running bool
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	lastErr error
}

// NewManager constructs a workflow manager around the given pipeline.
func NewManager(cfg *config.Config, store *timeline.Store, submitter Submitter, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Manager{
		cfg:          cfg,
		store:        store,
		submitter:    submitter,
		logger:       logging.NewComponentLogger(logger, "workflow"),
		pollInterval: time.Duration(cfg.Workflow.PollInterval) * time.Second,
		maxActive:    cfg.Workflow.MaxActiveRuns,
	}
}
