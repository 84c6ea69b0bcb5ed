package pipeline

import (
	"context"
	"time"

	"sublate/internal/timeline"
)

// Snapshot is a point-in-time view of a video's processing state. Reads come
// straight from the store and never block on an in-flight run.
type Snapshot struct {
	VideoID         string
	Filename        string
	Title           string
	Status          timeline.Status
	DurationSeconds float64
	PlaybackPath    string
	EntryCount      int
	ErrorMessage    string
	UpdatedAt       time.Time
}

// Status reports the current state of a video.
func (m *Manager) Status(ctx context.Context, videoID string) (Snapshot, error) {
	video, err := m.store.GetVideo(ctx, videoID)
	if err != nil {
		return Snapshot{}, err
	}
	count, err := m.store.CountEntries(ctx, videoID)
	if err != nil {
		return Snapshot{}, err
	}

	snapshot := Snapshot{
		VideoID:      video.ID,
		Filename:     video.Filename,
		Title:        video.Title,
		Status:       video.Status,
		EntryCount:   count,
		ErrorMessage: video.ErrorMessage,
		UpdatedAt:    video.UpdatedAt,
	}
	if video.DurationSeconds != nil {
		snapshot.DurationSeconds = *video.DurationSeconds
	}
	if video.Status == timeline.StatusReady {
		snapshot.PlaybackPath = video.SourcePath
	}
	return snapshot, nil
}
