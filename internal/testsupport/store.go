package testsupport

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"sublate/internal/config"
	"sublate/internal/timeline"
)

// MustOpenStore opens a timeline.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *timeline.Store {
	t.Helper()

	store, err := timeline.Open(cfg)
	if err != nil {
		t.Fatalf("timeline.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewVideo creates a video row for tests using the provided store. The title
// is derived from the filename stem.
func NewVideo(t testing.TB, store *timeline.Store, filename string) *timeline.Video {
	t.Helper()

	title := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	video, err := store.CreateVideo(context.Background(), uuid.NewString(), filename, title, "")
	if err != nil {
		t.Fatalf("store.CreateVideo: %v", err)
	}
	return video
}

// SeedEntries replaces a video's timeline with the provided entries.
func SeedEntries(t testing.TB, store *timeline.Store, videoID string, entries []*timeline.Entry) []*timeline.Entry {
	t.Helper()

	if err := store.ReplaceAll(context.Background(), videoID, entries); err != nil {
		t.Fatalf("store.ReplaceAll: %v", err)
	}
	stored, err := store.ListEntries(context.Background(), videoID)
	if err != nil {
		t.Fatalf("store.ListEntries: %v", err)
	}
	return stored
}
