package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"sublate/internal/logging"
	"sublate/internal/timeline"
)

// Ingest registers a video file for processing in the uploading state. The
// file stays where it is; only its location is recorded.
func (m *Manager) Ingest(ctx context.Context, path string) (*timeline.Video, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("ingest: path is required")
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("ingest: resolve path: %w", err)
	}
	info, err := os.Stat(absolute)
	if err != nil {
		return nil, fmt.Errorf("ingest: stat source: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("ingest: %s is a directory", absolute)
	}

	filename := filepath.Base(absolute)
	video, err := m.store.CreateVideo(ctx, uuid.NewString(), filename, deriveTitle(filename), absolute)
	if err != nil {
		return nil, err
	}

	m.logger.Info("video ingested",
		logging.String(logging.FieldVideoID, video.ID),
		logging.String("filename", filename),
		logging.String("title", video.Title),
	)
	return video, nil
}

// deriveTitle turns a filename into a readable title: extension dropped,
// separator runs collapsed to single spaces, title case applied.
func deriveTitle(filename string) string {
	base := strings.TrimSuffix(filename, filepath.Ext(filename))
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range base {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	title := strings.TrimSpace(cleaned.String())
	if title == "" {
		title = "Untitled Video"
	}
	return cases.Title(language.Und).String(title)
}
