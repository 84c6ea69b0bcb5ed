package srt

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sublate/internal/timeline"
)

// Track selects which text column of an entry renders into the file.
type Track string

const (
	TrackOriginal   Track = "original"
	TrackTranslated Track = "translated"
)

// ParseTrack validates a user-supplied track name.
func ParseTrack(value string) (Track, error) {
	switch Track(strings.ToLower(strings.TrimSpace(value))) {
	case TrackOriginal:
		return TrackOriginal, nil
	case TrackTranslated:
		return TrackTranslated, nil
	default:
		return "", fmt.Errorf("unknown subtitle track %q (expected original or translated)", value)
	}
}

type renderOptions struct {
	fallbackToOriginal bool
}

// Option adjusts rendering behavior.
type Option func(*renderOptions)

// WithFallbackToOriginal substitutes the original text when the translated
// track is selected and an entry has no translation yet.
func WithFallbackToOriginal() Option {
	return func(o *renderOptions) {
		o.fallbackToOriginal = true
	}
}

// Render produces SRT content from entries in their given order. Cues number
// from 1; entries whose selected text is empty emit a cue with an empty text
// line so positions stay stable.
func Render(entries []timeline.Entry, track Track, opts ...Option) (string, error) {
	if track != TrackOriginal && track != TrackTranslated {
		return "", fmt.Errorf("unknown subtitle track %q", track)
	}
	options := renderOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	var sb strings.Builder
	for i, entry := range entries {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", FormatTimestamp(entry.StartSeconds), FormatTimestamp(entry.EndSeconds)))
		sb.WriteString(cueText(entry, track, options))
		sb.WriteString("\n")
	}
	return sb.String(), nil
}

// WriteFile renders entries and writes the result to path.
func WriteFile(path string, entries []timeline.Entry, track Track, opts ...Option) error {
	content, err := Render(entries, track, opts...)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("write srt: %w", err)
	}
	return nil
}

// ExportPath builds the export file name <base>.<track>.srt under dir. The
// base is sanitized for filesystem use.
func ExportPath(dir, base string, track Track) string {
	name := sanitizeBase(base)
	if name == "" {
		name = "subtitles"
	}
	return filepath.Join(dir, fmt.Sprintf("%s.%s.srt", name, track))
}

func cueText(entry timeline.Entry, track Track, options renderOptions) string {
	text := entry.TextOriginal
	if track == TrackTranslated {
		text = entry.TextTranslated
		if options.fallbackToOriginal && strings.TrimSpace(text) == "" {
			text = entry.TextOriginal
		}
	}
	return strings.TrimSpace(text)
}

func sanitizeBase(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return ""
	}
	replacer := strings.NewReplacer("/", "-", "\\", "-", ":", "-", "*", "-", "?", "", "\"", "", "<", "", ">", "", "|", "")
	return strings.Trim(replacer.Replace(name), " .")
}
