package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"

	"sublate/internal/config"
)

// Overrides carries per-video processing settings persisted as JSON on the
// video row. Zero values leave the corresponding global setting untouched.
type Overrides struct {
	WhisperModel   string `json:"whisper_model,omitempty"`
	ContextWindow  int    `json:"context_window,omitempty"`
	SourceLanguage string `json:"source_language,omitempty"`
	TargetLanguage string `json:"target_language,omitempty"`
}

// IsZero reports whether the override set changes nothing.
func (o Overrides) IsZero() bool {
	return o == Overrides{}
}

// Encode serializes the override set for storage. A zero set encodes as the
// empty string, which clears the stored overrides.
func (o Overrides) Encode() (string, error) {
	if o.IsZero() {
		return "", nil
	}
	data, err := json.Marshal(o)
	if err != nil {
		return "", fmt.Errorf("encode video overrides: %w", err)
	}
	return string(data), nil
}

// DecodeOverrides parses stored per-video config JSON. Empty input yields a
// zero override set.
func DecodeOverrides(raw string) (Overrides, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Overrides{}, nil
	}
	var o Overrides
	if err := json.Unmarshal([]byte(raw), &o); err != nil {
		return Overrides{}, fmt.Errorf("decode video overrides: %w", err)
	}
	return o, nil
}

// apply merges the overrides onto a copy of the global configuration.
func (o Overrides) apply(cfg *config.Config) *config.Config {
	effective := *cfg
	if model := strings.TrimSpace(o.WhisperModel); model != "" {
		effective.Whisper.Model = model
	}
	if o.ContextWindow > 0 {
		effective.Translator.ContextWindow = o.ContextWindow
	}
	if lang := strings.TrimSpace(o.SourceLanguage); lang != "" {
		effective.Translator.SourceLanguage = lang
	}
	if lang := strings.TrimSpace(o.TargetLanguage); lang != "" {
		effective.Translator.TargetLanguage = lang
	}
	return &effective
}
