package whisper

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Result contains the outcome of a transcription.
type Result struct {
	// Text is the plain text transcription, joined across segments.
	Text string
	// Confidence is the mean token probability in [0, 1].
	Confidence float64
	// Language is the language whisper.cpp detected or was told to use.
	Language string
}

// whisperPayload is the JSON structure whisper.cpp writes with -ojf.
type whisperPayload struct {
	Result struct {
		Language string `json:"language"`
	} `json:"result"`
	Transcription []whisperSegment `json:"transcription"`
}

type whisperSegment struct {
	Text   string         `json:"text"`
	Tokens []whisperToken `json:"tokens"`
}

type whisperToken struct {
	Text string  `json:"text"`
	P    float64 `json:"p"`
}

func loadResult(jsonPath string) (Result, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return Result{}, fmt.Errorf("read output: %w", err)
	}
	return ParseOutput(data)
}

// ParseOutput decodes whisper.cpp full JSON output into a Result. Special
// marker tokens such as [_BEG_] carry no transcription probability and are
// excluded from the confidence mean.
func ParseOutput(data []byte) (Result, error) {
	var payload whisperPayload
	if err := json.Unmarshal(data, &payload); err != nil {
		return Result{}, fmt.Errorf("parse whisper json: %w", err)
	}

	var (
		parts    []string
		sum      float64
		scorable int
	)
	for _, seg := range payload.Transcription {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
		for _, tok := range seg.Tokens {
			if isMarkerToken(tok.Text) {
				continue
			}
			sum += tok.P
			scorable++
		}
	}

	result := Result{
		Text:     strings.Join(parts, " "),
		Language: payload.Result.Language,
	}
	switch {
	case result.Text == "":
		result.Confidence = 0
	case scorable == 0:
		result.Confidence = 1
	default:
		result.Confidence = clamp01(sum / float64(scorable))
	}
	return result, nil
}

func isMarkerToken(text string) bool {
	trimmed := strings.TrimSpace(text)
	return strings.HasPrefix(trimmed, "[_") && strings.HasSuffix(trimmed, "]")
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
