package vad

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"sublate/internal/config"
)

// FFmpegCommand is the executable used when the configured binary is empty.
const FFmpegCommand = "ffmpeg"

// Interval is a span of detected speech, in seconds from the start of the
// waveform.
type Interval struct {
	Start float64
	End   float64
}

// Duration returns the interval length in seconds.
func (i Interval) Duration() float64 {
	return i.End - i.Start
}

type outputRunner func(ctx context.Context, name string, args ...string) (string, error)

// Segmenter locates speech intervals on a waveform by running ffmpeg with a
// silencedetect filter and inverting the reported silences.
type Segmenter struct {
	ffmpegBinary      string
	noiseFloorDB      float64
	minSilenceSeconds float64
	minSpeechSeconds  float64
	speechPadSeconds  float64
	runner            outputRunner
}

// NewSegmenter returns a Segmenter tuned from cfg.
func NewSegmenter(cfg *config.Config) *Segmenter {
	s := &Segmenter{
		ffmpegBinary:      cfg.FFmpegBinary(),
		noiseFloorDB:      cfg.VAD.NoiseFloorDB,
		minSilenceSeconds: cfg.VAD.MinSilenceSeconds,
		minSpeechSeconds:  cfg.VAD.MinSpeechSeconds,
		speechPadSeconds:  cfg.VAD.SpeechPadSeconds,
	}
	if s.ffmpegBinary == "" {
		s.ffmpegBinary = FFmpegCommand
	}
	s.runner = s.run
	return s
}

// WithOutputRunner overrides how ffmpeg is invoked (for testing).
func (s *Segmenter) WithOutputRunner(runner func(ctx context.Context, name string, args ...string) (string, error)) {
	if runner != nil {
		s.runner = runner
	}
}

// DetectSpeech analyzes the waveform at path and returns its speech
// intervals in ascending order. durationSeconds bounds the final interval;
// when it is not positive the duration reported by ffmpeg is used instead.
//
// ffmpeg can exit non-zero after printing usable analysis output, so the
// exit status is ignored whenever output was produced.
func (s *Segmenter) DetectSpeech(ctx context.Context, path string, durationSeconds float64) ([]Interval, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, fmt.Errorf("waveform path is required")
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("waveform not accessible: %w", err)
	}

	args := []string{
		"-hide_banner",
		"-nostats",
		"-i", path,
		"-af", fmt.Sprintf("silencedetect=noise=%.1fdB:d=%.2f", s.noiseFloorDB, s.minSilenceSeconds),
		"-f", "null",
		"-",
	}
	output, err := s.runner(ctx, s.ffmpegBinary, args...)
	if err != nil && strings.TrimSpace(output) == "" {
		return nil, fmt.Errorf("ffmpeg silencedetect: %w", err)
	}

	duration := durationSeconds
	if duration <= 0 {
		duration, err = parseDuration(output)
		if err != nil {
			return nil, err
		}
	}
	return s.assemble(parseSilences(output, duration), duration), nil
}

// assemble inverts the silence spans into speech intervals, drops intervals
// shorter than the configured floor, and pads the survivors, clamped to the
// media bounds. Padding can make neighbors touch, so overlaps are merged
// before returning.
func (s *Segmenter) assemble(silences []span, duration float64) []Interval {
	if duration <= 0 {
		return nil
	}
	var padded []Interval
	for _, iv := range invert(silences, duration) {
		if iv.Duration() < s.minSpeechSeconds {
			continue
		}
		start := iv.Start - s.speechPadSeconds
		if start < 0 {
			start = 0
		}
		end := iv.End + s.speechPadSeconds
		if end > duration {
			end = duration
		}
		padded = append(padded, Interval{Start: start, End: end})
	}
	return mergeOverlaps(padded)
}

// invert returns the gaps between silences over [0, duration].
func invert(silences []span, duration float64) []Interval {
	sort.Slice(silences, func(i, j int) bool {
		return silences[i].start < silences[j].start
	})
	var speech []Interval
	cursor := 0.0
	for _, sil := range silences {
		start := sil.start
		if start < cursor {
			start = cursor
		}
		if start >= duration {
			break
		}
		if start > cursor {
			speech = append(speech, Interval{Start: cursor, End: start})
		}
		if sil.end > cursor {
			cursor = sil.end
		}
	}
	if cursor < duration {
		speech = append(speech, Interval{Start: cursor, End: duration})
	}
	return speech
}

func mergeOverlaps(intervals []Interval) []Interval {
	if len(intervals) < 2 {
		return intervals
	}
	merged := []Interval{intervals[0]}
	for _, iv := range intervals[1:] {
		last := &merged[len(merged)-1]
		if iv.Start <= last.End {
			if iv.End > last.End {
				last.End = iv.End
			}
			continue
		}
		merged = append(merged, iv)
	}
	return merged
}

func (s *Segmenter) run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	return string(output), err
}
