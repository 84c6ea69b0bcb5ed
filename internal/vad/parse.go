package vad

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	silenceStartRe = regexp.MustCompile(`silence_start:\s*(-?[0-9.]+)`)
	silenceEndRe   = regexp.MustCompile(`silence_end:\s*(-?[0-9.]+)`)
	durationRe     = regexp.MustCompile(`Duration:\s*(\d+):(\d+):(\d+(?:\.\d+)?)`)
)

// span is a silence reported by the silencedetect filter.
type span struct {
	start float64
	end   float64
}

// parseSilences pairs silence_start/silence_end lines in stream order. A
// trailing silence_start without a matching end means the media ended during
// silence, so the span is closed at the media duration. Leading silences can
// be reported with a slightly negative start, which is clamped to zero.
func parseSilences(output string, duration float64) []span {
	var (
		spans    []span
		start    float64
		hasStart bool
	)
	for _, line := range strings.Split(output, "\n") {
		if m := silenceStartRe.FindStringSubmatch(line); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err != nil {
				continue
			}
			if v < 0 {
				v = 0
			}
			start = v
			hasStart = true
			continue
		}
		if m := silenceEndRe.FindStringSubmatch(line); m != nil && hasStart {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > start {
				spans = append(spans, span{start: start, end: v})
			}
			hasStart = false
		}
	}
	if hasStart && duration > start {
		spans = append(spans, span{start: start, end: duration})
	}
	return spans
}

// parseDuration extracts the media duration from the ffmpeg input dump.
func parseDuration(output string) (float64, error) {
	m := durationRe.FindStringSubmatch(output)
	if m == nil {
		return 0, fmt.Errorf("media duration not found in ffmpeg output")
	}
	hours, _ := strconv.ParseFloat(m[1], 64)
	minutes, _ := strconv.ParseFloat(m[2], 64)
	seconds, _ := strconv.ParseFloat(m[3], 64)
	return hours*3600 + minutes*60 + seconds, nil
}
