package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// FFmpegCommand is the default ffmpeg binary name.
const FFmpegCommand = "ffmpeg"

type commandRunner func(ctx context.Context, name string, args ...string) error

// Extractor produces transcription-ready waveforms from media files.
type Extractor struct {
	ffmpegBinary  string
	commandRunner commandRunner
}

// NewExtractor creates an Extractor that shells out to the given ffmpeg
// binary. An empty binary falls back to the bare command name.
func NewExtractor(ffmpegBinary string) *Extractor {
	if strings.TrimSpace(ffmpegBinary) == "" {
		ffmpegBinary = FFmpegCommand
	}
	return &Extractor{ffmpegBinary: ffmpegBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *Extractor) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	e.commandRunner = runner
}

// ExtractAudio decodes the default audio stream of source into a 16 kHz mono
// 16-bit PCM WAV at dest, creating the destination directory as needed.
func (e *Extractor) ExtractAudio(ctx context.Context, source, dest string) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return errors.New("extract audio: source path required")
	}
	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("extract audio: stat source: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("extract audio: ensure dest dir: %w", err)
	}

	args := buildWaveformArgs(source, -1, -1, dest)
	if err := e.run(ctx, e.ffmpegBinary, args...); err != nil {
		return fmt.Errorf("ffmpeg extract: %w", err)
	}
	return nil
}

// CutSnippet copies a time window out of an extracted waveform into its own
// WAV file. A negative start is clamped to zero.
func (e *Extractor) CutSnippet(ctx context.Context, source, dest string, startSeconds, durationSeconds float64) error {
	source = strings.TrimSpace(source)
	if source == "" {
		return errors.New("cut snippet: source path required")
	}
	if durationSeconds <= 0 {
		return fmt.Errorf("cut snippet: invalid duration %.3f", durationSeconds)
	}
	if startSeconds < 0 {
		startSeconds = 0
	}
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("cut snippet: ensure dest dir: %w", err)
	}

	args := buildWaveformArgs(source, startSeconds, durationSeconds, dest)
	if err := e.run(ctx, e.ffmpegBinary, args...); err != nil {
		return fmt.Errorf("ffmpeg snippet: %w", err)
	}
	return nil
}

func (e *Extractor) run(ctx context.Context, name string, args ...string) error {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildWaveformArgs assembles the ffmpeg invocation shared by full extraction
// and snippet cutting. Negative start or duration means the whole stream.
func buildWaveformArgs(source string, startSeconds, durationSeconds float64, dest string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
	}
	if startSeconds >= 0 && durationSeconds > 0 {
		args = append(args,
			"-ss", fmt.Sprintf("%.3f", startSeconds),
			"-t", fmt.Sprintf("%.3f", durationSeconds),
		)
	}
	args = append(args,
		"-i", source,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	)
	return args
}
