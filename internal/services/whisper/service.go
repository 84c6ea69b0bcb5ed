package whisper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"sublate/internal/config"
	langpkg "sublate/internal/language"
)

const (
	// WhisperCommand is the executable used when none is configured.
	WhisperCommand = "whisper-cli"
	// DefaultModel is the model tier used when none is configured.
	DefaultModel = "base"
)

// Service provides whisper.cpp transcription capabilities.
type Service struct {
	binary        string
	model         string
	modelPath     string
	languageHint  string
	timeout       time.Duration
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a transcription service from cfg.
func NewService(cfg *config.Config) *Service {
	modelPath := strings.TrimSpace(cfg.Whisper.ModelPath)
	if modelPath == "" {
		modelPath = filepath.Join(cfg.Paths.DataDir, "models")
	}
	var timeout time.Duration
	if cfg.Whisper.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.Whisper.TimeoutSeconds) * time.Second
	}
	return &Service{
		binary:       cfg.WhisperBinary(),
		model:        strings.TrimSpace(cfg.Whisper.Model),
		modelPath:    modelPath,
		languageHint: langpkg.WhisperHint(cfg.Translator.SourceLanguage),
		timeout:      timeout,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model tier for logging.
func (s *Service) Model() string {
	if s.model != "" {
		return s.model
	}
	return DefaultModel
}

// Transcribe runs whisper.cpp over the WAV at source and returns the parsed
// result. workDir is where the tool writes its JSON output; it defaults to
// the source's directory. model selects the tier for this call and falls
// back to the configured tier when empty.
func (s *Service) Transcribe(ctx context.Context, source, workDir, model string) (Result, error) {
	var result Result

	if strings.TrimSpace(source) == "" {
		return result, fmt.Errorf("transcribe: source path required")
	}
	if workDir == "" {
		workDir = filepath.Dir(source)
	}
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return result, fmt.Errorf("transcribe: ensure work dir: %w", err)
	}

	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	baseName := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	outPrefix := filepath.Join(workDir, baseName)

	args := s.buildArgs(source, outPrefix, model)
	if err := s.run(ctx, s.binary, args...); err != nil {
		return result, fmt.Errorf("whisper: %w", err)
	}

	result, err := loadResult(outPrefix + ".json")
	if err != nil {
		return result, fmt.Errorf("whisper: %w", err)
	}
	return result, nil
}

// buildArgs constructs the whisper.cpp command line. -ojf asks for the full
// JSON output, which carries the token probabilities the confidence score is
// derived from.
func (s *Service) buildArgs(source, outPrefix, model string) []string {
	if model = strings.TrimSpace(model); model == "" {
		model = s.Model()
	}
	args := make([]string, 0, 10)
	args = append(args,
		"-m", s.modelFile(model),
		"-f", source,
		"-of", outPrefix,
		"-ojf",
		"-np",
		"-l", s.languageHint,
	)
	return args
}

// modelFile resolves the weights file for a model tier. A model_path that
// points at a .bin file is used as-is; otherwise it is treated as the
// directory holding ggml-<tier>.bin files.
func (s *Service) modelFile(model string) string {
	if strings.HasSuffix(s.modelPath, ".bin") {
		return s.modelPath
	}
	return filepath.Join(s.modelPath, "ggml-"+model+".bin")
}

// run executes a command, using the custom runner if set.
func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
