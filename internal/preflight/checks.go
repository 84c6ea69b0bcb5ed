package preflight

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"golang.org/x/sys/unix"

	"sublate/internal/config"
	"sublate/internal/deps"
	"sublate/internal/services/groqllm"
	"sublate/internal/services/llm"
	"sublate/internal/translate"
)

// CheckTranslator verifies that the configured translation provider is
// reachable and the key is valid. It uses a 30-second timeout and a single
// attempt (no retries).
func CheckTranslator(ctx context.Context, cfg *config.Config) Result {
	const name = "Translator LLM"

	checkCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	switch cfg.Translator.Provider {
	case "", "openai":
		settings := cfg.GetLLM()
		if settings.APIKey == "" {
			return Result{Name: name, Detail: "API key missing"}
		}
		client := llm.NewClient(llm.Config{
			APIKey:         settings.APIKey,
			BaseURL:        settings.BaseURL,
			Model:          settings.Model,
			Referer:        settings.Referer,
			Title:          settings.Title,
			TimeoutSeconds: settings.TimeoutSeconds,
		}, llm.WithRetryMaxAttempts(1))
		if err := client.HealthCheck(checkCtx); err != nil {
			return Result{Name: name, Detail: summarizeLLMError(err)}
		}
		return Result{Name: name, Passed: true, Detail: "API reachable"}
	case "groq":
		if strings.TrimSpace(cfg.Groq.APIKey) == "" {
			return Result{Name: name, Detail: "API key missing"}
		}
		client, err := groqllm.NewClient(cfg.Groq.APIKey, cfg.Groq.Model)
		if err != nil {
			return Result{Name: name, Detail: err.Error()}
		}
		if err := client.HealthCheck(checkCtx); err != nil {
			return Result{Name: name, Detail: summarizeLLMError(err)}
		}
		return Result{Name: name, Passed: true, Detail: "API reachable"}
	default:
		return Result{Name: name, Detail: fmt.Sprintf("unknown provider %q", cfg.Translator.Provider)}
	}
}

// CheckGlossary verifies that the configured glossary file parses.
func CheckGlossary(path string) Result {
	const name = "Glossary"

	if _, err := translate.LoadGlossary(path); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (parsed ok)", path)}
}

// CheckDirectoryAccess verifies that the directory exists and is readable/writable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckSystemDeps evaluates the external binaries for the given config. Both
// the daemon and the CLI health command use this to avoid duplicating the
// requirements list.
func CheckSystemDeps(ctx context.Context, cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for audio extraction and snippet cutting",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for media inspection",
		},
		{
			Name:        "Whisper",
			Command:     cfg.WhisperBinary(),
			Description: "Required for transcription",
		},
	}
	return deps.CheckBinaries(requirements)
}

// summarizeLLMError produces a human-readable summary for LLM health check failures.
func summarizeLLMError(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return "health check timed out (LLM API unresponsive)"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "health check timed out (LLM API unreachable)"
	}
	return err.Error()
}
