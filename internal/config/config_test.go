package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"sublate/internal/config"
)

func TestLoadDefaultConfigExpandsPathsAndReadsEnv(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SUBLATE_LLM_API_KEY", "env-key")

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantData := filepath.Join(tempHome, ".local", "share", "sublate")
	if cfg.Paths.DataDir != wantData {
		t.Fatalf("unexpected data dir: got %q want %q", cfg.Paths.DataDir, wantData)
	}
	if cfg.Paths.LibraryDir != filepath.Join(wantData, "library") {
		t.Fatalf("unexpected library dir: %q", cfg.Paths.LibraryDir)
	}
	if cfg.DatabasePath() != filepath.Join(wantData, "sublate.db") {
		t.Fatalf("unexpected database path: %q", cfg.DatabasePath())
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Fatalf("expected LLM key from env, got %q", cfg.LLM.APIKey)
	}
	if cfg.LLM.BaseURL != config.Default().LLM.BaseURL {
		t.Fatalf("unexpected LLM base url: %q", cfg.LLM.BaseURL)
	}
	if cfg.Translator.Provider != "openai" {
		t.Fatalf("unexpected default provider: %q", cfg.Translator.Provider)
	}
	if cfg.Translator.ContextWindow != 3 {
		t.Fatalf("unexpected default context window: %d", cfg.Translator.ContextWindow)
	}
	if cfg.Workflow.TranscribeWorkers != 4 {
		t.Fatalf("unexpected default transcribe workers: %d", cfg.Workflow.TranscribeWorkers)
	}
	if cfg.Logging.Format != "console" {
		t.Fatalf("unexpected default log format: %q", cfg.Logging.Format)
	}
}

func TestLoadParsesFileOverrides(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("SUBLATE_LLM_API_KEY", "env-key")

	path := filepath.Join(tempHome, "sublate.toml")
	body := strings.Join([]string{
		"[translator]",
		`provider = "groq"`,
		`target_language = "French"`,
		"context_window = 5",
		"",
		"[groq]",
		`api_key = "file-groq-key"`,
		"",
		"[workflow]",
		"max_active_runs = 1",
		"",
		"[logging]",
		`format = "json"`,
		`level = "debug"`,
	}, "\n")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Translator.Provider != "groq" {
		t.Fatalf("unexpected provider: %q", cfg.Translator.Provider)
	}
	if cfg.Translator.TargetLanguage != "French" {
		t.Fatalf("unexpected target language: %q", cfg.Translator.TargetLanguage)
	}
	if cfg.Translator.ContextWindow != 5 {
		t.Fatalf("unexpected context window: %d", cfg.Translator.ContextWindow)
	}
	if cfg.Groq.APIKey != "file-groq-key" {
		t.Fatalf("unexpected groq key: %q", cfg.Groq.APIKey)
	}
	if cfg.Workflow.MaxActiveRuns != 1 {
		t.Fatalf("unexpected max active runs: %d", cfg.Workflow.MaxActiveRuns)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("unexpected log format: %q", cfg.Logging.Format)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.Logging.Level)
	}
}

func TestLoadHonorsConfigEnvOverride(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "custom.toml")
	if err := os.WriteFile(path, []byte("[workflow]\nmax_active_runs = 7\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SUBLATE_CONFIG", path)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected env-pointed config to exist")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %q", resolved)
	}
	if cfg.Workflow.MaxActiveRuns != 7 {
		t.Fatalf("unexpected max active runs: %d", cfg.Workflow.MaxActiveRuns)
	}
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "sublate.toml")
	if err := os.WriteFile(path, []byte("[translator]\nprovider = \"bing\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown provider")
	} else if !strings.Contains(err.Error(), "translator.provider") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsInvalidVAD(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	path := filepath.Join(tempHome, "sublate.toml")
	if err := os.WriteFile(path, []byte("[vad]\nnoise_floor_db = 3.0\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for positive noise floor")
	}
}

func TestValidateRequiresWhisperModel(t *testing.T) {
	cfg := config.Default()
	cfg.Whisper.Model = ""
	cfg.Whisper.ModelPath = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when whisper model is unset")
	}
}

func TestSampleConfigMatchesSchema(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	samplePath := filepath.Join(tempHome, "config.toml")
	if err := config.CreateSample(samplePath); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}

	raw, err := os.ReadFile(samplePath)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(raw, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}

	if _, _, _, err := config.Load(samplePath); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}

func TestEnsureDirectoriesCreatesTree(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, _, _, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	for _, dir := range []string{cfg.Paths.DataDir, cfg.Paths.StagingDir, cfg.Paths.LogDir, cfg.Paths.LibraryDir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("stat %s: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected directory at %s", dir)
		}
	}
}
