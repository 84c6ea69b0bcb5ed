package preflight

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"sublate/internal/config"
)

func completionsStub(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"ok"}}]}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckTranslator_OK(t *testing.T) {
	srv := completionsStub(t, http.StatusOK)

	cfg := config.Default()
	cfg.LLM.APIKey = "key"
	cfg.LLM.BaseURL = srv.URL

	result := CheckTranslator(context.Background(), &cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
}

func TestCheckTranslator_MissingKey(t *testing.T) {
	cfg := config.Default()
	cfg.LLM.APIKey = ""

	result := CheckTranslator(context.Background(), &cfg)
	if result.Passed {
		t.Fatal("expected failure for missing key")
	}
	if result.Detail != "API key missing" {
		t.Fatalf("unexpected detail: %s", result.Detail)
	}
}

func TestCheckTranslator_BadStatus(t *testing.T) {
	srv := completionsStub(t, http.StatusUnauthorized)

	cfg := config.Default()
	cfg.LLM.APIKey = "bad"
	cfg.LLM.BaseURL = srv.URL

	result := CheckTranslator(context.Background(), &cfg)
	if result.Passed {
		t.Fatal("expected failure for rejected key")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckTranslator_GroqMissingKey(t *testing.T) {
	cfg := config.Default()
	cfg.Translator.Provider = "groq"
	cfg.Groq.APIKey = ""

	result := CheckTranslator(context.Background(), &cfg)
	if result.Passed {
		t.Fatal("expected failure for missing groq key")
	}
}

func TestCheckTranslator_UnknownProvider(t *testing.T) {
	cfg := config.Default()
	cfg.Translator.Provider = "carrier-pigeon"

	result := CheckTranslator(context.Background(), &cfg)
	if result.Passed {
		t.Fatal("expected failure for unknown provider")
	}
}

func TestCheckGlossary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "glossary.yaml")
	if err := os.WriteFile(path, []byte("terms:\n  warp drive: 曲速引擎\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckGlossary(path); !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if result := CheckGlossary(filepath.Join(t.TempDir(), "missing.yaml")); result.Passed {
		t.Fatal("expected failure for missing glossary")
	}
}

func TestRunAll_NilConfig(t *testing.T) {
	results := RunAll(context.Background(), nil)
	if results != nil {
		t.Fatal("expected nil results for nil config")
	}
}

func TestRunAll_MinimalConfig(t *testing.T) {
	srv := completionsStub(t, http.StatusOK)

	cfg := config.Default()
	cfg.Paths.StagingDir = t.TempDir()
	cfg.Paths.LibraryDir = t.TempDir()
	cfg.LLM.APIKey = "key"
	cfg.LLM.BaseURL = srv.URL

	results := RunAll(context.Background(), &cfg)
	// Staging + library directories + translator.
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if !r.Passed {
			t.Errorf("check %q failed: %s", r.Name, r.Detail)
		}
	}
}

func TestCheckSystemDeps(t *testing.T) {
	cfg := config.Default()
	cfg.Whisper.Binary = "definitely-not-installed-anywhere"

	statuses := CheckSystemDeps(context.Background(), &cfg)
	if len(statuses) != 3 {
		t.Fatalf("expected 3 dependency statuses, got %d", len(statuses))
	}
	names := map[string]bool{}
	for _, status := range statuses {
		names[status.Name] = true
		if status.Name == "Whisper" && status.Available {
			t.Fatalf("expected missing whisper binary, got %+v", status)
		}
	}
	for _, want := range []string{"FFmpeg", "FFprobe", "Whisper"} {
		if !names[want] {
			t.Fatalf("missing %s in dependency statuses", want)
		}
	}
}
