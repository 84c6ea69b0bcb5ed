package main

import (
	"testing"

	"sublate/internal/testsupport"
)

func TestDaemonStatusNotRunning(t *testing.T) {
	env := setupCLITestEnv(t)
	server := stubLLMServer(t, "ok")
	pointConfigAtLLM(t, env, server.URL)

	out, _, err := runCLI(t, env, "daemon", "status")
	if err != nil {
		t.Fatalf("daemon status: %v", err)
	}
	requireContains(t, out, "== Daemon ==")
	requireContains(t, out, "Not running")
	requireContains(t, out, "== Dependencies ==")
	requireContains(t, out, "== Videos ==")
	requireContains(t, out, "No videos registered")
}

func TestDaemonStatusCountsVideos(t *testing.T) {
	env := setupCLITestEnv(t)
	server := stubLLMServer(t, "ok")
	pointConfigAtLLM(t, env, server.URL)

	testsupport.NewVideo(t, env.store, "alpha.mkv")
	testsupport.NewVideo(t, env.store, "beta.mkv")

	out, _, err := runCLI(t, env, "daemon", "status")
	if err != nil {
		t.Fatalf("daemon status: %v", err)
	}
	requireContains(t, out, "Uploading")
	requireContains(t, out, "2")
}

func TestHealthCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	server := stubLLMServer(t, "ok")
	pointConfigAtLLM(t, env, server.URL)

	out, _, err := runCLI(t, env, "health")
	if err != nil {
		t.Fatalf("health: %v", err)
	}
	requireContains(t, out, "Translator LLM")
	requireContains(t, out, "Database path:")
	requireContains(t, out, "Integrity check: yes")
}
