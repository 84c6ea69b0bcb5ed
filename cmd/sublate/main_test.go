package main

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"sublate/internal/testsupport"
	"sublate/internal/timeline"
)

func TestCLIListStatusResetRemove(t *testing.T) {
	env := setupCLITestEnv(t)
	ctx := context.Background()

	alpha := testsupport.NewVideo(t, env.store, "alpha_movie.mkv")
	beta := testsupport.NewVideo(t, env.store, "beta_show.mkv")
	if err := env.store.UpdateVideoStatus(ctx, beta.ID, timeline.StatusProcessing); err != nil {
		t.Fatalf("set beta processing: %v", err)
	}
	if err := env.store.SetVideoMedia(ctx, alpha.ID, "", 93.5); err != nil {
		t.Fatalf("set alpha media: %v", err)
	}
	seedBilingualEntries(t, env, alpha.ID)

	out, _, err := runCLI(t, env, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "alpha_movie")
	requireContains(t, out, "beta_show")

	out, _, err = runCLI(t, env, "list", "--status", "processing")
	if err != nil {
		t.Fatalf("list --status: %v", err)
	}
	requireContains(t, out, "beta_show")
	if strings.Contains(out, "alpha_movie") {
		t.Fatalf("filtered list should omit uploading videos: %q", out)
	}

	out, _, err = runCLI(t, env, "status", alpha.ID)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, "Status: Uploading")
	requireContains(t, out, "Entries: 2")
	requireContains(t, out, "Duration: 1:34")

	out, _, err = runCLI(t, env, "reset")
	if err != nil {
		t.Fatalf("reset: %v", err)
	}
	requireContains(t, out, "Reset 1 videos")
	updated, err := env.store.GetVideo(ctx, beta.ID)
	if err != nil {
		t.Fatalf("get beta: %v", err)
	}
	if updated.Status != timeline.StatusUploading {
		t.Fatalf("expected beta reset to uploading, got %s", updated.Status)
	}

	out, _, err = runCLI(t, env, "remove", beta.ID)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	requireContains(t, out, "Removed video")
	if _, err := env.store.GetVideo(ctx, beta.ID); err == nil {
		t.Fatal("expected beta to be gone after remove")
	}
}

func TestCLIListEmpty(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, env, "list")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	requireContains(t, out, "No videos found")
}

func TestCLIIngestRegistersVideo(t *testing.T) {
	env := setupCLITestEnv(t)

	source := filepath.Join(env.baseDir, "sample_movie.mkv")
	testsupport.WriteFile(t, source, 2048)

	out, _, err := runCLI(t, env, "ingest", source)
	if err != nil {
		t.Fatalf("ingest: %v", err)
	}
	requireContains(t, out, `Registered "Sample Movie"`)

	videos, err := env.store.ListVideos(context.Background())
	if err != nil {
		t.Fatalf("list videos: %v", err)
	}
	if len(videos) != 1 {
		t.Fatalf("expected one video, got %d", len(videos))
	}
	if videos[0].Status != timeline.StatusUploading {
		t.Fatalf("expected uploading status, got %s", videos[0].Status)
	}
}

func TestCLIIngestRejectsMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "ingest", filepath.Join(env.baseDir, "absent.mkv"))
	if err == nil {
		t.Fatal("expected error for missing source file")
	}
}

func TestCLIProcessUnknownVideo(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env, "process", "no-such-id")
	if err == nil {
		t.Fatal("expected error for unknown video")
	}
}
