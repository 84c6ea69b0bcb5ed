package pipeline_test

import (
	"context"
	"errors"
	"testing"

	"sublate/internal/testsupport"
	"sublate/internal/timeline"
	"sublate/internal/translate"
)

func seedTimeline(t *testing.T, h *harness, videoID string) []*timeline.Entry {
	t.Helper()
	return testsupport.SeedEntries(t, h.store, videoID, []*timeline.Entry{
		{StartSeconds: 1, EndSeconds: 2, TextOriginal: "hello", TextTranslated: "你好", Confidence: 0.9},
		{StartSeconds: 3, EndSeconds: 4, TextOriginal: "world", TextTranslated: "世界", Confidence: 0.8},
		{StartSeconds: 5, EndSeconds: 6, TextOriginal: "again", TextTranslated: "再次", Confidence: 0.7},
	})
}

func TestRetranslateEntryUpdatesSingleEntry(t *testing.T) {
	h := newHarness(t)
	video := h.newVideo(t)
	ctx := context.Background()
	seeded := seedTimeline(t, h, video.ID)

	var gotItems []translate.Item
	gotIndex := -1
	h.translator.retranslate = func(items []translate.Item, index int) (string, error) {
		gotItems = append([]translate.Item(nil), items...)
		gotIndex = index
		return "新的世界", nil
	}

	updated, err := h.manager.RetranslateEntry(ctx, seeded[1].ID)
	if err != nil {
		t.Fatalf("RetranslateEntry failed: %v", err)
	}
	if updated.TextTranslated != "新的世界" {
		t.Fatalf("expected new translation, got %q", updated.TextTranslated)
	}
	if updated.TextOriginal != "world" {
		t.Fatalf("original text must not change, got %q", updated.TextOriginal)
	}

	if gotIndex != 1 {
		t.Fatalf("expected translator index 1, got %d", gotIndex)
	}
	if len(gotItems) != 3 {
		t.Fatalf("expected full timeline handed to translator, got %d items", len(gotItems))
	}
	if gotItems[0].Original != "hello" || gotItems[0].Translated != "你好" {
		t.Fatalf("expected stored neighbor translations in items, got %+v", gotItems[0])
	}
	if gotItems[2].Original != "again" || gotItems[2].Translated != "再次" {
		t.Fatalf("expected stored neighbor translations in items, got %+v", gotItems[2])
	}

	entries, err := h.store.ListEntries(ctx, video.ID)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if entries[0].TextTranslated != "你好" || entries[2].TextTranslated != "再次" {
		t.Fatalf("neighbor translations must not change, got %q / %q", entries[0].TextTranslated, entries[2].TextTranslated)
	}
	if entries[1].TextTranslated != "新的世界" {
		t.Fatalf("target entry not updated, got %q", entries[1].TextTranslated)
	}
	for i, entry := range entries {
		if entry.TextOriginal != seeded[i].TextOriginal {
			t.Fatalf("entry %d original changed: %q", i, entry.TextOriginal)
		}
		if entry.StartSeconds != seeded[i].StartSeconds || entry.EndSeconds != seeded[i].EndSeconds {
			t.Fatalf("entry %d timing changed", i)
		}
	}

	// Retranslation never flips the video status.
	stored, _ := h.store.GetVideo(ctx, video.ID)
	if stored.Status != timeline.StatusUploading {
		t.Fatalf("expected untouched status, got %s", stored.Status)
	}
}

func TestRetranslateEntryFailureLeavesStoredText(t *testing.T) {
	h := newHarness(t)
	video := h.newVideo(t)
	ctx := context.Background()
	seeded := seedTimeline(t, h, video.ID)

	h.translator.retranslate = func(items []translate.Item, index int) (string, error) {
		return "", errors.New("provider unreachable")
	}

	if _, err := h.manager.RetranslateEntry(ctx, seeded[1].ID); err == nil {
		t.Fatal("expected provider failure to surface")
	}

	entry, err := h.store.GetEntry(ctx, seeded[1].ID)
	if err != nil {
		t.Fatalf("GetEntry failed: %v", err)
	}
	if entry.TextTranslated != "世界" {
		t.Fatalf("stored translation must survive a failed retranslation, got %q", entry.TextTranslated)
	}
}

func TestRetranslateEntryUnknownEntry(t *testing.T) {
	h := newHarness(t)
	if _, err := h.manager.RetranslateEntry(context.Background(), 9999); !errors.Is(err, timeline.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRetranslateEntryHonorsVideoOverrides(t *testing.T) {
	h := newHarness(t)
	video := h.newVideo(t)
	ctx := context.Background()
	seeded := seedTimeline(t, h, video.ID)

	if err := h.store.SetVideoConfig(ctx, video.ID, `{"target_language":"French"}`); err != nil {
		t.Fatalf("SetVideoConfig failed: %v", err)
	}

	// The stubbed translator ignores language but the manager must still
	// decode the stored overrides without error.
	if _, err := h.manager.RetranslateEntry(ctx, seeded[0].ID); err != nil {
		t.Fatalf("RetranslateEntry failed: %v", err)
	}

	if err := h.store.SetVideoConfig(ctx, video.ID, `{broken`); err != nil {
		t.Fatalf("SetVideoConfig failed: %v", err)
	}
	if _, err := h.manager.RetranslateEntry(ctx, seeded[0].ID); err == nil {
		t.Fatal("expected corrupt overrides to surface")
	}
}
