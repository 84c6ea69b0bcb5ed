package pipeline_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"

	"sublate/internal/config"
	"sublate/internal/logging"
	"sublate/internal/media"
	"sublate/internal/pipeline"
	"sublate/internal/services/whisper"
	"sublate/internal/testsupport"
	"sublate/internal/timeline"
	"sublate/internal/translate"
	"sublate/internal/vad"
)

type syncDispatcher struct{}

func (syncDispatcher) Dispatch(run func()) { run() }

type asyncDispatcher struct{}

func (asyncDispatcher) Dispatch(run func()) { go run() }

type fakeProber struct {
	duration float64
	hasAudio bool
	err      error
}

func (p *fakeProber) Inspect(ctx context.Context, path string) (media.ProbeResult, error) {
	if p.err != nil {
		return media.ProbeResult{}, p.err
	}
	result := media.ProbeResult{
		Format: media.ProbeFormat{Duration: fmt.Sprintf("%.3f", p.duration)},
	}
	if p.hasAudio {
		result.Streams = []media.ProbeStream{{CodecType: "audio", Channels: 2}}
	}
	return result, nil
}

type fakeExtractor struct {
	mu         sync.Mutex
	extracted  []string
	snippets   []string
	extractErr error
	snippetErr func(dest string) error
}

func (e *fakeExtractor) ExtractAudio(ctx context.Context, source, dest string) error {
	if e.extractErr != nil {
		return e.extractErr
	}
	e.mu.Lock()
	e.extracted = append(e.extracted, dest)
	e.mu.Unlock()
	return nil
}

func (e *fakeExtractor) CutSnippet(ctx context.Context, source, dest string, startSeconds, durationSeconds float64) error {
	if e.snippetErr != nil {
		if err := e.snippetErr(dest); err != nil {
			return err
		}
	}
	e.mu.Lock()
	e.snippets = append(e.snippets, dest)
	e.mu.Unlock()
	return nil
}

type fakeSegmenter struct {
	intervals []vad.Interval
	err       error
	gate      chan struct{}
}

func (s *fakeSegmenter) DetectSpeech(ctx context.Context, path string, durationSeconds float64) ([]vad.Interval, error) {
	if s.gate != nil {
		select {
		case <-s.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.intervals, nil
}

type fakeTranscriber struct {
	mu     sync.Mutex
	models []string
	fail   map[int]bool
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, source, workDir, model string) (whisper.Result, error) {
	f.mu.Lock()
	f.models = append(f.models, model)
	f.mu.Unlock()

	index := segmentIndex(source)
	if f.fail[index] {
		return whisper.Result{}, errors.New("whisper exited with status 1")
	}
	return whisper.Result{Text: fmt.Sprintf("line %d", index+1), Confidence: 0.9, Language: "en"}, nil
}

func segmentIndex(source string) int {
	base := strings.TrimSuffix(filepath.Base(source), ".wav")
	parts := strings.Split(base, "-")
	index, _ := strconv.Atoi(parts[len(parts)-1])
	return index
}

type fakeTranslator struct {
	mu          sync.Mutex
	passes      int
	failAll     error
	retranslate func(items []translate.Item, index int) (string, error)
}

func (f *fakeTranslator) TranslateAll(ctx context.Context, originals []string) ([]string, error) {
	f.mu.Lock()
	f.passes++
	f.mu.Unlock()
	if f.failAll != nil {
		return nil, f.failAll
	}
	out := make([]string, len(originals))
	for i, original := range originals {
		if strings.TrimSpace(original) == "" {
			continue
		}
		out[i] = "译:" + original
	}
	return out, nil
}

func (f *fakeTranslator) RetranslateOne(ctx context.Context, items []translate.Item, index int) (string, error) {
	if f.retranslate != nil {
		return f.retranslate(items, index)
	}
	return "RETRANSLATED", nil
}

type harness struct {
	cfg         *config.Config
	store       *timeline.Store
	manager     *pipeline.Manager
	prober      *fakeProber
	extractor   *fakeExtractor
	segmenter   *fakeSegmenter
	transcriber *fakeTranscriber
	translator  *fakeTranslator
}

func newHarness(t *testing.T, opts ...pipeline.ManagerOption) *harness {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	h := &harness{
		cfg:    cfg,
		store:  store,
		prober: &fakeProber{duration: 30, hasAudio: true},
		extractor: &fakeExtractor{},
		segmenter: &fakeSegmenter{intervals: []vad.Interval{
			{Start: 1.0, End: 2.5},
			{Start: 4.0, End: 5.0},
			{Start: 10.0, End: 12.0},
		}},
		transcriber: &fakeTranscriber{},
		translator:  &fakeTranslator{},
	}
	base := []pipeline.ManagerOption{
		pipeline.WithProber(h.prober),
		pipeline.WithExtractor(h.extractor),
		pipeline.WithSegmenter(h.segmenter),
		pipeline.WithTranscriber(h.transcriber),
		pipeline.WithTranslator(h.translator),
		pipeline.WithDispatcher(syncDispatcher{}),
	}
	h.manager = pipeline.NewManager(cfg, store, logging.NewNop(), append(base, opts...)...)
	return h
}

func (h *harness) newVideo(t *testing.T) *timeline.Video {
	t.Helper()
	video, err := h.store.CreateVideo(context.Background(), uuid.NewString(), "movie.mkv", "Movie", "/videos/movie.mkv")
	if err != nil {
		t.Fatalf("CreateVideo failed: %v", err)
	}
	return video
}

func TestSubmitProcessesVideo(t *testing.T) {
	h := newHarness(t)
	video := h.newVideo(t)
	ctx := context.Background()

	if err := h.manager.Submit(ctx, video.ID, nil); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	stored, err := h.store.GetVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("GetVideo failed: %v", err)
	}
	if stored.Status != timeline.StatusReady {
		t.Fatalf("expected ready, got %s (error %q)", stored.Status, stored.ErrorMessage)
	}
	if stored.DurationSeconds == nil || *stored.DurationSeconds != 30 {
		t.Fatalf("expected probed duration 30, got %v", stored.DurationSeconds)
	}
	if stored.AudioPath == "" || !strings.HasSuffix(stored.AudioPath, "audio.wav") {
		t.Fatalf("expected extracted audio path, got %q", stored.AudioPath)
	}

	entries, err := h.store.ListEntries(ctx, video.ID)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	wantTimes := [][2]float64{{1.0, 2.5}, {4.0, 5.0}, {10.0, 12.0}}
	for i, entry := range entries {
		if entry.StartSeconds != wantTimes[i][0] || entry.EndSeconds != wantTimes[i][1] {
			t.Fatalf("entry %d spans [%v,%v], want %v", i, entry.StartSeconds, entry.EndSeconds, wantTimes[i])
		}
		wantText := fmt.Sprintf("line %d", i+1)
		if entry.TextOriginal != wantText {
			t.Fatalf("entry %d original %q, want %q", i, entry.TextOriginal, wantText)
		}
		if entry.TextTranslated != "译:"+wantText {
			t.Fatalf("entry %d translated %q", i, entry.TextTranslated)
		}
		if entry.Confidence != 0.9 {
			t.Fatalf("entry %d confidence %v, want 0.9", i, entry.Confidence)
		}
	}

	if len(h.extractor.snippets) != 3 {
		t.Fatalf("expected 3 snippets, got %d", len(h.extractor.snippets))
	}
}

func TestSubmitRecordsStageFailure(t *testing.T) {
	h := newHarness(t)
	h.segmenter.err = errors.New("silencedetect crashed")
	video := h.newVideo(t)
	ctx := context.Background()

	if err := h.manager.Submit(ctx, video.ID, nil); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	stored, err := h.store.GetVideo(ctx, video.ID)
	if err != nil {
		t.Fatalf("GetVideo failed: %v", err)
	}
	if stored.Status != timeline.StatusError {
		t.Fatalf("expected error status, got %s", stored.Status)
	}
	if !strings.Contains(stored.ErrorMessage, "segment") || !strings.Contains(stored.ErrorMessage, "silencedetect crashed") {
		t.Fatalf("expected stage context in error message, got %q", stored.ErrorMessage)
	}
	count, err := h.store.CountEntries(ctx, video.ID)
	if err != nil {
		t.Fatalf("CountEntries failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no entries after failed run, got %d", count)
	}

	// Errored videos accept a fresh submission.
	h.segmenter.err = nil
	if err := h.manager.Submit(ctx, video.ID, nil); err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	stored, _ = h.store.GetVideo(ctx, video.ID)
	if stored.Status != timeline.StatusReady {
		t.Fatalf("expected ready after resubmit, got %s", stored.Status)
	}
}

func TestSubmitAbsorbsTranscriptionFailure(t *testing.T) {
	h := newHarness(t)
	h.transcriber.fail = map[int]bool{1: true}
	video := h.newVideo(t)
	ctx := context.Background()

	if err := h.manager.Submit(ctx, video.ID, nil); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	stored, _ := h.store.GetVideo(ctx, video.ID)
	if stored.Status != timeline.StatusReady {
		t.Fatalf("expected ready despite interval failure, got %s (error %q)", stored.Status, stored.ErrorMessage)
	}
	entries, err := h.store.ListEntries(ctx, video.ID)
	if err != nil {
		t.Fatalf("ListEntries failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[1].TextOriginal != "" || entries[1].Confidence != 0 {
		t.Fatalf("expected absorbed failure entry, got %+v", entries[1])
	}
	if entries[1].TextTranslated != "" {
		t.Fatalf("empty original must not be translated, got %q", entries[1].TextTranslated)
	}
	if entries[0].TextOriginal != "line 1" || entries[2].TextOriginal != "line 3" {
		t.Fatalf("healthy entries must keep their text, got %q / %q", entries[0].TextOriginal, entries[2].TextOriginal)
	}
	if entries[1].StartSeconds != 4.0 || entries[1].EndSeconds != 5.0 {
		t.Fatalf("failed interval keeps its timing, got [%v,%v]", entries[1].StartSeconds, entries[1].EndSeconds)
	}
}

func TestSubmitRejectsConcurrentRuns(t *testing.T) {
	h := newHarness(t, pipeline.WithDispatcher(asyncDispatcher{}))
	h.segmenter.gate = make(chan struct{})
	video := h.newVideo(t)
	ctx := context.Background()

	if err := h.manager.Submit(ctx, video.ID, nil); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}

	err := h.manager.Submit(ctx, video.ID, nil)
	if !errors.Is(err, pipeline.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}

	snapshot, err := h.manager.Status(ctx, video.ID)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if snapshot.Status != timeline.StatusProcessing {
		t.Fatalf("expected processing while run blocked, got %s", snapshot.Status)
	}

	close(h.segmenter.gate)
	h.manager.Wait()

	if active := h.manager.ActiveRuns(); active != 0 {
		t.Fatalf("expected drained registry, got %d active", active)
	}
	stored, _ := h.store.GetVideo(ctx, video.ID)
	if stored.Status != timeline.StatusReady {
		t.Fatalf("expected ready after drain, got %s", stored.Status)
	}
	count, _ := h.store.CountEntries(ctx, video.ID)
	if count != 3 {
		t.Fatalf("expected one committed entry set, got %d entries", count)
	}
}

func TestSubmitRejectsStoredProcessing(t *testing.T) {
	h := newHarness(t)
	video := h.newVideo(t)
	ctx := context.Background()

	if err := h.store.UpdateVideoStatus(ctx, video.ID, timeline.StatusProcessing); err != nil {
		t.Fatalf("UpdateVideoStatus failed: %v", err)
	}
	err := h.manager.Submit(ctx, video.ID, nil)
	if !errors.Is(err, pipeline.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning for stored processing, got %v", err)
	}
}

func TestSubmitUnknownVideo(t *testing.T) {
	h := newHarness(t)
	err := h.manager.Submit(context.Background(), "no-such-id", nil)
	if !errors.Is(err, timeline.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSubmitPersistsOverrides(t *testing.T) {
	h := newHarness(t)
	video := h.newVideo(t)
	ctx := context.Background()

	overrides := &pipeline.Overrides{WhisperModel: "medium"}
	if err := h.manager.Submit(ctx, video.ID, overrides); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	for _, model := range h.transcriber.models {
		if model != "medium" {
			t.Fatalf("expected override model, transcriber saw %q", model)
		}
	}

	stored, _ := h.store.GetVideo(ctx, video.ID)
	decoded, err := pipeline.DecodeOverrides(stored.ConfigJSON)
	if err != nil {
		t.Fatalf("DecodeOverrides failed: %v", err)
	}
	if decoded.WhisperModel != "medium" {
		t.Fatalf("expected persisted override, got %+v", decoded)
	}

	// Overrides stick across resubmission.
	h.transcriber.models = nil
	if err := h.manager.Submit(ctx, video.ID, nil); err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}
	if len(h.transcriber.models) == 0 || h.transcriber.models[0] != "medium" {
		t.Fatalf("expected persisted override on resubmit, transcriber saw %v", h.transcriber.models)
	}
}

func TestSubmitTranslationFailureKeepsPriorEntries(t *testing.T) {
	h := newHarness(t)
	video := h.newVideo(t)
	ctx := context.Background()

	// A successful first run commits a set.
	if err := h.manager.Submit(ctx, video.ID, nil); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}

	h.translator.failAll = errors.New("provider unreachable")
	if err := h.manager.Submit(ctx, video.ID, nil); err != nil {
		t.Fatalf("second Submit failed: %v", err)
	}

	stored, _ := h.store.GetVideo(ctx, video.ID)
	if stored.Status != timeline.StatusError {
		t.Fatalf("expected error status, got %s", stored.Status)
	}
	if !strings.Contains(stored.ErrorMessage, "translate") {
		t.Fatalf("expected translate stage in message, got %q", stored.ErrorMessage)
	}

	entries, _ := h.store.ListEntries(ctx, video.ID)
	if len(entries) != 3 {
		t.Fatalf("failed run must not touch committed entries, got %d", len(entries))
	}
	if entries[0].TextTranslated != "译:line 1" {
		t.Fatalf("prior translations must survive, got %q", entries[0].TextTranslated)
	}
}

func TestSubmitNoSpeechYieldsReadyEmptyTimeline(t *testing.T) {
	h := newHarness(t)
	h.segmenter.intervals = nil
	video := h.newVideo(t)
	ctx := context.Background()

	if err := h.manager.Submit(ctx, video.ID, nil); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	stored, _ := h.store.GetVideo(ctx, video.ID)
	if stored.Status != timeline.StatusReady {
		t.Fatalf("expected ready for silent video, got %s", stored.Status)
	}
	count, _ := h.store.CountEntries(ctx, video.ID)
	if count != 0 {
		t.Fatalf("expected empty timeline, got %d entries", count)
	}
	if h.translator.passes != 0 {
		t.Fatalf("translator must not run without entries, got %d passes", h.translator.passes)
	}
}

func TestSubmitRequiresAudioStream(t *testing.T) {
	h := newHarness(t)
	h.prober.hasAudio = false
	video := h.newVideo(t)
	ctx := context.Background()

	if err := h.manager.Submit(ctx, video.ID, nil); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	stored, _ := h.store.GetVideo(ctx, video.ID)
	if stored.Status != timeline.StatusError {
		t.Fatalf("expected error status, got %s", stored.Status)
	}
	if !strings.Contains(stored.ErrorMessage, "no audio stream") {
		t.Fatalf("expected audio stream message, got %q", stored.ErrorMessage)
	}
}

func TestResubmitReplacesEntireEntrySet(t *testing.T) {
	h := newHarness(t)
	h.segmenter.intervals = []vad.Interval{{Start: 1.0, End: 2.0}, {Start: 3.0, End: 4.0}}
	video := h.newVideo(t)
	ctx := context.Background()

	if err := h.manager.Submit(ctx, video.ID, nil); err != nil {
		t.Fatalf("first Submit failed: %v", err)
	}

	// A user adds a manual entry between runs.
	if _, err := h.store.CreateEntry(ctx, video.ID, 20, 21, "manual note", ""); err != nil {
		t.Fatalf("CreateEntry failed: %v", err)
	}

	h.segmenter.intervals = []vad.Interval{
		{Start: 1.0, End: 2.5},
		{Start: 4.0, End: 5.0},
		{Start: 10.0, End: 12.0},
	}
	if err := h.manager.Submit(ctx, video.ID, nil); err != nil {
		t.Fatalf("resubmit failed: %v", err)
	}

	entries, _ := h.store.ListEntries(ctx, video.ID)
	if len(entries) != 3 {
		t.Fatalf("expected replaced entry set of 3, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry.TextOriginal == "manual note" {
			t.Fatal("manual entry must not survive a reprocessing run")
		}
	}
}

func TestStatusSnapshot(t *testing.T) {
	h := newHarness(t)
	video := h.newVideo(t)
	ctx := context.Background()

	before, err := h.manager.Status(ctx, video.ID)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if before.Status != timeline.StatusUploading {
		t.Fatalf("expected uploading, got %s", before.Status)
	}
	if before.PlaybackPath != "" {
		t.Fatalf("playback path must be empty before ready, got %q", before.PlaybackPath)
	}

	if err := h.manager.Submit(ctx, video.ID, nil); err != nil {
		t.Fatalf("Submit failed: %v", err)
	}

	after, err := h.manager.Status(ctx, video.ID)
	if err != nil {
		t.Fatalf("Status failed: %v", err)
	}
	if after.Status != timeline.StatusReady {
		t.Fatalf("expected ready, got %s", after.Status)
	}
	if after.PlaybackPath != "/videos/movie.mkv" {
		t.Fatalf("expected playback path, got %q", after.PlaybackPath)
	}
	if after.DurationSeconds != 30 {
		t.Fatalf("expected duration 30, got %v", after.DurationSeconds)
	}
	if after.EntryCount != 3 {
		t.Fatalf("expected 3 entries, got %d", after.EntryCount)
	}
	if after.Filename != "movie.mkv" || after.Title != "Movie" {
		t.Fatalf("unexpected identity fields: %+v", after)
	}

	if _, err := h.manager.Status(ctx, "missing"); !errors.Is(err, timeline.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown video, got %v", err)
	}
}
