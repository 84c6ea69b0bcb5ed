package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"sublate/internal/config"
	"sublate/internal/logging"
	"sublate/internal/media"
	"sublate/internal/services/whisper"
	"sublate/internal/timeline"
	"sublate/internal/translate"
	"sublate/internal/vad"
)

// AudioExtractor produces transcription-ready waveforms from media files.
type AudioExtractor interface {
	ExtractAudio(ctx context.Context, source, dest string) error
	CutSnippet(ctx context.Context, source, dest string, startSeconds, durationSeconds float64) error
}

// MediaProber inspects a container for duration and stream layout.
type MediaProber interface {
	Inspect(ctx context.Context, path string) (media.ProbeResult, error)
}

// SpeechSegmenter detects speech intervals on an extracted waveform.
type SpeechSegmenter interface {
	DetectSpeech(ctx context.Context, path string, durationSeconds float64) ([]vad.Interval, error)
}

// Transcriber converts one audio snippet into text with a confidence score.
// An empty model selects the configured default tier.
type Transcriber interface {
	Transcribe(ctx context.Context, source, workDir, model string) (whisper.Result, error)
}

// TranscriberFactory builds a Transcriber for one run from the effective
// configuration, so per-video overrides reach the model tier and language
// hint.
type TranscriberFactory func(cfg *config.Config) Transcriber

// Translator produces translations for a whole timeline and for single
// entries.
type Translator interface {
	TranslateAll(ctx context.Context, originals []string) ([]string, error)
	RetranslateOne(ctx context.Context, items []translate.Item, index int) (string, error)
}

// TranslatorFactory builds a Translator for one run from the effective
// configuration (global config merged with per-video overrides).
type TranslatorFactory func(cfg *config.Config) (Translator, error)

// Dispatcher launches accepted runs. The default implementation spawns one
// goroutine per run; tests substitute a synchronous dispatcher.
type Dispatcher interface {
	Dispatch(run func())
}

type goDispatcher struct{}

func (goDispatcher) Dispatch(run func()) { go run() }

// Manager coordinates processing runs against the timeline store.
type Manager struct {
	cfg    *config.Config
	store  *timeline.Store
	logger *slog.Logger

	extractor          AudioExtractor
	prober             MediaProber
	segmenter          SpeechSegmenter
	transcriberFactory TranscriberFactory
	translatorFactory  TranslatorFactory
	dispatcher         Dispatcher

	mu     sync.Mutex
	active map[string]struct{}
	wg     sync.WaitGroup
}

// ManagerOption configures optional Manager behavior.
type ManagerOption func(*Manager)

// WithExtractor substitutes the audio extractor.
func WithExtractor(extractor AudioExtractor) ManagerOption {
	return func(m *Manager) { m.extractor = extractor }
}

// WithProber substitutes the media prober.
func WithProber(prober MediaProber) ManagerOption {
	return func(m *Manager) { m.prober = prober }
}

// WithSegmenter substitutes the speech segmenter.
func WithSegmenter(segmenter SpeechSegmenter) ManagerOption {
	return func(m *Manager) { m.segmenter = segmenter }
}

// WithTranscriberFactory substitutes the per-run transcriber construction.
func WithTranscriberFactory(factory TranscriberFactory) ManagerOption {
	return func(m *Manager) { m.transcriberFactory = factory }
}

// WithTranscriber pins one transcriber for every run, ignoring per-video
// overrides (for testing).
func WithTranscriber(transcriber Transcriber) ManagerOption {
	return func(m *Manager) {
		m.transcriberFactory = func(*config.Config) Transcriber {
			return transcriber
		}
	}
}

// WithTranslatorFactory substitutes the per-run translator construction.
func WithTranslatorFactory(factory TranslatorFactory) ManagerOption {
	return func(m *Manager) { m.translatorFactory = factory }
}

// WithTranslator pins one translator for every run, ignoring per-video
// overrides (for testing).
func WithTranslator(translator Translator) ManagerOption {
	return func(m *Manager) {
		m.translatorFactory = func(*config.Config) (Translator, error) {
			return translator, nil
		}
	}
}

// WithDispatcher substitutes the run dispatcher (for testing).
func WithDispatcher(dispatcher Dispatcher) ManagerOption {
	return func(m *Manager) { m.dispatcher = dispatcher }
}

// NewManager constructs a Manager wired with the default component
// implementations from the configuration.
func NewManager(cfg *config.Config, store *timeline.Store, logger *slog.Logger, opts ...ManagerOption) *Manager {
	if logger == nil {
		logger = logging.NewNop()
	}
	m := &Manager{
		cfg:                cfg,
		store:              store,
		logger:             logging.NewComponentLogger(logger, "pipeline"),
		extractor:          media.NewExtractor(cfg.FFmpegBinary()),
		prober:             ffprobeProber{binary: cfg.FFprobeBinary()},
		segmenter:          vad.NewSegmenter(cfg),
		transcriberFactory: defaultTranscriberFactory,
		translatorFactory:  defaultTranslatorFactory,
		dispatcher:         goDispatcher{},
		active:             make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func defaultTranscriberFactory(cfg *config.Config) Transcriber {
	return whisper.NewService(cfg)
}

func defaultTranslatorFactory(cfg *config.Config) (Translator, error) {
	provider, err := translate.NewProvider(cfg)
	if err != nil {
		return nil, err
	}
	return translate.New(provider, cfg)
}

type ffprobeProber struct {
	binary string
}

func (p ffprobeProber) Inspect(ctx context.Context, path string) (media.ProbeResult, error) {
	return media.Inspect(ctx, p.binary, path)
}
