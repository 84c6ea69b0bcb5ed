package config

const (
	defaultDataDir    = "~/.local/share/sublate"
	defaultLibraryDir = "~/.local/share/sublate/library"
	defaultStagingDir = "~/.local/share/sublate/staging"
	defaultLogDir     = "~/.local/share/sublate/logs"

	defaultWhisperBinary         = "whisper-cli"
	defaultWhisperModel          = "base"
	defaultWhisperTimeoutSeconds = 600

	defaultVADNoiseFloorDB      = -30.0
	defaultVADMinSilenceSeconds = 0.5
	defaultVADMinSpeechSeconds  = 0.3
	defaultVADSpeechPadSeconds  = 0.15

	defaultTranslatorProvider = "openai"
	defaultTargetLanguage     = "Chinese"
	defaultContextWindow      = 3

	defaultLLMBaseURL        = "https://api.openai.com/v1"
	defaultLLMModel          = "gpt-4o-mini"
	defaultLLMTimeoutSeconds = 60

	defaultGroqModel = "llama-3.3-70b-versatile"

	defaultWorkflowPollInterval = 5
	defaultMaxActiveRuns        = 2
	defaultTranscribeWorkers    = 4
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			LibraryDir: defaultLibraryDir,
			StagingDir: defaultStagingDir,
			LogDir:     defaultLogDir,
		},
		Whisper: Whisper{
			Binary:         defaultWhisperBinary,
			Model:          defaultWhisperModel,
			TimeoutSeconds: defaultWhisperTimeoutSeconds,
		},
		VAD: VAD{
			NoiseFloorDB:      defaultVADNoiseFloorDB,
			MinSilenceSeconds: defaultVADMinSilenceSeconds,
			MinSpeechSeconds:  defaultVADMinSpeechSeconds,
			SpeechPadSeconds:  defaultVADSpeechPadSeconds,
		},
		Translator: Translator{
			Provider:       defaultTranslatorProvider,
			TargetLanguage: defaultTargetLanguage,
			ContextWindow:  defaultContextWindow,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Groq: Groq{
			Model: defaultGroqModel,
		},
		Workflow: Workflow{
			PollInterval:      defaultWorkflowPollInterval,
			MaxActiveRuns:     defaultMaxActiveRuns,
			TranscribeWorkers: defaultTranscribeWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
