package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeWhisper(); err != nil {
		return err
	}
	c.normalizeVAD()
	if err := c.normalizeTranslator(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizeGroq()
	c.normalizeWorkflow()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LibraryDir) == "" {
		c.Paths.LibraryDir = defaultLibraryDir
	}
	if c.Paths.LibraryDir, err = expandPath(c.Paths.LibraryDir); err != nil {
		return fmt.Errorf("paths.library_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.StagingDir) == "" {
		c.Paths.StagingDir = defaultStagingDir
	}
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeWhisper() error {
	c.Whisper.Binary = strings.TrimSpace(c.Whisper.Binary)
	if c.Whisper.Binary == "" {
		c.Whisper.Binary = defaultWhisperBinary
	}
	c.Whisper.Model = strings.TrimSpace(c.Whisper.Model)
	if c.Whisper.Model == "" {
		c.Whisper.Model = defaultWhisperModel
	}
	if c.Whisper.ModelPath != "" {
		expanded, err := expandPath(c.Whisper.ModelPath)
		if err != nil {
			return fmt.Errorf("whisper.model_path: %w", err)
		}
		c.Whisper.ModelPath = expanded
	}
	if c.Whisper.TimeoutSeconds <= 0 {
		c.Whisper.TimeoutSeconds = defaultWhisperTimeoutSeconds
	}
	return nil
}

func (c *Config) normalizeVAD() {
	if c.VAD.NoiseFloorDB == 0 {
		c.VAD.NoiseFloorDB = defaultVADNoiseFloorDB
	}
	if c.VAD.MinSilenceSeconds <= 0 {
		c.VAD.MinSilenceSeconds = defaultVADMinSilenceSeconds
	}
	if c.VAD.MinSpeechSeconds <= 0 {
		c.VAD.MinSpeechSeconds = defaultVADMinSpeechSeconds
	}
	if c.VAD.SpeechPadSeconds < 0 {
		c.VAD.SpeechPadSeconds = defaultVADSpeechPadSeconds
	}
}

func (c *Config) normalizeTranslator() error {
	c.Translator.Provider = strings.ToLower(strings.TrimSpace(c.Translator.Provider))
	if c.Translator.Provider == "" {
		c.Translator.Provider = defaultTranslatorProvider
	}
	c.Translator.SourceLanguage = strings.TrimSpace(c.Translator.SourceLanguage)
	c.Translator.TargetLanguage = strings.TrimSpace(c.Translator.TargetLanguage)
	if c.Translator.TargetLanguage == "" {
		c.Translator.TargetLanguage = defaultTargetLanguage
	}
	if c.Translator.ContextWindow <= 0 {
		c.Translator.ContextWindow = defaultContextWindow
	}
	if c.Translator.GlossaryPath != "" {
		expanded, err := expandPath(c.Translator.GlossaryPath)
		if err != nil {
			return fmt.Errorf("translator.glossary_path: %w", err)
		}
		c.Translator.GlossaryPath = expanded
	}
	return nil
}

func (c *Config) normalizeLLM() {
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("SUBLATE_LLM_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		} else if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.LLM.APIKey = strings.TrimSpace(value)
		}
	}
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	c.LLM.Referer = strings.TrimSpace(c.LLM.Referer)
	c.LLM.Title = strings.TrimSpace(c.LLM.Title)
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizeGroq() {
	c.Groq.APIKey = strings.TrimSpace(c.Groq.APIKey)
	if c.Groq.APIKey == "" {
		if value, ok := os.LookupEnv("GROQ_API_KEY"); ok {
			c.Groq.APIKey = strings.TrimSpace(value)
		}
	}
	c.Groq.Model = strings.TrimSpace(c.Groq.Model)
	if c.Groq.Model == "" {
		c.Groq.Model = defaultGroqModel
	}
}

func (c *Config) normalizeWorkflow() {
	if c.Workflow.PollInterval <= 0 {
		c.Workflow.PollInterval = defaultWorkflowPollInterval
	}
	if c.Workflow.MaxActiveRuns <= 0 {
		c.Workflow.MaxActiveRuns = defaultMaxActiveRuns
	}
	if c.Workflow.TranscribeWorkers <= 0 {
		c.Workflow.TranscribeWorkers = defaultTranscribeWorkers
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
