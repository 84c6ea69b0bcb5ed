package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateWhisper(); err != nil {
		return err
	}
	if err := c.validateVAD(); err != nil {
		return err
	}
	if err := c.validateTranslator(); err != nil {
		return err
	}
	if err := c.validateWorkflow(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateWhisper() error {
	if c.Whisper.Model == "" && c.Whisper.ModelPath == "" {
		return errors.New("whisper.model or whisper.model_path must be set")
	}
	if c.Whisper.TimeoutSeconds <= 0 {
		return errors.New("whisper.timeout_seconds must be positive")
	}
	return nil
}

func (c *Config) validateVAD() error {
	if c.VAD.NoiseFloorDB >= 0 {
		return errors.New("vad.noise_floor_db must be negative (decibels relative to full scale)")
	}
	if c.VAD.MinSilenceSeconds <= 0 {
		return errors.New("vad.min_silence_seconds must be positive")
	}
	if c.VAD.MinSpeechSeconds <= 0 {
		return errors.New("vad.min_speech_seconds must be positive")
	}
	if c.VAD.SpeechPadSeconds < 0 {
		return errors.New("vad.speech_pad_seconds must be >= 0")
	}
	return nil
}

func (c *Config) validateTranslator() error {
	switch c.Translator.Provider {
	case "openai", "groq":
	default:
		return fmt.Errorf("translator.provider must be one of openai, groq (got %q)", c.Translator.Provider)
	}
	if c.Translator.TargetLanguage == "" {
		return errors.New("translator.target_language must be set")
	}
	if c.Translator.ContextWindow < 1 {
		return errors.New("translator.context_window must be >= 1")
	}
	return nil
}

func (c *Config) validateWorkflow() error {
	if err := ensurePositiveMap(map[string]int{
		"workflow.poll_interval":      c.Workflow.PollInterval,
		"workflow.max_active_runs":    c.Workflow.MaxActiveRuns,
		"workflow.transcribe_workers": c.Workflow.TranscribeWorkers,
	}); err != nil {
		return err
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
