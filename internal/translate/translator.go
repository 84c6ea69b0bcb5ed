package translate

import (
	"context"
	"fmt"
	"strings"

	"sublate/internal/config"
	langpkg "sublate/internal/language"
)

// translationTemperature balances fidelity against fluency for subtitle text.
const translationTemperature = 0.3

// Item is one timeline entry's text as the translator sees it.
type Item struct {
	Original   string
	Translated string
}

// Translator drives a completion provider through the context-window
// translation protocol.
type Translator struct {
	provider       Provider
	targetLanguage string
	contextWindow  int
	systemPrompt   string
}

// New builds a Translator from cfg, loading the glossary when one is
// configured.
func New(provider Provider, cfg *config.Config) (*Translator, error) {
	glossary, err := LoadGlossary(cfg.Translator.GlossaryPath)
	if err != nil {
		return nil, err
	}
	system := baseSystemPrompt
	if section := glossary.promptSection(); section != "" {
		system = system + "\n\n" + section
	}
	window := cfg.Translator.ContextWindow
	if window <= 0 {
		window = 3
	}
	return &Translator{
		provider:       provider,
		targetLanguage: langpkg.PromptName(cfg.Translator.TargetLanguage),
		contextWindow:  window,
		systemPrompt:   system,
	}, nil
}

// TargetLanguage returns the prompt name of the configured target language.
func (t *Translator) TargetLanguage() string {
	return t.targetLanguage
}

// Model returns the provider's model name for logging.
func (t *Translator) Model() string {
	return t.provider.Model()
}

// HealthCheck verifies the underlying provider is usable.
func (t *Translator) HealthCheck(ctx context.Context) error {
	return t.provider.HealthCheck(ctx)
}

// TranslateAll translates originals in order and returns the translations
// aligned by index. The fold carries the translations already produced, so
// entry i sees at most contextWindow preceding translations and only
// original text to its right. Empty originals stay empty without a provider
// call. Any provider failure aborts the pass.
func (t *Translator) TranslateAll(ctx context.Context, originals []string) ([]string, error) {
	translations := make([]string, 0, len(originals))
	for i, text := range originals {
		text = strings.TrimSpace(text)
		if text == "" {
			translations = append(translations, "")
			continue
		}
		pctx := promptContext{
			previousOriginal:   joinWindow(originals[lowerBound(i, t.contextWindow):i]),
			followingOriginal:  joinWindow(originals[i+1 : upperBound(i, t.contextWindow, len(originals))]),
			previousTranslated: joinWindow(tail(translations, t.contextWindow)),
		}
		prompt := buildPrompt(text, t.targetLanguage, pctx)
		content, err := t.provider.CompleteText(ctx, t.systemPrompt, prompt, translationTemperature)
		if err != nil {
			return nil, fmt.Errorf("translate entry %d of %d: %w", i+1, len(originals), err)
		}
		translations = append(translations, cleanResponse(content))
	}
	return translations, nil
}

// RetranslateOne issues a single completion for items[index], using the
// stored translations as the left context and originals as the right
// context. The stored set is not modified; the caller decides what to do
// with the returned translation.
func (t *Translator) RetranslateOne(ctx context.Context, items []Item, index int) (string, error) {
	if index < 0 || index >= len(items) {
		return "", fmt.Errorf("entry index %d out of range [0,%d)", index, len(items))
	}
	text := strings.TrimSpace(items[index].Original)
	if text == "" {
		return "", nil
	}

	lo := lowerBound(index, t.contextWindow)
	hi := upperBound(index, t.contextWindow, len(items))

	var prevOriginal, prevTranslated, nextOriginal []string
	for _, item := range items[lo:index] {
		prevOriginal = append(prevOriginal, item.Original)
		prevTranslated = append(prevTranslated, item.Translated)
	}
	for _, item := range items[index+1 : hi] {
		nextOriginal = append(nextOriginal, item.Original)
	}

	pctx := promptContext{
		previousOriginal:   joinWindow(prevOriginal),
		followingOriginal:  joinWindow(nextOriginal),
		previousTranslated: joinWindow(prevTranslated),
	}
	prompt := buildPrompt(text, t.targetLanguage, pctx)
	content, err := t.provider.CompleteText(ctx, t.systemPrompt, prompt, translationTemperature)
	if err != nil {
		return "", fmt.Errorf("retranslate entry: %w", err)
	}
	return cleanResponse(content), nil
}

func lowerBound(i, window int) int {
	if i-window < 0 {
		return 0
	}
	return i - window
}

func upperBound(i, window, length int) int {
	if i+1+window > length {
		return length
	}
	return i + 1 + window
}

func tail(values []string, window int) []string {
	if len(values) <= window {
		return values
	}
	return values[len(values)-window:]
}

// joinWindow joins context lines, dropping empties so silent entries do not
// introduce blank lines into the prompt.
func joinWindow(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, "\n")
}
