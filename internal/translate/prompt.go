package translate

import (
	"fmt"
	"strings"
)

const baseSystemPrompt = "You are a professional translator."

// promptContext carries the window text surrounding the sentence being
// translated. Each field holds zero or more lines joined with newlines.
type promptContext struct {
	previousOriginal   string
	followingOriginal  string
	previousTranslated string
}

// buildPrompt renders the user prompt for one sentence. The shape matters:
// the right-hand context is original text only, and the model is told to
// answer with nothing but the translation.
func buildPrompt(text, targetLanguage string, pctx promptContext) string {
	var contextSection strings.Builder
	if pctx.previousOriginal != "" {
		fmt.Fprintf(&contextSection, "Previous original text: \"%s\"\n", pctx.previousOriginal)
	}
	if pctx.followingOriginal != "" {
		fmt.Fprintf(&contextSection, "Next original text: \"%s\"\n", pctx.followingOriginal)
	}
	if pctx.previousTranslated != "" {
		fmt.Fprintf(&contextSection, "Previously translated text: \"%s\"\n", pctx.previousTranslated)
	}

	return fmt.Sprintf(`You are a professional subtitle translator. Translate the following sentence to %s.

Context information:
%s
Rules:
1. Focus on reasonable segmentation and semantic coherence.
2. Maintain consistency with the previously translated text.
3. Return ONLY the translated text, no explanations or JSON.

Sentence to translate:
"%s"`, targetLanguage, contextSection.String(), text)
}

// cleanResponse strips the wrapping models add despite the return-only-text
// instruction: code fences and a single pair of surrounding double quotes.
func cleanResponse(content string) string {
	trimmed := strings.TrimSpace(stripCodeFence(content))
	if len(trimmed) >= 2 && strings.HasPrefix(trimmed, `"`) && strings.HasSuffix(trimmed, `"`) {
		trimmed = strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	return trimmed
}

func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}
	body := trimmed[3:]
	if idx := strings.IndexByte(body, '\n'); idx >= 0 {
		body = body[idx+1:]
	}
	if idx := strings.LastIndex(body, "```"); idx >= 0 {
		body = body[:idx]
	}
	return strings.TrimSpace(body)
}
