package translate

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Glossary holds preferred term renderings injected into the system prompt
// so recurring names and jargon translate consistently across a timeline.
type Glossary struct {
	Terms map[string]string `yaml:"terms"`
}

// LoadGlossary reads a YAML glossary file. An empty path yields an empty
// glossary.
func LoadGlossary(path string) (Glossary, error) {
	var glossary Glossary
	if strings.TrimSpace(path) == "" {
		return glossary, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return glossary, fmt.Errorf("read glossary: %w", err)
	}
	if err := yaml.Unmarshal(data, &glossary); err != nil {
		return glossary, fmt.Errorf("parse glossary: %w", err)
	}
	return glossary, nil
}

// promptSection renders the glossary as prompt lines in a stable order.
// Returns empty for an empty glossary.
func (g Glossary) promptSection() string {
	if len(g.Terms) == 0 {
		return ""
	}
	keys := make([]string, 0, len(g.Terms))
	for key := range g.Terms {
		if strings.TrimSpace(key) == "" {
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return ""
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString("Preferred term renderings (use these consistently):\n")
	for _, key := range keys {
		fmt.Fprintf(&b, "- %s: %s\n", key, g.Terms[key])
	}
	return strings.TrimRight(b.String(), "\n")
}
