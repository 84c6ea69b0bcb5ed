package preflight

import (
	"context"

	"sublate/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	// Staging directory (always checked)
	results = append(results, CheckDirectoryAccess("Staging directory", cfg.Paths.StagingDir))

	// Library directory (when configured)
	if cfg.Paths.LibraryDir != "" {
		results = append(results, CheckDirectoryAccess("Library directory", cfg.Paths.LibraryDir))
	}

	// Glossary file (when configured)
	if cfg.Translator.GlossaryPath != "" {
		results = append(results, CheckGlossary(cfg.Translator.GlossaryPath))
	}

	// Translation provider. Translation is not optional, so the check is not
	// gated by a feature toggle.
	results = append(results, CheckTranslator(ctx, cfg))

	return results
}
