package timeline

import (
	"path/filepath"
	"strings"
)

// StagingRoot returns the per-video staging directory rooted at base. Video
// identifiers are UUID strings, so they are safe as path segments.
func (v Video) StagingRoot(base string) string {
	base = strings.TrimSpace(base)
	if base == "" || strings.TrimSpace(v.ID) == "" {
		return ""
	}
	return filepath.Join(base, v.ID)
}

// ExportBase returns the stem used for exported subtitle files: the original
// filename without its extension, falling back to the video identifier.
func (v Video) ExportBase() string {
	base := strings.TrimSpace(filepath.Base(v.Filename))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	if base == "" || base == "." {
		return v.ID
	}
	return base
}
