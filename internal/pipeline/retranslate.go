package pipeline

import (
	"context"
	"fmt"

	"sublate/internal/logging"
	"sublate/internal/services"
	"sublate/internal/timeline"
	"sublate/internal/translate"
)

// RetranslateEntry regenerates the translation for a single entry using its
// current neighbors as context and writes only that entry's translated text.
// A provider failure surfaces to the caller and leaves the stored translation
// and video status untouched.
func (m *Manager) RetranslateEntry(ctx context.Context, entryID int64) (*timeline.Entry, error) {
	entry, err := m.store.GetEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}
	video, err := m.store.GetVideo(ctx, entry.VideoID)
	if err != nil {
		return nil, err
	}
	entries, err := m.store.ListEntries(ctx, entry.VideoID)
	if err != nil {
		return nil, err
	}

	index := -1
	items := make([]translate.Item, len(entries))
	for i, candidate := range entries {
		items[i] = translate.Item{
			Original:   candidate.TextOriginal,
			Translated: candidate.TextTranslated,
		}
		if candidate.ID == entryID {
			index = i
		}
	}
	if index < 0 {
		return nil, fmt.Errorf("entry %d: %w", entryID, timeline.ErrNotFound)
	}

	overrides, err := DecodeOverrides(video.ConfigJSON)
	if err != nil {
		return nil, err
	}
	translator, err := m.translatorFactory(overrides.apply(m.cfg))
	if err != nil {
		return nil, err
	}

	ctx = services.WithVideoID(ctx, video.ID)
	ctx = services.WithEntryID(ctx, entryID)
	translation, err := translator.RetranslateOne(ctx, items, index)
	if err != nil {
		return nil, err
	}

	updated, err := m.store.UpdateEntry(ctx, entryID, timeline.EntryPatch{TextTranslated: &translation})
	if err != nil {
		return nil, err
	}
	logging.WithContext(ctx, m.logger).Info("entry retranslated")
	return updated, nil
}
