package timeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ListEntries returns a video's subtitle entries sorted by start time, ties
// broken by identifier.
func (s *Store) ListEntries(ctx context.Context, videoID string) ([]*Entry, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT `+entryColumns+` FROM entries WHERE video_id = ? ORDER BY start_seconds, id`,
		videoID,
	)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

// GetEntry fetches a single entry by identifier.
func (s *Store) GetEntry(ctx context.Context, id int64) (*Entry, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

// CountEntries returns the number of entries on a video's timeline.
func (s *Store) CountEntries(ctx context.Context, videoID string) (int, error) {
	var count int
	row := s.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM entries WHERE video_id = ?`, videoID)
	if err := row.Scan(&count); err != nil {
		return 0, fmt.Errorf("count entries: %w", err)
	}
	return count, nil
}

// CreateEntry adds a manual entry to a video's timeline. Manual entries carry
// full confidence; the translated text may be left empty.
func (s *Store) CreateEntry(ctx context.Context, videoID string, start, end float64, textOriginal, textTranslated string) (*Entry, error) {
	if !(start < end) {
		return nil, fmt.Errorf("start %.3f must precede end %.3f: %w", start, end, ErrInvalidRange)
	}
	if _, err := s.GetVideo(ctx, videoID); err != nil {
		return nil, err
	}

	res, err := s.execWithRetry(
		ctx,
		`INSERT INTO entries (
            video_id, start_seconds, end_seconds, text_original, text_translated, confidence
        ) VALUES (?, ?, ?, ?, ?, ?)`,
		videoID,
		start,
		end,
		textOriginal,
		textTranslated,
		1.0,
	)
	if err != nil {
		return nil, fmt.Errorf("insert entry: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	if err := s.touchVideo(ctx, videoID); err != nil {
		return nil, err
	}
	return s.GetEntry(ctx, id)
}

// UpdateEntry applies a partial update to an entry. A patch that would leave
// start_seconds >= end_seconds is rejected with ErrInvalidRange and the row
// stays untouched.
func (s *Store) UpdateEntry(ctx context.Context, id int64, patch EntryPatch) (*Entry, error) {
	ctx = ensureContext(ctx)
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin entry tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row := tx.QueryRowContext(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = ?`, id)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get entry: %w", err)
	}

	if patch.StartSeconds != nil {
		entry.StartSeconds = *patch.StartSeconds
	}
	if patch.EndSeconds != nil {
		entry.EndSeconds = *patch.EndSeconds
	}
	if patch.TextOriginal != nil {
		entry.TextOriginal = *patch.TextOriginal
	}
	if patch.TextTranslated != nil {
		entry.TextTranslated = *patch.TextTranslated
	}
	if patch.Confidence != nil {
		entry.Confidence = *patch.Confidence
	}

	if !(entry.StartSeconds < entry.EndSeconds) {
		return nil, fmt.Errorf("start %.3f must precede end %.3f: %w", entry.StartSeconds, entry.EndSeconds, ErrInvalidRange)
	}

	_, err = tx.ExecContext(
		ctx,
		`UPDATE entries
         SET start_seconds = ?, end_seconds = ?, text_original = ?, text_translated = ?, confidence = ?
         WHERE id = ?`,
		entry.StartSeconds,
		entry.EndSeconds,
		entry.TextOriginal,
		entry.TextTranslated,
		entry.Confidence,
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("update entry: %w", err)
	}

	if err := touchVideoTx(ctx, tx, entry.VideoID); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit entry update: %w", err)
	}
	return entry, nil
}

// DeleteEntry removes an entry from its video's timeline.
func (s *Store) DeleteEntry(ctx context.Context, id int64) error {
	entry, err := s.GetEntry(ctx, id)
	if err != nil {
		return err
	}
	res, err := s.execWithRetry(ctx, `DELETE FROM entries WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("entry %d: %w", id, ErrNotFound)
	}
	return s.touchVideo(ctx, entry.VideoID)
}

// ReplaceAll swaps a video's entire entry set in one transaction. Readers see
// the old set or the new set, never a mix. Every candidate entry is validated
// before any row changes.
func (s *Store) ReplaceAll(ctx context.Context, videoID string, entries []*Entry) error {
	for _, entry := range entries {
		if entry == nil {
			return errors.New("entry is nil")
		}
		if !(entry.StartSeconds < entry.EndSeconds) {
			return fmt.Errorf("start %.3f must precede end %.3f: %w", entry.StartSeconds, entry.EndSeconds, ErrInvalidRange)
		}
	}

	ctx = ensureContext(ctx)
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin replace tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		var exists int
		row := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM videos WHERE id = ?`, videoID)
		if err := row.Scan(&exists); err != nil {
			return fmt.Errorf("check video: %w", err)
		}
		if exists == 0 {
			return fmt.Errorf("video %s: %w", videoID, ErrNotFound)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM entries WHERE video_id = ?`, videoID); err != nil {
			return fmt.Errorf("clear entries: %w", err)
		}

		for _, entry := range entries {
			_, err := tx.ExecContext(
				ctx,
				`INSERT INTO entries (
                    video_id, start_seconds, end_seconds, text_original, text_translated, confidence
                ) VALUES (?, ?, ?, ?, ?, ?)`,
				videoID,
				entry.StartSeconds,
				entry.EndSeconds,
				entry.TextOriginal,
				entry.TextTranslated,
				entry.Confidence,
			)
			if err != nil {
				return fmt.Errorf("insert replacement entry: %w", err)
			}
		}

		if err := touchVideoTx(ctx, tx, videoID); err != nil {
			return err
		}

		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit replace: %w", err)
		}
		return nil
	})
}

func (s *Store) touchVideo(ctx context.Context, videoID string) error {
	_, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET updated_at = ? WHERE id = ?`,
		nowTimestamp(),
		videoID,
	)
	if err != nil {
		return fmt.Errorf("touch video: %w", err)
	}
	return nil
}

func touchVideoTx(ctx context.Context, tx *sql.Tx, videoID string) error {
	_, err := tx.ExecContext(
		ctx,
		`UPDATE videos SET updated_at = ? WHERE id = ?`,
		nowTimestamp(),
		videoID,
	)
	if err != nil {
		return fmt.Errorf("touch video: %w", err)
	}
	return nil
}
