package timeline

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"
)

// CreateVideo inserts a new video in the uploading state.
func (s *Store) CreateVideo(ctx context.Context, id, filename, title, sourcePath string) (*Video, error) {
	if strings.TrimSpace(id) == "" {
		return nil, errors.New("video id is required")
	}
	if strings.TrimSpace(filename) == "" {
		return nil, errors.New("video filename is required")
	}
	timestamp := nowTimestamp()

	_, err := s.execWithRetry(
		ctx,
		`INSERT INTO videos (
            id, filename, title, source_path, status, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		id,
		filename,
		title,
		nullableString(sourcePath),
		StatusUploading,
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert video: %w", err)
	}

	return s.GetVideo(ctx, id)
}

// GetVideo fetches a video by identifier.
func (s *Store) GetVideo(ctx context.Context, id string) (*Video, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+videoColumns+` FROM videos WHERE id = ?`, id)
	video, err := scanVideo(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("video %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get video: %w", err)
	}
	return video, nil
}

// ListVideos returns videos filtered by status set (or all videos when no
// status is provided) ordered by creation time.
func (s *Store) ListVideos(ctx context.Context, statuses ...Status) ([]*Video, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + videoColumns + ` FROM videos`
	orderClause := ` ORDER BY created_at, id`

	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list videos: %w", err)
	}
	defer rows.Close()

	var videos []*Video
	for rows.Next() {
		video, err := scanVideo(rows)
		if err != nil {
			return nil, err
		}
		videos = append(videos, video)
	}
	return videos, rows.Err()
}

// UpdateVideoStatus transitions a video to a new status. The stale error
// message is cleared; failures are recorded through SetVideoError instead.
func (s *Store) UpdateVideoStatus(ctx context.Context, id string, status Status) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET status = ?, error_message = NULL, updated_at = ? WHERE id = ?`,
		status,
		nowTimestamp(),
		id,
	)
	if err != nil {
		return fmt.Errorf("update video status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("video %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetVideoError marks a video failed and records the failure message.
func (s *Store) SetVideoError(ctx context.Context, id, message string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET status = ?, error_message = ?, updated_at = ? WHERE id = ?`,
		StatusError,
		nullableString(message),
		nowTimestamp(),
		id,
	)
	if err != nil {
		return fmt.Errorf("set video error: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("video %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetVideoMedia records the extracted audio path and probed duration.
func (s *Store) SetVideoMedia(ctx context.Context, id, audioPath string, durationSeconds float64) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET audio_path = ?, duration_seconds = ?, updated_at = ? WHERE id = ?`,
		nullableString(audioPath),
		durationSeconds,
		nowTimestamp(),
		id,
	)
	if err != nil {
		return fmt.Errorf("set video media: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("video %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetVideoConfig stores the per-video processing overrides as JSON. An empty
// string clears the overrides.
func (s *Store) SetVideoConfig(ctx context.Context, id, configJSON string) error {
	res, err := s.execWithRetry(
		ctx,
		`UPDATE videos SET config_json = ?, updated_at = ? WHERE id = ?`,
		nullableString(configJSON),
		nowTimestamp(),
		id,
	)
	if err != nil {
		return fmt.Errorf("set video config: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("video %s: %w", id, ErrNotFound)
	}
	return nil
}

// ResetStale moves processing videos back to uploading so they can be
// resubmitted after a crash. When id is empty all processing videos reset;
// otherwise only the named video is touched.
func (s *Store) ResetStale(ctx context.Context, id string) (int64, error) {
	timestamp := nowTimestamp()

	var (
		res sql.Result
		err error
	)
	if id == "" {
		res, err = s.execWithRetry(
			ctx,
			`UPDATE videos SET status = ?, error_message = NULL, updated_at = ? WHERE status = ?`,
			StatusUploading,
			timestamp,
			StatusProcessing,
		)
	} else {
		res, err = s.execWithRetry(
			ctx,
			`UPDATE videos SET status = ?, error_message = NULL, updated_at = ? WHERE id = ? AND status = ?`,
			StatusUploading,
			timestamp,
			id,
			StatusProcessing,
		)
	}
	if err != nil {
		return 0, fmt.Errorf("reset stale videos: %w", err)
	}
	return res.RowsAffected()
}

// RemoveVideo deletes a video; its entries cascade.
func (s *Store) RemoveVideo(ctx context.Context, id string) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM videos WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("delete video: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}

// Stats returns a count of videos grouped by status.
func (s *Store) Stats(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM videos GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("video stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// Health aggregates video state for diagnostic output.
func (s *Store) Health(ctx context.Context) (HealthSummary, error) {
	stats, err := s.Stats(ctx)
	if err != nil {
		return HealthSummary{}, err
	}
	health := HealthSummary{}
	for status, count := range stats {
		health.Total += count
		switch status {
		case StatusUploading:
			health.Uploading += count
		case StatusProcessing:
			health.Processing += count
		case StatusReady:
			health.Ready += count
		case StatusError:
			health.Errored += count
		}
	}
	return health, nil
}

// CheckHealth returns diagnostic information about the timeline database.
func (s *Store) CheckHealth(ctx context.Context) (DatabaseHealth, error) {
	health := DatabaseHealth{DBPath: s.path}

	if s.path == "" {
		return health, errors.New("timeline database path is unknown")
	}

	info, err := os.Stat(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			health.DatabaseExists = false
			return health, nil
		}
		return health, fmt.Errorf("stat timeline database: %w", err)
	}
	if info.IsDir() {
		return health, fmt.Errorf("timeline database path %q is a directory", s.path)
	}
	health.DatabaseExists = true

	if s.db == nil {
		return health, errors.New("timeline database connection unavailable")
	}

	connCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := s.db.PingContext(connCtx); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("ping timeline database: %w", err)
	}
	health.DatabaseReadable = true

	expected := []string{"videos", "entries"}
	for _, table := range expected {
		var name string
		row := s.db.QueryRowContext(connCtx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		if err := row.Scan(&name); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				health.MissingTables = append(health.MissingTables, table)
				continue
			}
			health.Error = err.Error()
			return health, fmt.Errorf("query table info: %w", err)
		}
		health.TablesPresent = append(health.TablesPresent, name)
	}

	if len(health.MissingTables) == 0 {
		row := s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM videos")
		if err := row.Scan(&health.TotalVideos); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count videos: %w", err)
		}
		row = s.db.QueryRowContext(connCtx, "SELECT COUNT(*) FROM entries")
		if err := row.Scan(&health.TotalEntries); err != nil {
			health.Error = err.Error()
			return health, fmt.Errorf("count entries: %w", err)
		}
	}

	row := s.db.QueryRowContext(connCtx, "PRAGMA integrity_check")
	var integrityResult string
	if err := row.Scan(&integrityResult); err != nil {
		health.Error = err.Error()
		return health, fmt.Errorf("integrity check: %w", err)
	}
	health.IntegrityCheck = strings.EqualFold(integrityResult, "ok")

	return health, nil
}
