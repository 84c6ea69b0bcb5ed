package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"sublate/internal/srt"
	"sublate/internal/timeline"
)

// formatStatusLabel converts stored status values into display labels,
// e.g. "uploading" becomes "Uploading".
func formatStatusLabel(value string) string {
	parts := strings.Split(value, "_")
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToUpper(part[:1]) + part[1:]
	}
	return strings.Join(parts, " ")
}

func formatDisplayTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02 15:04")
}

// formatSeconds renders a duration as h:mm:ss, or m:ss under an hour.
func formatSeconds(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	total := int(seconds + 0.5)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

// truncateText shortens cell text by rune so multibyte scripts survive.
func truncateText(value string, max int) string {
	value = strings.TrimSpace(value)
	runes := []rune(value)
	if max <= 3 || len(runes) <= max {
		return value
	}
	return string(runes[:max-3]) + "..."
}

func parseEntryID(value string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid entry id %q", value)
	}
	return id, nil
}

func buildVideoStatusRows(stats map[timeline.Status]int) [][]string {
	rows := make([][]string, 0, len(stats))
	for _, status := range timeline.AllStatuses() {
		count, ok := stats[status]
		if !ok || count == 0 {
			continue
		}
		rows = append(rows, []string{formatStatusLabel(string(status)), strconv.Itoa(count)})
	}
	return rows
}

func buildVideoListRows(ctx context.Context, store *timeline.Store, videos []*timeline.Video) ([][]string, error) {
	rows := make([][]string, 0, len(videos))
	for _, video := range videos {
		count, err := store.CountEntries(ctx, video.ID)
		if err != nil {
			return nil, err
		}
		duration := "-"
		if video.DurationSeconds != nil {
			duration = formatSeconds(*video.DurationSeconds)
		}
		rows = append(rows, []string{
			video.ID,
			truncateText(video.Title, 40),
			formatStatusLabel(string(video.Status)),
			duration,
			strconv.Itoa(count),
			formatDisplayTime(video.UpdatedAt),
		})
	}
	return rows, nil
}

func buildEntryRows(entries []*timeline.Entry) [][]string {
	rows := make([][]string, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, []string{
			strconv.FormatInt(entry.ID, 10),
			srt.FormatTimestamp(entry.StartSeconds),
			srt.FormatTimestamp(entry.EndSeconds),
			truncateText(entry.TextOriginal, 36),
			truncateText(entry.TextTranslated, 36),
			fmt.Sprintf("%.2f", entry.Confidence),
		})
	}
	return rows
}
