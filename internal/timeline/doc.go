// Package timeline persists videos and their bilingual subtitle entries in
// SQLite and exposes helpers for driving the video lifecycle.
//
// The Store manages database connections, schema initialization, stats
// queries, stale-run recovery, and the status transitions that mirror the
// public pipeline enum. Entries capture cue timing, original and translated
// text, and transcription confidence so the pipeline and editors can
// coordinate without additional state.
//
// All entry reads are ordered by start time with identifier as the tie
// breaker, and ReplaceAll swaps a video's entire entry set inside a single
// transaction so readers never observe a partially translated timeline.
//
// Treat this package as the single source of truth for timeline semantics;
// when you add new statuses or columns, update schema.sql and bump
// schemaVersion.
package timeline
