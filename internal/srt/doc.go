// Package srt renders timeline entries as SubRip subtitle files and parses
// them back. Cues number sequentially from 1 and timestamps use the
// HH:MM:SS,mmm form with millisecond rounding. Entries whose selected text is
// empty still render as cues with an empty text line so numbering stays
// aligned with the timeline.
package srt
