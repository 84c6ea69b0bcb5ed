// Command sublate is the command-line interface for the sublate subtitle
// pipeline. It registers videos, drives transcription and translation runs,
// edits timeline entries, exports SRT tracks, and manages the background
// daemon process.
package main
