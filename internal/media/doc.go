// Package media wraps the ffmpeg and ffprobe command line tools for the
// pipeline's audio needs.
//
// The Extractor converts uploaded containers into the 16 kHz mono PCM WAV
// the transcriber expects and cuts per-interval snippets out of that
// waveform. Inspect probes container metadata (duration, stream layout)
// without decoding.
//
// Both entry points run external binaries through an injectable command
// runner so tests never need ffmpeg installed.
package media
