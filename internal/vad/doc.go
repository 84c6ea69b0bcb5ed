// Package vad finds speech on an extracted waveform by inverting ffmpeg
// silencedetect output.
//
// The Segmenter runs ffmpeg with a silencedetect filter, parses the reported
// silence spans from stderr, and returns the complementary speech intervals
// in ascending order. Intervals shorter than the configured floor are
// dropped and the survivors are padded at both edges, clamped to the media
// duration. Identical waveform and options always produce identical
// intervals.
package vad
