// Package pipeline orchestrates the processing run for a video: audio
// extraction, speech segmentation, bounded-concurrency transcription, and a
// causal translation pass, committed to the timeline store as one atomic
// entry-set replacement.
//
// A Manager holds an in-process run registry so each video has at most one
// run in flight; runs execute on goroutines handed to a Dispatcher and are
// tracked for draining via Wait. Stage failures mark the video errored with
// the failure message; per-interval transcription failures are absorbed into
// empty entries and never abort the run.
package pipeline
