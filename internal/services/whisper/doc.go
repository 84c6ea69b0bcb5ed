// Package whisper shells out to the whisper.cpp CLI to transcribe audio
// snippets. It builds the command line for a model tier, reads the JSON the
// tool writes next to the input, and reduces token probabilities to a single
// confidence per transcription.
package whisper
