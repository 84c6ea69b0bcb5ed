// Package language normalizes language identifiers between the forms the
// pipeline needs: ISO 639 codes for the transcriber and human-readable names
// for translation prompts.
package language
