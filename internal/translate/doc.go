// Package translate produces the translated track of a subtitle timeline.
//
// The full pass folds over entries in timeline order: each entry is
// translated with a context window of preceding originals, the translations
// already produced for them, and the following originals. Translations never
// flow backwards; the right-hand context is always original text.
//
// Single-entry re-translation rebuilds the same window shape from the stored
// timeline (stored translations on the left, originals on the right) and
// issues exactly one completion for the selected entry.
//
// Providers implement the Provider interface; the OpenAI-compatible client
// and the Groq client are selected by translator.provider.
package translate
