// Package llm provides an OpenAI-compatible chat completion client used for
// subtitle translation.
//
// # Configuration
//
// Requires api_key and model, and optionally base_url, referer, title, and
// timeout. base_url may be an API root (chat/completions is appended) or a
// full completions endpoint.
//
// # Entry Points
//
// NewClient: construct client from Config.
// Client.CompleteText: send system/user prompts, receive the completion text.
// Client.HealthCheck: verify API key and model availability.
//
// # Retry Behaviour
//
// The client retries on HTTP 408/429/5xx errors, empty completions, and
// network timeouts with exponential backoff (base 1s, max 10s, up to 5
// attempts by default), honoring Retry-After when the server provides it.
// Context cancellation aborts retries immediately.
package llm
