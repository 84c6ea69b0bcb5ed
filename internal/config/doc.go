// Package config loads, normalizes, and validates sublate configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// SUBLATE_CONFIG and SUBLATE_LLM_API_KEY. The Config type centralizes every
// knob the daemon and CLI need, allowing library/staging directories and
// translation provider credentials to be discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
