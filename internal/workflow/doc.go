// Package workflow runs the background poll loop that feeds the processing
// pipeline. The manager discovers videos in the uploading state, submits
// them while respecting the configured active-run ceiling, and drains
// in-flight runs on shutdown.
package workflow
