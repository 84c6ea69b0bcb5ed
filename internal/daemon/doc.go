// Package daemon supervises the background workflow manager and enforces
// single-instance execution through a file lock.
package daemon
