package pipeline

import "errors"

// ErrAlreadyRunning reports a submit for a video that already has a run in
// flight, either in this process or recorded as processing in the store.
var ErrAlreadyRunning = errors.New("video is already being processed")
