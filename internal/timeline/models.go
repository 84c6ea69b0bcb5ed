package timeline

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a video.
type Status string

const (
	StatusUploading  Status = "uploading"
	StatusProcessing Status = "processing"
	StatusReady      Status = "ready"
	StatusError      Status = "error"
)

var allStatuses = []Status{
	StatusUploading,
	StatusProcessing,
	StatusReady,
	StatusError,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status marks the end of a processing run.
// Videos in a terminal state may be resubmitted, which starts a fresh run.
func (s Status) IsTerminal() bool {
	return s == StatusReady || s == StatusError
}

// Video represents an ingested video persisted in SQLite.
type Video struct {
	ID              string
	Filename        string
	Title           string
	SourcePath      string
	AudioPath       string
	Status          Status
	DurationSeconds *float64
	ConfigJSON      string
	ErrorMessage    string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Entry is one subtitle cue on a video's timeline. Times are seconds from
// the start of the media. TextTranslated is empty until translation runs.
type Entry struct {
	ID             int64
	VideoID        string
	StartSeconds   float64
	EndSeconds     float64
	TextOriginal   string
	TextTranslated string
	Confidence     float64
}

// EntryPatch describes a partial update to an entry. Nil fields are left
// unchanged.
type EntryPatch struct {
	StartSeconds   *float64
	EndSeconds     *float64
	TextOriginal   *string
	TextTranslated *string
	Confidence     *float64
}

// HealthSummary describes aggregated video counts per lifecycle state.
type HealthSummary struct {
	Total      int
	Uploading  int
	Processing int
	Ready      int
	Errored    int
}

// DatabaseHealth captures diagnostic information about the timeline database.
type DatabaseHealth struct {
	DBPath           string
	DatabaseExists   bool
	DatabaseReadable bool
	TablesPresent    []string
	MissingTables    []string
	IntegrityCheck   bool
	TotalVideos      int
	TotalEntries     int
	Error            string
}
