package models

import "time"

// Strategy names the path through the resolver that produced a result
type Strategy string

const (
	StrategyDirect     Strategy = "direct"      // Exactly one file contains the valid time
	StrategyInitOffset Strategy = "init-offset" // init hour + forecast hour == valid hour
	StrategyBaseOffset Strategy = "base-offset" // base time + forecast hour == valid time
	StrategyStatic     Strategy = "static"      // Time-independent output (geogrid)
)

// FileCandidate is a globbed path plus the time fields read from its name.
// Empty text fields mean the filename does not carry that encoding; the
// numeric fields hold the parsed hours when the text is present.
type FileCandidate struct {
	Path             string
	Canonical        string
	ForecastHourText string
	InitHourText     string
	ForecastHour     int
	InitHour         int
}

// ResolutionResult holds the files matched for a request.
//
// UnreadFiles starts out equal to ValidFiles and loses its head each time a
// reader consumes a file, so it is always a suffix of ValidFiles.
type ResolutionResult struct {
	ValidFiles  []string   `json:"valid_files"`
	UnreadFiles []string   `json:"unread_files"`
	Strategy    Strategy   `json:"strategy"`
	SearchPath  string     `json:"search_path"`
	BaseTime    *time.Time `json:"base_time,omitempty"`
}

// RegisterMatch records path as a valid file and queues it for reading
func (r *ResolutionResult) RegisterMatch(path string) {
	if len(r.ValidFiles) == 0 {
		r.ValidFiles = []string{path}
		r.UnreadFiles = []string{path}
		return
	}
	r.ValidFiles = append(r.ValidFiles, path)
	r.UnreadFiles = append(r.UnreadFiles, path)
}

// NextUnread returns the head of the unread queue without removing it
func (r *ResolutionResult) NextUnread() (string, bool) {
	if len(r.UnreadFiles) == 0 {
		return "", false
	}
	return r.UnreadFiles[0], true
}

// PopUnread removes and returns the head of the unread queue.
// ValidFiles is never modified.
func (r *ResolutionResult) PopUnread() (string, bool) {
	if len(r.UnreadFiles) == 0 {
		return "", false
	}
	head := r.UnreadFiles[0]
	r.UnreadFiles = r.UnreadFiles[1:]
	return head, true
}

// Consumed returns how many files have been read so far
func (r *ResolutionResult) Consumed() int {
	return len(r.ValidFiles) - len(r.UnreadFiles)
}
