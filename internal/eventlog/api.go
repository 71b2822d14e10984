package eventlog

import (
	"errors"
	"time"
)

// ErrUnavailable is returned by platforms without a readable application
// event log. The watcher disables itself permanently when it sees it.
var ErrUnavailable = errors.New("application event log unavailable on this platform")

// Severity classifies an event log entry.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

// Entry is one raw entry from the OS application event log.
type Entry struct {
	TimeGenerated time.Time
	EventID       uint32
	Source        string
	Category      uint16
	Severity      Severity
	Description   string
}

// API queries the OS application event log for entries generated strictly
// after since.
type API interface {
	Query(since time.Time) ([]Entry, error)
}
