package events

import "time"

// FormattedRecord holds a display-ready crash record for the event pane
// and the history store.
type FormattedRecord struct {
	Type      string // "Crash Type" label of the underlying record
	Line      string // one-line summary
	Timestamp time.Time
	Suspected *bool // nil unless the record is a process termination
}
