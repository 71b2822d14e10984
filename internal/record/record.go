package record

import "time"

// Type identifies which variant of a Record is populated. The string
// values double as the "Crash Type" labels written to the crash log.
type Type string

const (
	TypeProcessTermination Type = "Process Termination"
	TypeEventLogError      Type = "Windows Event Log Error"
	TypeLogPatternMatch    Type = "Log File Error Pattern"
)

// Record is a single detected crash event. Exactly one variant pointer is
// non-nil, matching Type. Records are immutable once constructed and are
// write-once to the sink.
type Record struct {
	Timestamp time.Time
	Type      Type

	Process  *ProcessTermination
	EventLog *EventLogError
	Pattern  *LogPatternMatch
}

// ProcessTermination describes a monitored process disappearing from the
// process table.
type ProcessTermination struct {
	PID            int32
	RuntimeSeconds float64
	StartTime      time.Time
	EndTime        time.Time
	MemoryUsageMB  float64
	SuspectedCrash bool
}

// EventLogError describes an error-severity entry from the OS application
// event log.
type EventLogError struct {
	EventID     uint32
	Source      string
	Category    uint16
	Description string
}

// LogPatternMatch describes a crash-indicating pattern found in a tailed
// log file. LineNumber is 1-based and cumulative across polls.
type LogPatternMatch struct {
	File       string
	LineNumber int
	Pattern    string
	Content    string
}

// NewProcessTermination builds a process termination record.
func NewProcessTermination(ts time.Time, v ProcessTermination) Record {
	return Record{Timestamp: ts, Type: TypeProcessTermination, Process: &v}
}

// NewEventLogError builds an event log error record.
func NewEventLogError(ts time.Time, v EventLogError) Record {
	return Record{Timestamp: ts, Type: TypeEventLogError, EventLog: &v}
}

// NewLogPatternMatch builds a log pattern match record.
func NewLogPatternMatch(ts time.Time, v LogPatternMatch) Record {
	return Record{Timestamp: ts, Type: TypeLogPatternMatch, Pattern: &v}
}
