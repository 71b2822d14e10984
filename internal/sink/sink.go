package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"evewatch/internal/record"
)

// separator bounds every record block in the crash log.
var separator = strings.Repeat("=", 80)

// Sink appends rendered crash records to the output file and answers
// report queries by re-parsing it. Appends from the three watcher loops
// are serialized; a block is written with a single call so records never
// interleave mid-block.
type Sink struct {
	path string

	mu  sync.Mutex
	now func() time.Time
}

// New creates a Sink writing to path. The file and its parent directories
// are created on first append.
func New(path string) *Sink {
	return &Sink{path: path, now: time.Now}
}

// Path returns the output file location.
func (s *Sink) Path() string {
	return s.path
}

// Append renders rec into its block format and appends it to the crash
// log. Write failures drop the record; retrying would risk unbounded
// queueing across an indefinitely failing disk.
func (s *Sink) Append(rec record.Record) error {
	block := renderBlock(rec)

	s.mu.Lock()
	defer s.mu.Unlock()

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("opening crash log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(block); err != nil {
		return fmt.Errorf("appending crash record: %w", err)
	}
	return nil
}

func renderBlock(rec record.Record) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(separator + "\n")
	b.WriteString("CRASH DETECTED: " + rec.Timestamp.Format(time.RFC3339) + "\n")
	b.WriteString(separator + "\n")
	b.WriteString("Crash Type: " + string(rec.Type) + "\n")

	switch rec.Type {
	case record.TypeProcessTermination:
		p := rec.Process
		verdict := "normally"
		if p.SuspectedCrash {
			verdict = "abnormally"
		}
		fmt.Fprintf(&b, "Process ID: %d\n", p.PID)
		fmt.Fprintf(&b, "Runtime: %.1f seconds\n", p.RuntimeSeconds)
		fmt.Fprintf(&b, "Memory Usage: %.1f MB\n", p.MemoryUsageMB)
		fmt.Fprintf(&b, "Start Time: %s\n", p.StartTime.Format(time.RFC3339))
		fmt.Fprintf(&b, "End Time: %s\n", p.EndTime.Format(time.RFC3339))
		fmt.Fprintf(&b, "Suspected Crash: %t\n", p.SuspectedCrash)
		b.WriteString("\n")
		fmt.Fprintf(&b, "Additional Details: Process terminated %s\n", verdict)

	case record.TypeEventLogError:
		e := rec.EventLog
		fmt.Fprintf(&b, "Event ID: %d\n", e.EventID)
		fmt.Fprintf(&b, "Source: %s\n", e.Source)
		fmt.Fprintf(&b, "Category: %d\n", e.Category)
		fmt.Fprintf(&b, "Description: %s\n", e.Description)
		b.WriteString("\n")
		b.WriteString("Additional Details: System event log crash detection\n")

	case record.TypeLogPatternMatch:
		l := rec.Pattern
		fmt.Fprintf(&b, "File: %s\n", l.File)
		fmt.Fprintf(&b, "Line Number: %d\n", l.LineNumber)
		fmt.Fprintf(&b, "Pattern Matched: %s\n", l.Pattern)
		fmt.Fprintf(&b, "Content: %s\n", l.Content)
		b.WriteString("\n")
		b.WriteString("Additional Details: Error pattern detected in EVE Online log files\n")
	}

	b.WriteString(separator + "\n\n")
	return b.String()
}
