package eventlog

import (
	"errors"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"evewatch/internal/record"
)

// sourceSubstrings identify the monitored application in an event source
// name, matched case-insensitively.
var sourceSubstrings = []string{"eve", "exefile"}

// genericErrorIDs are the generic "Application Error" / "Application Hang"
// event identifiers reported by Windows Error Reporting.
var genericErrorIDs = map[uint32]struct{}{
	1000: {},
	1001: {},
}

// Watcher polls the OS application event log for error entries that look
// like the monitored application.
type Watcher struct {
	api      API
	logger   *pterm.Logger
	disabled bool
}

// NewWatcher creates a Watcher over the given platform API.
func NewWatcher(api API, logger *pterm.Logger) *Watcher {
	return &Watcher{api: api, logger: logger}
}

// Poll returns matching error entries generated strictly after since. The
// caller advances since to "now" after every call, success or not; events
// generated during a failed poll are lost rather than redelivered.
//
// On a platform without an event log the watcher logs once and returns
// empty lists forever after.
func (w *Watcher) Poll(since time.Time) []record.Record {
	if w.disabled {
		return nil
	}

	entries, err := w.api.Query(since)
	if err != nil {
		if errors.Is(err, ErrUnavailable) {
			w.disabled = true
			w.logger.Warn("Event log monitoring disabled: no application event log on this platform")
			return nil
		}
		w.logger.Debug("Failed to read event log", w.logger.Args("error", err))
		return nil
	}

	var records []record.Record
	for _, e := range entries {
		if !e.TimeGenerated.After(since) {
			continue
		}
		if e.Severity != SeverityError {
			continue
		}
		if !matchesSource(e.Source) && !isGenericErrorID(e.EventID) {
			continue
		}
		records = append(records, record.NewEventLogError(e.TimeGenerated, record.EventLogError{
			EventID:     e.EventID,
			Source:      e.Source,
			Category:    e.Category,
			Description: e.Description,
		}))
		w.logger.Warn("Event log crash entry detected",
			w.logger.Args("event_id", e.EventID, "source", e.Source))
	}
	return records
}

func matchesSource(source string) bool {
	lower := strings.ToLower(source)
	for _, sub := range sourceSubstrings {
		if strings.Contains(lower, sub) {
			return true
		}
	}
	return false
}

func isGenericErrorID(id uint32) bool {
	_, ok := genericErrorIDs[id]
	return ok
}
