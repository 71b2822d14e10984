package events

import (
	"fmt"
	"path/filepath"
	"unicode/utf8"

	"evewatch/internal/record"
)

// Format renders rec as a one-line summary.
func Format(rec record.Record) FormattedRecord {
	fr := FormattedRecord{Type: string(rec.Type), Timestamp: rec.Timestamp}

	switch rec.Type {
	case record.TypeProcessTermination:
		p := rec.Process
		verdict := "normal exit"
		if p.SuspectedCrash {
			verdict = "SUSPECTED CRASH"
		}
		fr.Line = fmt.Sprintf("pid %d terminated after %.1fs (%s, %.1f MB)",
			p.PID, p.RuntimeSeconds, verdict, p.MemoryUsageMB)
		suspected := p.SuspectedCrash
		fr.Suspected = &suspected

	case record.TypeEventLogError:
		e := rec.EventLog
		fr.Line = fmt.Sprintf("event %d from %s: %s",
			e.EventID, e.Source, truncate(e.Description, 120))

	case record.TypeLogPatternMatch:
		l := rec.Pattern
		fr.Line = fmt.Sprintf("%q in %s:%d: %s",
			l.Pattern, filepath.Base(l.File), l.LineNumber, truncate(l.Content, 120))
	}
	return fr
}

// truncate cuts s to at most max bytes, backing up so a multi-byte rune
// is never split.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max] + "..."
}
