package events

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"evewatch/internal/record"
)

func TestFormat_ProcessTermination(t *testing.T) {
	rec := record.NewProcessTermination(time.Now(), record.ProcessTermination{
		PID:            321,
		RuntimeSeconds: 8.25,
		MemoryUsageMB:  1024,
		SuspectedCrash: true,
	})

	fr := Format(rec)
	if fr.Type != "Process Termination" {
		t.Errorf("unexpected type %q", fr.Type)
	}
	if !strings.Contains(fr.Line, "pid 321") || !strings.Contains(fr.Line, "SUSPECTED CRASH") {
		t.Errorf("unexpected line %q", fr.Line)
	}
	if fr.Suspected == nil || !*fr.Suspected {
		t.Error("expected suspected=true")
	}
}

func TestFormat_PatternMatchTruncatesContent(t *testing.T) {
	rec := record.NewLogPatternMatch(time.Now(), record.LogPatternMatch{
		File:       "/var/eve/logs/game.log",
		LineNumber: 9,
		Pattern:    "fatal error",
		Content:    strings.Repeat("x", 500),
	})

	fr := Format(rec)
	if !strings.Contains(fr.Line, "game.log:9") {
		t.Errorf("unexpected line %q", fr.Line)
	}
	if len(fr.Line) > 200 {
		t.Errorf("line not truncated: %d chars", len(fr.Line))
	}
	if fr.Suspected != nil {
		t.Error("pattern records carry no suspected flag")
	}
}

func TestFormat_TruncationKeepsRuneBoundary(t *testing.T) {
	// Multi-byte runes positioned so a byte-wise cut at the limit would
	// land mid-rune.
	rec := record.NewEventLogError(time.Now(), record.EventLogError{
		EventID:     1000,
		Source:      "eve",
		Description: "x" + strings.Repeat("é", 200),
	})

	fr := Format(rec)
	if !utf8.ValidString(fr.Line) {
		t.Errorf("truncated line is not valid UTF-8: %q", fr.Line)
	}
	if !strings.HasSuffix(fr.Line, "...") {
		t.Errorf("expected truncation marker, got %q", fr.Line)
	}
}
