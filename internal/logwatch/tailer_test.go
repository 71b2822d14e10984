package logwatch

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pterm/pterm"

	"evewatch/internal/record"
)

func testLogger() *pterm.Logger {
	return pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

func appendFile(t *testing.T, path, content string) {
	t.Helper()
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("opening %s: %v", path, err)
	}
	defer f.Close()
	if _, err := f.WriteString(content); err != nil {
		t.Fatalf("appending to %s: %v", path, err)
	}
}

func TestTailer_IdempotentRepoll(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.log")
	writeFile(t, path, "boot ok\nfatal error: out of memory\n")

	tailer := NewTailer([]string{dir}, nil, nil, testLogger())

	first := tailer.Poll()
	if len(first) != 1 {
		t.Fatalf("expected 1 record on first poll, got %d", len(first))
	}

	second := tailer.Poll()
	if len(second) != 0 {
		t.Fatalf("expected 0 records on re-poll, got %d", len(second))
	}
	if got := tailer.offsets[path]; got != int64(len("boot ok\nfatal error: out of memory\n")) {
		t.Errorf("checkpoint moved unexpectedly: %d", got)
	}
}

func TestTailer_OnlyNewContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.log")
	writeFile(t, path, "unhandled exception in frame\n")

	tailer := NewTailer([]string{dir}, nil, nil, testLogger())

	if got := len(tailer.Poll()); got != 1 {
		t.Fatalf("expected 1 record, got %d", got)
	}

	appendFile(t, path, "harmless line\nstack overflow detected\n")
	recs := tailer.Poll()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record from appended content, got %d", len(recs))
	}
	if recs[0].Pattern.Pattern != "stack overflow" {
		t.Errorf("expected pattern %q, got %q", "stack overflow", recs[0].Pattern.Pattern)
	}
	// Line numbers are cumulative across polls.
	if recs[0].Pattern.LineNumber != 3 {
		t.Errorf("expected line number 3, got %d", recs[0].Pattern.LineNumber)
	}
}

func TestTailer_RotationRecovery(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.log")
	writeFile(t, path, "a long first generation of this log file, no matches here\n")

	tailer := NewTailer([]string{dir}, nil, nil, testLogger())
	tailer.Poll()

	// Replace with a shorter file, as log rotation would.
	writeFile(t, path, "crash in renderer\n")

	// The shrink poll resets the checkpoint and emits nothing.
	if got := len(tailer.Poll()); got != 0 {
		t.Fatalf("expected 0 records on the reset poll, got %d", got)
	}
	if tailer.offsets[path] != 0 {
		t.Fatalf("expected checkpoint reset to 0, got %d", tailer.offsets[path])
	}

	// The next poll rescans the new file from the start.
	recs := tailer.Poll()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record after rotation, got %d", len(recs))
	}
	if recs[0].Pattern.LineNumber != 1 {
		t.Errorf("expected line numbering restarted at 1, got %d", recs[0].Pattern.LineNumber)
	}
}

func TestTailer_ExcludesOwnOutput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "crash_monitor.log"), "fatal error everywhere\n")
	writeFile(t, filepath.Join(dir, "eve_crash_log.txt"), "fatal error everywhere\n")
	writeFile(t, filepath.Join(dir, "game.log"), "assertion failed: x > 0\n")

	tailer := NewTailer([]string{dir}, []string{"eve_crash_log.txt"}, []string{"monitor"}, testLogger())
	recs := tailer.Poll()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if filepath.Base(recs[0].Pattern.File) != "game.log" {
		t.Errorf("record came from excluded file: %s", recs[0].Pattern.File)
	}
	if _, checkpointed := tailer.offsets[filepath.Join(dir, "crash_monitor.log")]; checkpointed {
		t.Error("excluded file must never be checkpointed")
	}
}

func TestTailer_OneRecordPerLine(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "game.log")
	// Two patterns on one line must still yield a single record.
	writeFile(t, path, "fatal error: unhandled exception in loop\n")

	tailer := NewTailer([]string{dir}, nil, nil, testLogger())
	recs := tailer.Poll()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Type != record.TypeLogPatternMatch {
		t.Errorf("unexpected record type %q", recs[0].Type)
	}
	if recs[0].Pattern.Content != "fatal error: unhandled exception in loop" {
		t.Errorf("unexpected content %q", recs[0].Pattern.Content)
	}
}

func TestTailer_MissingDirIsHarmless(t *testing.T) {
	tailer := NewTailer([]string{filepath.Join(t.TempDir(), "nope")}, nil, nil, testLogger())
	if got := len(tailer.Poll()); got != 0 {
		t.Fatalf("expected 0 records, got %d", got)
	}
}

func TestTailer_TimestampFromClock(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "game.log"), "memory error at 0x0\n")

	fixed := time.Date(2026, 2, 3, 4, 5, 6, 0, time.UTC)
	tailer := NewTailer([]string{dir}, nil, nil, testLogger())
	tailer.now = func() time.Time { return fixed }

	recs := tailer.Poll()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if !recs[0].Timestamp.Equal(fixed) {
		t.Errorf("expected timestamp %v, got %v", fixed, recs[0].Timestamp)
	}
}
