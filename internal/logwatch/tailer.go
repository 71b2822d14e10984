package logwatch

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"evewatch/internal/record"
)

// Tailer incrementally reads newly appended bytes from *.log files in the
// watched directories and emits one record per line that matches a crash
// pattern. Checkpoints are held in memory for the process lifetime; the
// tracker's own output files are excluded by name and substring so the
// tailer never ingests what the sink writes.
type Tailer struct {
	dirs            []string
	excludeFiles    map[string]struct{}
	excludePatterns []string
	logger          *pterm.Logger

	offsets   map[string]int64 // absolute path -> last-read byte offset
	lineCount map[string]int   // absolute path -> lines consumed so far

	now func() time.Time
}

// NewTailer creates a Tailer over the given directories. excludeFiles are
// exact base names to skip; excludePatterns are case-sensitive substrings
// of the base name.
func NewTailer(dirs, excludeFiles, excludePatterns []string, logger *pterm.Logger) *Tailer {
	ex := make(map[string]struct{}, len(excludeFiles))
	for _, name := range excludeFiles {
		ex[name] = struct{}{}
	}
	return &Tailer{
		dirs:            dirs,
		excludeFiles:    ex,
		excludePatterns: excludePatterns,
		logger:          logger,
		offsets:         make(map[string]int64),
		lineCount:       make(map[string]int),
		now:             time.Now,
	}
}

// Poll scans every watched directory once and returns the records produced
// by newly appended content. A single file's read error is logged and the
// file skipped; it never aborts the cycle.
func (t *Tailer) Poll() []record.Record {
	var records []record.Record
	for _, dir := range t.dirs {
		matches, err := filepath.Glob(filepath.Join(dir, "*.log"))
		if err != nil {
			t.logger.Warn("Failed to list log directory",
				t.logger.Args("dir", dir, "error", err))
			continue
		}
		for _, path := range matches {
			if t.excluded(filepath.Base(path)) {
				continue
			}
			recs, err := t.pollFile(path)
			if err != nil {
				t.logger.Debug("Failed to read log file",
					t.logger.Args("path", path, "error", err))
				continue
			}
			records = append(records, recs...)
		}
	}
	return records
}

func (t *Tailer) excluded(name string) bool {
	if _, ok := t.excludeFiles[name]; ok {
		return true
	}
	for _, pat := range t.excludePatterns {
		if strings.Contains(name, pat) {
			return true
		}
	}
	return false
}

func (t *Tailer) pollFile(path string) ([]record.Record, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	size := info.Size()
	offset := t.offsets[path]

	// A shrinking file means rotation or truncation. Reset the checkpoint
	// and rescan the new content on the next poll.
	if size < offset {
		t.logger.Info("Log rotation detected, resetting checkpoint",
			t.logger.Args("path", path, "old_offset", offset, "new_size", size))
		t.offsets[path] = 0
		t.lineCount[path] = 0
		return nil, nil
	}
	if size == offset {
		return nil, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if _, err := f.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	// Undecodable bytes are replaced, never fatal.
	text := strings.ToValidUTF8(string(data), "�")
	lines := strings.Split(text, "\n")
	if strings.HasSuffix(text, "\n") {
		lines = lines[:len(lines)-1]
	}

	var records []record.Record
	for _, line := range lines {
		t.lineCount[path]++
		pattern, ok := Match(line)
		if !ok {
			continue
		}
		records = append(records, record.NewLogPatternMatch(t.now(), record.LogPatternMatch{
			File:       path,
			LineNumber: t.lineCount[path],
			Pattern:    pattern,
			Content:    strings.TrimSpace(line),
		}))
		t.logger.Warn("Error pattern found in log file",
			t.logger.Args("pattern", pattern, "path", path, "line", t.lineCount[path]))
	}

	// Checkpoint advances unconditionally after a successful read, even
	// when no line matched.
	t.offsets[path] = offset + int64(len(data))
	return records, nil
}
