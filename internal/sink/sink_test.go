package sink

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"evewatch/internal/record"
)

func testSink(t *testing.T) *Sink {
	t.Helper()
	return New(filepath.Join(t.TempDir(), "logs", "eve_crash_log.txt"))
}

func processRecord(ts time.Time, suspected bool) record.Record {
	return record.NewProcessTermination(ts, record.ProcessTermination{
		PID:            4242,
		RuntimeSeconds: 12.5,
		StartTime:      ts.Add(-12500 * time.Millisecond),
		EndTime:        ts,
		MemoryUsageMB:  256.0,
		SuspectedCrash: suspected,
	})
}

func TestSink_AppendCreatesParents(t *testing.T) {
	s := testSink(t)
	if err := s.Append(processRecord(time.Now(), true)); err != nil {
		t.Fatalf("append: %v", err)
	}
	if _, err := os.Stat(s.Path()); err != nil {
		t.Fatalf("crash log not created: %v", err)
	}
}

func TestSink_BlockFormat(t *testing.T) {
	s := testSink(t)
	ts := time.Date(2026, 4, 1, 10, 30, 0, 0, time.UTC)
	if err := s.Append(processRecord(ts, true)); err != nil {
		t.Fatalf("append: %v", err)
	}

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	content := string(data)

	for _, want := range []string{
		"CRASH DETECTED: 2026-04-01T10:30:00Z",
		"Crash Type: Process Termination",
		"Process ID: 4242",
		"Runtime: 12.5 seconds",
		"Memory Usage: 256.0 MB",
		"Suspected Crash: true",
		"Additional Details: Process terminated abnormally",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("block missing %q:\n%s", want, content)
		}
	}
	if got := strings.Count(content, separator); got != 3 {
		t.Errorf("expected 3 separator lines, got %d", got)
	}
}

func TestSink_EventLogAndPatternVariants(t *testing.T) {
	s := testSink(t)
	ts := time.Now()

	err := s.Append(record.NewEventLogError(ts, record.EventLogError{
		EventID:     1000,
		Source:      "Application Error",
		Category:    100,
		Description: "Faulting application ExeFile.exe",
	}))
	if err != nil {
		t.Fatalf("append event record: %v", err)
	}
	err = s.Append(record.NewLogPatternMatch(ts, record.LogPatternMatch{
		File:       "C:/EVE/logs/game.log",
		LineNumber: 17,
		Pattern:    "access violation",
		Content:    "ACCESS VIOLATION at 0x0",
	}))
	if err != nil {
		t.Fatalf("append pattern record: %v", err)
	}

	data, _ := os.ReadFile(s.Path())
	content := string(data)
	for _, want := range []string{
		"Crash Type: Windows Event Log Error",
		"Event ID: 1000",
		"Crash Type: Log File Error Pattern",
		"Line Number: 17",
		"Pattern Matched: access violation",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("missing %q", want)
		}
	}
}

func TestSink_ConcurrentAppends(t *testing.T) {
	s := testSink(t)
	const perWorker = 50

	var wg sync.WaitGroup
	for w := 0; w < 3; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				var rec record.Record
				switch worker {
				case 0:
					rec = processRecord(time.Now(), i%2 == 0)
				case 1:
					rec = record.NewEventLogError(time.Now(), record.EventLogError{EventID: 1000, Source: "eve"})
				default:
					rec = record.NewLogPatternMatch(time.Now(), record.LogPatternMatch{File: "a.log", LineNumber: i + 1, Pattern: "crash"})
				}
				if err := s.Append(rec); err != nil {
					t.Errorf("append: %v", err)
					return
				}
			}
		}(w)
	}
	wg.Wait()

	report, err := s.GenerateReport()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalRecords != 3*perWorker {
		t.Fatalf("expected %d records, got %d (lost or merged blocks)", 3*perWorker, report.TotalRecords)
	}
	for typ, count := range report.TypeCounts {
		if count != perWorker {
			t.Errorf("type %q: expected %d, got %d", typ, perWorker, count)
		}
	}
}

func TestReport_Empty(t *testing.T) {
	s := testSink(t)
	report, err := s.GenerateReport()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalRecords != 0 || report.MostCommonType != "" {
		t.Errorf("expected empty report, got %+v", report)
	}
}

func TestReport_RecencyAndTypeCounts(t *testing.T) {
	s := testSink(t)
	now := time.Date(2026, 4, 10, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	// Two fresh process records, one stale, one fresh event record.
	s.Append(processRecord(now.Add(-time.Hour), true))
	s.Append(processRecord(now.Add(-2*time.Hour), false))
	s.Append(processRecord(now.Add(-8*24*time.Hour), true))
	s.Append(record.NewEventLogError(now.Add(-time.Minute), record.EventLogError{EventID: 1001, Source: "eve"}))

	report, err := s.GenerateReport()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalRecords != 4 {
		t.Errorf("total: expected 4, got %d", report.TotalRecords)
	}
	if report.RecentRecords != 3 {
		t.Errorf("recent: expected 3, got %d", report.RecentRecords)
	}
	if report.TypeCounts["Process Termination"] != 3 {
		t.Errorf("type counts wrong: %+v", report.TypeCounts)
	}
	if report.MostCommonType != "Process Termination" {
		t.Errorf("most common: expected Process Termination, got %q", report.MostCommonType)
	}
	if report.LogSizeKB <= 0 {
		t.Error("expected a positive log size")
	}
}

func TestReport_TieBrokenByFileOrder(t *testing.T) {
	s := testSink(t)
	now := time.Now()
	s.Append(record.NewEventLogError(now, record.EventLogError{EventID: 1000, Source: "eve"}))
	s.Append(processRecord(now, true))

	report, err := s.GenerateReport()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.MostCommonType != "Windows Event Log Error" {
		t.Errorf("tie must go to the first type in file order, got %q", report.MostCommonType)
	}
}

func TestReport_UnparseableTimestampCountsInTotalOnly(t *testing.T) {
	s := testSink(t)
	s.Append(processRecord(time.Now(), true))

	// Simulate a trailing partial write with a corrupt header.
	f, err := os.OpenFile(s.Path(), os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	f.WriteString("\nCRASH DETECTED: not-a-timestamp\nCrash Type: Process Termination\n")
	f.Close()

	report, err := s.GenerateReport()
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if report.TotalRecords != 2 {
		t.Errorf("total: expected 2, got %d", report.TotalRecords)
	}
	if report.RecentRecords != 1 {
		t.Errorf("recent: expected 1, got %d", report.RecentRecords)
	}
}
