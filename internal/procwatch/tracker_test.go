package procwatch

import (
	"errors"
	"testing"
	"time"

	"github.com/pterm/pterm"
)

// fakeAPI returns a scripted sequence of snapshots.
type fakeAPI struct {
	snapshots [][]Sample
	errs      []error
	calls     int
}

func (f *fakeAPI) Snapshot() ([]Sample, error) {
	i := f.calls
	f.calls++
	if i >= len(f.snapshots) {
		return nil, nil
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	return f.snapshots[i], nil
}

func testLogger() *pterm.Logger {
	return pterm.DefaultLogger.WithLevel(pterm.LogLevelDisabled)
}

// newTestTracker builds a tracker with a stepped clock advancing `step`
// per poll.
func newTestTracker(api ProcessAPI, threshold time.Duration, step time.Duration) *Tracker {
	tr := NewTracker(api, threshold, testLogger())
	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	first := true
	tr.now = func() time.Time {
		if !first {
			current = current.Add(step)
		}
		first = false
		return current
	}
	return tr
}

func TestTracker_ArrivalIsNotACrash(t *testing.T) {
	api := &fakeAPI{snapshots: [][]Sample{
		{{PID: 100, Name: "ExeFile.exe"}},
	}}
	tr := newTestTracker(api, 30*time.Second, 5*time.Second)

	recs := tr.Poll()
	if len(recs) != 0 {
		t.Fatalf("arrival produced %d records, want 0", len(recs))
	}
	if tr.Count() != 1 {
		t.Errorf("expected 1 tracked process, got %d", tr.Count())
	}
}

func TestTracker_EarlyTerminationIsSuspected(t *testing.T) {
	api := &fakeAPI{snapshots: [][]Sample{
		{{PID: 100, Name: "ExeFile.exe", MemoryRSS: 512 * 1024 * 1024}},
		{},
	}}
	// Clock advances 10s between polls; threshold is 30s.
	tr := newTestTracker(api, 30*time.Second, 10*time.Second)

	tr.Poll()
	recs := tr.Poll()
	if len(recs) != 1 {
		t.Fatalf("expected 1 termination record, got %d", len(recs))
	}
	p := recs[0].Process
	if p == nil {
		t.Fatal("expected ProcessTermination variant")
	}
	if p.PID != 100 {
		t.Errorf("expected pid 100, got %d", p.PID)
	}
	if p.RuntimeSeconds < 9.9 || p.RuntimeSeconds > 10.1 {
		t.Errorf("expected runtime ≈10s, got %.2f", p.RuntimeSeconds)
	}
	if !p.SuspectedCrash {
		t.Error("10s runtime below a 30s threshold must be a suspected crash")
	}
	if p.MemoryUsageMB != 512 {
		t.Errorf("expected 512 MB, got %.1f", p.MemoryUsageMB)
	}
	if tr.Count() != 0 {
		t.Errorf("expected 0 tracked processes after removal, got %d", tr.Count())
	}
}

func TestTracker_ThresholdBoundary(t *testing.T) {
	cases := []struct {
		name      string
		step      time.Duration
		suspected bool
	}{
		{"exactly at threshold", 30 * time.Second, false},
		{"just under threshold", 30*time.Second - time.Millisecond, true},
		{"over threshold", 31 * time.Second, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeAPI{snapshots: [][]Sample{
				{{PID: 7, Name: "eve.exe"}},
				{},
			}}
			tr := newTestTracker(api, 30*time.Second, tc.step)
			tr.Poll()
			recs := tr.Poll()
			if len(recs) != 1 {
				t.Fatalf("expected 1 record, got %d", len(recs))
			}
			if recs[0].Process.SuspectedCrash != tc.suspected {
				t.Errorf("suspected=%v, want %v", recs[0].Process.SuspectedCrash, tc.suspected)
			}
		})
	}
}

func TestTracker_SurvivorIsUpdatedInPlace(t *testing.T) {
	api := &fakeAPI{snapshots: [][]Sample{
		{{PID: 100, Name: "ExeFile.exe", MemoryRSS: 100}},
		{{PID: 100, Name: "ExeFile.exe", MemoryRSS: 200, CPUPercent: 42}},
	}}
	tr := newTestTracker(api, 30*time.Second, 5*time.Second)

	tr.Poll()
	start := tr.tracked[100].StartTime
	if recs := tr.Poll(); len(recs) != 0 {
		t.Fatalf("survivor produced %d records", len(recs))
	}

	tp := tr.tracked[100]
	if tp.MemoryRSS != 200 || tp.CPUPercent != 42 {
		t.Errorf("metadata not updated: %+v", tp)
	}
	if !tp.StartTime.Equal(start) {
		t.Error("start time must not change on update")
	}
	if !tp.LastSeen.After(start) {
		t.Error("last seen must advance")
	}
}

func TestTracker_EnumerationFailureRetries(t *testing.T) {
	api := &fakeAPI{
		snapshots: [][]Sample{
			{{PID: 100, Name: "ExeFile.exe"}},
			nil,
			{{PID: 100, Name: "ExeFile.exe"}},
		},
		errs: []error{nil, errors.New("proc table busy"), nil},
	}
	tr := newTestTracker(api, 30*time.Second, 5*time.Second)

	tr.Poll()
	if recs := tr.Poll(); recs != nil {
		t.Fatalf("failed enumeration must emit no records, got %d", len(recs))
	}
	// The tracked set is untouched by the failed cycle.
	if recs := tr.Poll(); len(recs) != 0 {
		t.Fatalf("process still present, got %d records", len(recs))
	}
	if tr.Count() != 1 {
		t.Errorf("expected 1 tracked process, got %d", tr.Count())
	}
}

func TestTracker_MultipleProcesses(t *testing.T) {
	api := &fakeAPI{snapshots: [][]Sample{
		{{PID: 1, Name: "ExeFile.exe"}, {PID: 2, Name: "eve.exe"}},
		{{PID: 2, Name: "eve.exe"}},
	}}
	tr := newTestTracker(api, 30*time.Second, 60*time.Second)

	tr.Poll()
	recs := tr.Poll()
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	if recs[0].Process.PID != 1 {
		t.Errorf("wrong pid reported: %d", recs[0].Process.PID)
	}
	if recs[0].Process.SuspectedCrash {
		t.Error("60s runtime over a 30s threshold is a normal exit")
	}
}
