package procwatch

import (
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"

	"evewatch/internal/record"
)

// TrackedProcess holds lifecycle metadata for one observed process.
type TrackedProcess struct {
	PID        int32
	Name       string
	StartTime  time.Time // start of tracking, not the OS process start
	LastSeen   time.Time
	MemoryRSS  uint64
	CPUPercent float64
}

// Tracker polls the process table and classifies each disappearance as a
// suspected crash or a normal exit using the runtime threshold. The
// tracked map is owned by the polling loop and needs no locking; only the
// count is published for concurrent readers.
type Tracker struct {
	api       ProcessAPI
	threshold time.Duration
	logger    *pterm.Logger

	tracked map[int32]*TrackedProcess
	count   atomic.Int32

	now func() time.Time
}

// NewTracker creates a Tracker. threshold is the runtime below which a
// termination counts as a suspected crash.
func NewTracker(api ProcessAPI, threshold time.Duration, logger *pterm.Logger) *Tracker {
	return &Tracker{
		api:       api,
		threshold: threshold,
		logger:    logger,
		tracked:   make(map[int32]*TrackedProcess),
		now:       time.Now,
	}
}

// Count returns the number of currently tracked processes. Safe to call
// concurrently with Poll.
func (t *Tracker) Count() int {
	return int(t.count.Load())
}

// Poll diffs the current process table against the tracked set and
// returns one ProcessTermination record per disappeared process. A first
// observation is an arrival and never a crash. A PID reused by the OS
// within a single interval is indistinguishable from continuation; this
// is an accepted heuristic limit.
func (t *Tracker) Poll() []record.Record {
	samples, err := t.api.Snapshot()
	if err != nil {
		t.logger.Error("Failed to enumerate processes, retrying next cycle",
			t.logger.Args("error", err))
		return nil
	}

	now := t.now()
	present := make(map[int32]Sample, len(samples))
	for _, s := range samples {
		present[s.PID] = s
	}

	var records []record.Record

	for pid, tp := range t.tracked {
		if _, ok := present[pid]; ok {
			continue
		}
		runtime := now.Sub(tp.StartTime)
		// Strict comparison: runtime exactly at the threshold is a
		// normal exit.
		suspected := runtime < t.threshold
		records = append(records, record.NewProcessTermination(now, record.ProcessTermination{
			PID:            pid,
			RuntimeSeconds: runtime.Seconds(),
			StartTime:      tp.StartTime,
			EndTime:        now,
			MemoryUsageMB:  float64(tp.MemoryRSS) / (1024 * 1024),
			SuspectedCrash: suspected,
		}))
		if suspected {
			t.logger.Warn("Potential crash detected",
				t.logger.Args("pid", pid, "name", tp.Name, "runtime", runtime.Round(time.Millisecond)))
		} else {
			t.logger.Info("Process terminated normally",
				t.logger.Args("pid", pid, "name", tp.Name, "runtime", runtime.Round(time.Millisecond)))
		}
		delete(t.tracked, pid)
	}

	for pid, s := range present {
		if tp, ok := t.tracked[pid]; ok {
			tp.LastSeen = now
			tp.MemoryRSS = s.MemoryRSS
			tp.CPUPercent = s.CPUPercent
			continue
		}
		t.tracked[pid] = &TrackedProcess{
			PID:        pid,
			Name:       s.Name,
			StartTime:  now,
			LastSeen:   now,
			MemoryRSS:  s.MemoryRSS,
			CPUPercent: s.CPUPercent,
		}
		t.logger.Info("New process detected", t.logger.Args("pid", pid, "name", s.Name))
	}

	t.count.Store(int32(len(t.tracked)))
	return records
}
