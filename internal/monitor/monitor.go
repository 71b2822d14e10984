package monitor

import (
	"fmt"
	"sync"
	"time"

	"github.com/pterm/pterm"

	"evewatch/internal/config"
	"evewatch/internal/events"
	"evewatch/internal/record"
	"evewatch/internal/sink"
)

// ProcessPoller reports terminated tracked processes.
type ProcessPoller interface {
	Poll() []record.Record
	Count() int
}

// FilePoller reports new error-pattern matches in watched log files.
type FilePoller interface {
	Poll() []record.Record
}

// EventPoller reports OS event log errors newer than since.
type EventPoller interface {
	Poll(since time.Time) []record.Record
}

// Forwarder ships crash records to an external log viewer.
type Forwarder interface {
	LogCrash(rec record.Record)
}

// History persists crash records for later querying.
type History interface {
	Record(rec record.Record)
}

// Notifier raises a desktop notification for suspected crashes.
type Notifier interface {
	Notify(title, body string)
}

// eventLogLookback bounds the first event log query after startup.
const eventLogLookback = 5 * time.Minute

// Monitor runs one polling goroutine per enabled watcher and fans every
// crash record out to the sink and the optional destinations.
type Monitor struct {
	cfg    config.Config
	sink   *sink.Sink
	logger *pterm.Logger

	procs    ProcessPoller
	files    FilePoller
	eventLog EventPoller

	forwarder Forwarder
	history   History
	buffer    *events.Buffer
	notifier  Notifier

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup

	now func() time.Time
}

type Option func(*Monitor)

func WithForwarder(f Forwarder) Option { return func(m *Monitor) { m.forwarder = f } }
func WithHistory(h History) Option     { return func(m *Monitor) { m.history = h } }
func WithBuffer(b *events.Buffer) Option {
	return func(m *Monitor) { m.buffer = b }
}
func WithNotifier(n Notifier) Option { return func(m *Monitor) { m.notifier = n } }

func New(cfg config.Config, s *sink.Sink, logger *pterm.Logger,
	procs ProcessPoller, files FilePoller, eventLog EventPoller, opts ...Option) *Monitor {

	m := &Monitor{
		cfg:      cfg,
		sink:     s,
		logger:   logger,
		procs:    procs,
		files:    files,
		eventLog: eventLog,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Start launches the polling loops for every enabled watcher. Calling
// Start on a running monitor logs a warning and does nothing.
func (m *Monitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		m.logger.Warn("Monitor already running, ignoring Start")
		return
	}
	// The watchers' poll state is owned by exactly one loop at a time.
	// A previous generation may still be mid-poll after Stop; join it
	// before spawning the next one.
	m.wg.Wait()
	m.running = true
	m.stop = make(chan struct{})

	if m.cfg.EnableProcessMonitor {
		m.spawn("process", time.Duration(m.cfg.CheckInterval)*time.Second, func() {
			m.dispatch(m.procs.Poll())
		})
	}
	if m.cfg.EnableLogFileMonitor {
		m.spawn("log files", time.Duration(m.cfg.LogFileInterval)*time.Second, func() {
			m.dispatch(m.files.Poll())
		})
	}
	if m.cfg.EnableEventLogMonitor {
		since := m.now().Add(-eventLogLookback)
		m.spawn("event log", time.Duration(m.cfg.EventLogInterval)*time.Second, func() {
			recs := m.eventLog.Poll(since)
			since = m.now()
			m.dispatch(recs)
		})
	}

	m.logger.Info("Crash monitor started",
		m.logger.Args(
			"process_monitor", m.cfg.EnableProcessMonitor,
			"log_file_monitor", m.cfg.EnableLogFileMonitor,
			"event_log_monitor", m.cfg.EnableEventLogMonitor,
			"output", m.sink.Path()))
}

// spawn runs fn immediately, then on every tick until Stop.
func (m *Monitor) spawn(name string, interval time.Duration, fn func()) {
	stop := m.stop
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.logger.Debug("Watcher loop started",
			m.logger.Args("watcher", name, "interval", interval.String()))

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			fn()
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}()
}

// dispatch fans records out to the sink and the optional destinations.
func (m *Monitor) dispatch(recs []record.Record) {
	for _, rec := range recs {
		if err := m.sink.Append(rec); err != nil {
			m.logger.Error("Failed to write crash record",
				m.logger.Args("type", string(rec.Type), "error", err))
		}

		formatted := events.Format(rec)
		m.logger.Info("Crash record detected",
			m.logger.Args("type", string(rec.Type), "detail", formatted.Line))

		if m.history != nil {
			m.history.Record(rec)
		}
		if m.buffer != nil {
			m.buffer.Add(formatted)
		}
		if m.forwarder != nil {
			m.forwarder.LogCrash(rec)
		}
		if m.notifier != nil && rec.Type == record.TypeProcessTermination && rec.Process.SuspectedCrash {
			m.notifier.Notify("EVE crash detected",
				fmt.Sprintf("Process %d exited after %.1fs", rec.Process.PID, rec.Process.RuntimeSeconds))
		}
	}
}

// Stop signals the polling loops to exit and returns immediately.
// Use Wait to block until they have.
func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	m.running = false
	close(m.stop)
	m.logger.Info("Crash monitor stopping")
}

// Wait blocks until every polling loop has exited.
func (m *Monitor) Wait() {
	m.wg.Wait()
}

func (m *Monitor) IsRunning() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// TrackedProcessCount returns how many watched processes are alive.
func (m *Monitor) TrackedProcessCount() int {
	return m.procs.Count()
}

// GenerateReport summarizes the crash log written so far.
func (m *Monitor) GenerateReport() (sink.Report, error) {
	return m.sink.GenerateReport()
}
