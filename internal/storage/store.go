package storage

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/pterm/pterm"

	"evewatch/internal/events"
	"evewatch/internal/record"
)

const writeChannelSize = 256

// Store persists crash records to SQLite through a single writer
// goroutine. Record never blocks the caller: when the write channel is
// full the record is dropped and counted.
type Store struct {
	db        *sql.DB
	logger    *pterm.Logger
	writeChan chan record.Record
	doneChan  chan struct{}
	closed    atomic.Bool
	dropped   atomic.Int64
}

func NewStore(dbPath string, logger *pterm.Logger) (*Store, error) {
	return newStoreWithChannelSize(dbPath, writeChannelSize, logger)
}

func newStoreWithChannelSize(dbPath string, chanSize int, logger *pterm.Logger) (*Store, error) {
	db, err := OpenDB(dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:        db,
		logger:    logger,
		writeChan: make(chan record.Record, chanSize),
		doneChan:  make(chan struct{}),
	}

	go s.writerLoop()
	return s, nil
}

// Record queues a crash record for persistence.
func (s *Store) Record(rec record.Record) {
	if s.closed.Load() {
		return
	}
	defer func() { _ = recover() }()
	select {
	case s.writeChan <- rec:
	default:
		s.dropped.Add(1)
		s.logger.Warn("Crash history write channel full, dropped record",
			s.logger.Args("type", string(rec.Type)))
	}
}

func (s *Store) DroppedWrites() int64 {
	return s.dropped.Load()
}

// Close drains pending writes and closes the database.
func (s *Store) Close() error {
	if s.closed.Swap(true) {
		return nil
	}

	close(s.writeChan)
	select {
	case <-s.doneChan:
	case <-time.After(10 * time.Second):
		s.logger.Error("Failed to drain crash history writes within 10s, data may be lost")
	}

	return s.db.Close()
}

func (s *Store) writerLoop() {
	defer close(s.doneChan)

	for rec := range s.writeChan {
		if err := s.insert(rec); err != nil {
			s.logger.Error("Failed to persist crash record",
				s.logger.Args("type", string(rec.Type), "error", err))
		}
	}
}

func (s *Store) insert(rec record.Record) error {
	detail := events.Format(rec).Line

	var (
		pid            sql.NullInt64
		runtimeSeconds sql.NullFloat64
		memoryMB       sql.NullFloat64
		suspected      sql.NullBool
		eventID        sql.NullInt64
		source         sql.NullString
		category       sql.NullInt64
		file           sql.NullString
		line           sql.NullInt64
		pattern        sql.NullString
	)

	switch rec.Type {
	case record.TypeProcessTermination:
		pid = sql.NullInt64{Int64: int64(rec.Process.PID), Valid: true}
		runtimeSeconds = sql.NullFloat64{Float64: rec.Process.RuntimeSeconds, Valid: true}
		memoryMB = sql.NullFloat64{Float64: rec.Process.MemoryUsageMB, Valid: true}
		suspected = sql.NullBool{Bool: rec.Process.SuspectedCrash, Valid: true}
	case record.TypeEventLogError:
		eventID = sql.NullInt64{Int64: int64(rec.EventLog.EventID), Valid: true}
		source = sql.NullString{String: rec.EventLog.Source, Valid: true}
		category = sql.NullInt64{Int64: int64(rec.EventLog.Category), Valid: true}
	case record.TypeLogPatternMatch:
		file = sql.NullString{String: rec.Pattern.File, Valid: true}
		line = sql.NullInt64{Int64: int64(rec.Pattern.LineNumber), Valid: true}
		pattern = sql.NullString{String: rec.Pattern.Pattern, Valid: true}
	}

	_, err := s.db.Exec(`
		INSERT INTO crashes (recorded_at, type, pid, runtime_seconds, memory_mb, suspected,
			event_id, source, category, file, line, pattern, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.Timestamp.UTC().Format(time.RFC3339Nano), string(rec.Type),
		pid, runtimeSeconds, memoryMB, suspected,
		eventID, source, category, file, line, pattern, detail,
	)
	return err
}
