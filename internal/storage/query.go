package storage

import (
	"fmt"
	"time"
)

// CrashRow is one persisted crash record as read back from the
// crashes table.
type CrashRow struct {
	ID         int64
	RecordedAt time.Time
	Type       string
	Detail     string
}

// Recent returns the newest limit crash rows, newest first.
func (s *Store) Recent(limit int) ([]CrashRow, error) {
	rows, err := s.db.Query(`
		SELECT id, recorded_at, type, detail
		FROM crashes
		ORDER BY recorded_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying recent crashes: %w", err)
	}
	defer rows.Close()

	var out []CrashRow
	for rows.Next() {
		var row CrashRow
		var recordedAt string
		if err := rows.Scan(&row.ID, &recordedAt, &row.Type, &row.Detail); err != nil {
			return nil, fmt.Errorf("scanning crash row: %w", err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, recordedAt); err == nil {
			row.RecordedAt = ts
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

// CountByType returns the number of persisted crashes per record type.
func (s *Store) CountByType() (map[string]int, error) {
	rows, err := s.db.Query("SELECT type, COUNT(*) FROM crashes GROUP BY type")
	if err != nil {
		return nil, fmt.Errorf("counting crashes by type: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var typ string
		var n int
		if err := rows.Scan(&typ, &n); err != nil {
			return nil, fmt.Errorf("scanning count row: %w", err)
		}
		counts[typ] = n
	}
	return counts, rows.Err()
}
