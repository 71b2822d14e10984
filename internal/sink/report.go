package sink

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

// recentWindow is the lookback used for the report's recent-crash count.
const recentWindow = 7 * 24 * time.Hour

// Report aggregates the crash log contents.
type Report struct {
	TotalRecords   int
	RecentRecords  int // records within the last 7 days
	TypeCounts     map[string]int
	MostCommonType string // ties broken by first appearance in file order
	LogSizeKB      float64
}

// GenerateReport re-parses the crash log. Records whose timestamp fails
// to parse still count toward the total but are excluded from the recency
// count. Trailing partial blocks from an interrupted write are tolerated.
func (s *Sink) GenerateReport() (Report, error) {
	report := Report{TypeCounts: make(map[string]int)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return report, nil
		}
		return report, fmt.Errorf("reading crash log: %w", err)
	}

	now := s.now()
	sections := strings.Split(string(data), "CRASH DETECTED:")
	var order []string

	for _, section := range sections[1:] {
		if strings.TrimSpace(section) == "" {
			continue
		}
		report.TotalRecords++

		header, _, _ := strings.Cut(section, "\n")
		if ts, err := time.Parse(time.RFC3339, strings.TrimSpace(header)); err == nil {
			if now.Sub(ts) <= recentWindow {
				report.RecentRecords++
			}
		}

		for _, line := range strings.Split(section, "\n") {
			rest, ok := strings.CutPrefix(strings.TrimSpace(line), "Crash Type:")
			if !ok {
				continue
			}
			name := strings.TrimSpace(rest)
			if report.TypeCounts[name] == 0 {
				order = append(order, name)
			}
			report.TypeCounts[name]++
			break
		}
	}

	best := ""
	for _, name := range order {
		if best == "" || report.TypeCounts[name] > report.TypeCounts[best] {
			best = name
		}
	}
	report.MostCommonType = best

	if info, err := os.Stat(s.path); err == nil {
		report.LogSizeKB = float64(info.Size()) / 1024
	}
	return report, nil
}
