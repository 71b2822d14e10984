package logwatch

import "strings"

// errorPatterns are the crash-indicating substrings scanned for in tailed
// log lines. They are checked in declared order and the first match wins,
// so a line containing "access violation" reports the earlier "violation"
// pattern.
var errorPatterns = []string{
	"exception", "error", "crash", "fault", "violation",
	"access violation", "memory error", "stack overflow",
	"assertion failed", "fatal error", "unhandled exception",
}

// Match reports the first crash-indicating pattern contained in line.
// Matching is case-insensitive. At most one pattern is reported per line.
func Match(line string) (string, bool) {
	lower := strings.ToLower(line)
	for _, p := range errorPatterns {
		if strings.Contains(lower, p) {
			return p, true
		}
	}
	return "", false
}
