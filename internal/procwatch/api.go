package procwatch

// Sample is one matching process observed in a snapshot.
type Sample struct {
	PID        int32
	Name       string
	MemoryRSS  uint64
	CPUPercent float64
}

// ProcessAPI enumerates processes whose executable name matches the
// configured set. Implementations swallow per-process query errors
// (process already gone, permission denied) and only fail when the
// process table itself cannot be enumerated.
type ProcessAPI interface {
	Snapshot() ([]Sample, error)
}
