package procwatch

import (
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// gopsutilAPI implements ProcessAPI on top of gopsutil. No CGO is
// required on Linux or Windows.
type gopsutilAPI struct {
	names map[string]struct{} // lower-cased executable names
}

// NewGopsutilAPI returns the production ProcessAPI, matching the given
// executable names case-insensitively.
func NewGopsutilAPI(names []string) ProcessAPI {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = struct{}{}
	}
	return &gopsutilAPI{names: set}
}

func (g *gopsutilAPI) Snapshot() ([]Sample, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("enumerating processes: %w", err)
	}

	var samples []Sample
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue // already gone or not ours to inspect
		}
		if _, ok := g.names[strings.ToLower(name)]; !ok {
			continue
		}
		s := Sample{PID: p.Pid, Name: name}
		if mem, err := p.MemoryInfo(); err == nil && mem != nil {
			s.MemoryRSS = mem.RSS
		}
		if cpu, err := p.CPUPercent(); err == nil {
			s.CPUPercent = cpu
		}
		samples = append(samples, s)
	}
	return samples, nil
}
