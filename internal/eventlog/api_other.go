//go:build !windows

package eventlog

import "time"

// NewPlatformAPI returns an API that reports the event log as unavailable.
// Only Windows exposes an application event log this monitor understands;
// the watcher disables itself on the first poll.
func NewPlatformAPI() API {
	return unavailableAPI{}
}

type unavailableAPI struct{}

func (unavailableAPI) Query(time.Time) ([]Entry, error) {
	return nil, ErrUnavailable
}
