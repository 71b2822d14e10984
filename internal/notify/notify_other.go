//go:build !linux && !darwin && !windows

package notify

import "github.com/pterm/pterm"

// NewPlatformNotifier returns a disabled notifier on platforms without
// a desktop notification mechanism.
func NewPlatformNotifier(enabled bool, logger *pterm.Logger) Notifier {
	return Disabled{}
}
