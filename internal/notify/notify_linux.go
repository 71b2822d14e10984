//go:build linux

package notify

import (
	"os/exec"

	"github.com/pterm/pterm"
)

// NotifySendNotifier sends Linux desktop notifications via notify-send.
// Notifications are sent in a non-blocking goroutine so slow delivery
// never stalls the watchers.
type NotifySendNotifier struct {
	logger *pterm.Logger
}

// NewPlatformNotifier creates the platform-appropriate notifier for Linux.
// If enabled is false, notifications are silently dropped.
func NewPlatformNotifier(enabled bool, logger *pterm.Logger) Notifier {
	if !enabled {
		return Disabled{}
	}
	return &NotifySendNotifier{logger: logger}
}

// Notify displays a desktop notification. The call returns immediately;
// the notify-send command runs in a background goroutine.
func (n *NotifySendNotifier) Notify(title, body string) {
	go func() {
		cmd := exec.Command("notify-send", "--urgency", "critical", "--app-name", "evewatch", title, body)
		if err := cmd.Run(); err != nil {
			n.logger.Warn("Failed to send desktop notification",
				n.logger.Args("error", err))
		}
	}()
}
