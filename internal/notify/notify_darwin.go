//go:build darwin

package notify

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pterm/pterm"
)

// OSAScriptNotifier sends macOS system notifications via osascript.
// Notifications are sent in a non-blocking goroutine so slow delivery
// never stalls the watchers.
type OSAScriptNotifier struct {
	logger *pterm.Logger
}

// NewPlatformNotifier creates the platform-appropriate notifier for macOS.
// If enabled is false, notifications are silently dropped.
func NewPlatformNotifier(enabled bool, logger *pterm.Logger) Notifier {
	if !enabled {
		return Disabled{}
	}
	return &OSAScriptNotifier{logger: logger}
}

// Notify displays a macOS notification. The call returns immediately;
// the osascript command runs in a background goroutine.
func (n *OSAScriptNotifier) Notify(title, body string) {
	go func() {
		script := fmt.Sprintf(
			`display notification "%s" with title "%s"`,
			escapeAppleScript(body), escapeAppleScript(title),
		)
		cmd := exec.Command("osascript", "-e", script)
		if err := cmd.Run(); err != nil {
			n.logger.Warn("Failed to send desktop notification",
				n.logger.Args("error", err))
		}
	}()
}

// escapeAppleScript escapes characters that could break AppleScript strings.
func escapeAppleScript(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}
