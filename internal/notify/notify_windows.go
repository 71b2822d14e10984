//go:build windows

package notify

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/pterm/pterm"
)

// ToastNotifier shows Windows balloon notifications through a short
// PowerShell script. Notifications are sent in a non-blocking goroutine
// so slow delivery never stalls the watchers.
type ToastNotifier struct {
	logger *pterm.Logger
}

// NewPlatformNotifier creates the platform-appropriate notifier for Windows.
// If enabled is false, notifications are silently dropped.
func NewPlatformNotifier(enabled bool, logger *pterm.Logger) Notifier {
	if !enabled {
		return Disabled{}
	}
	return &ToastNotifier{logger: logger}
}

// Notify displays a balloon notification. The call returns immediately;
// the powershell command runs in a background goroutine.
func (n *ToastNotifier) Notify(title, body string) {
	go func() {
		script := fmt.Sprintf(`
Add-Type -AssemblyName System.Windows.Forms
$b = New-Object System.Windows.Forms.NotifyIcon
$b.Icon = [System.Drawing.SystemIcons]::Warning
$b.Visible = $true
$b.ShowBalloonTip(10000, '%s', '%s', [System.Windows.Forms.ToolTipIcon]::Warning)`,
			escapePS(title), escapePS(body))
		cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
		if err := cmd.Run(); err != nil {
			n.logger.Warn("Failed to send desktop notification",
				n.logger.Args("error", err))
		}
	}()
}

// escapePS makes s safe inside a single-quoted PowerShell string.
func escapePS(s string) string {
	return strings.ReplaceAll(s, "'", "''")
}
