package tui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("15")).
			Background(lipgloss.Color("62"))

	panelBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240"))

	panelTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("69"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	runningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("82"))

	stoppedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("226"))

	crashStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196"))
)

const eventPanelLimit = 20

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if m.reportOverlay {
		return m.renderReport()
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderEvents())
	b.WriteString("\n")
	b.WriteString(m.renderFooter())
	return b.String()
}

func (m Model) renderHeader() string {
	status := stoppedStyle.Render("STOPPED")
	if m.monitor.IsRunning() {
		status = runningStyle.Render("RUNNING")
	}

	title := headerStyle.Render(" evewatch ")
	tracked := fmt.Sprintf("tracked: %d", m.monitor.TrackedProcessCount())
	detected := ""
	if m.events != nil {
		detected = fmt.Sprintf("  crashes: %d", m.events.Len())
	}
	return fmt.Sprintf("%s  %s  %s%s", title, status, tracked, detected)
}

func (m Model) renderEvents() string {
	title := panelTitleStyle.Render("Recent Detections")

	var lines []string
	if m.events != nil {
		for _, fr := range m.events.Recent(eventPanelLimit) {
			ts := fr.Timestamp.Format("15:04:05")
			line := fmt.Sprintf("%s  %s", dimStyle.Render(ts), fr.Line)
			if fr.Suspected != nil && *fr.Suspected {
				line = crashStyle.Render(line)
			}
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		lines = append(lines, dimStyle.Render("no crashes detected"))
	}

	body := title + "\n" + strings.Join(lines, "\n")
	width := m.width - 2
	if width < 40 {
		width = 40
	}
	return panelBorderStyle.Width(width).Render(body)
}

func (m Model) renderFooter() string {
	return dimStyle.Render("s start  x stop  r report  q quit")
}

func (m Model) renderReport() string {
	title := panelTitleStyle.Render("Crash Report")

	var lines []string
	if m.reportErr != nil {
		lines = append(lines, crashStyle.Render("report failed: "+m.reportErr.Error()))
	} else {
		lines = append(lines,
			fmt.Sprintf("Total crashes:   %d", m.report.TotalRecords),
			fmt.Sprintf("Last 7 days:     %d", m.report.RecentRecords),
			fmt.Sprintf("Log size:        %.1f KB", m.report.LogSizeKB))
		if m.report.MostCommonType != "" {
			lines = append(lines, fmt.Sprintf("Most common:     %s", m.report.MostCommonType))
		}
		if len(m.report.TypeCounts) > 0 {
			lines = append(lines, "", "By type:")
			types := make([]string, 0, len(m.report.TypeCounts))
			for typ := range m.report.TypeCounts {
				types = append(types, typ)
			}
			sort.Strings(types)
			for _, typ := range types {
				lines = append(lines, fmt.Sprintf("  %-28s %d", typ, m.report.TypeCounts[typ]))
			}
		}
	}
	lines = append(lines, "", dimStyle.Render("esc close"))

	body := title + "\n" + strings.Join(lines, "\n")
	width := m.width - 2
	if width < 40 {
		width = 40
	}
	return panelBorderStyle.Width(width).Render(body)
}
