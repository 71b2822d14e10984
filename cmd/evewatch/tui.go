package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"evewatch/internal/tui"
)

func init() {
	rootCmd.AddCommand(cmdTUI)
}

var cmdTUI = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp()
		if err != nil {
			return err
		}

		a.monitor.Start()

		model := tui.NewModel(a.monitor,
			tui.WithEventProvider(a.buffer),
			tui.WithOnShutdown(a.shutdown))

		p := tea.NewProgram(model, tea.WithAltScreen())
		if _, err := p.Run(); err != nil {
			a.shutdown()
			return fmt.Errorf("dashboard exited with error: %w", err)
		}
		return nil
	},
}
