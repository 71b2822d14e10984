package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"evewatch/internal/sink"
)

func init() {
	rootCmd.AddCommand(cmdReport)
}

var cmdReport = &cobra.Command{
	Use:   "report",
	Short: "Summarize the crash log and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg := loadConfig(logger)

		report, err := sink.New(cfg.OutputFile).GenerateReport()
		if err != nil {
			return fmt.Errorf("generating report: %w", err)
		}

		fmt.Printf("Crash log:       %s\n", cfg.OutputFile)
		fmt.Printf("Total crashes:   %d\n", report.TotalRecords)
		fmt.Printf("Last 7 days:     %d\n", report.RecentRecords)
		fmt.Printf("Log size:        %.1f KB\n", report.LogSizeKB)
		if report.MostCommonType != "" {
			fmt.Printf("Most common:     %s\n", report.MostCommonType)
		}
		if len(report.TypeCounts) > 0 {
			fmt.Println("\nBy type:")
			types := make([]string, 0, len(report.TypeCounts))
			for typ := range report.TypeCounts {
				types = append(types, typ)
			}
			sort.Strings(types)
			for _, typ := range types {
				fmt.Printf("  %-28s %d\n", typ, report.TypeCounts[typ])
			}
		}
		return nil
	},
}
