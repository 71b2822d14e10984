package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"evewatch/internal/storage"
)

var historyLimit int

func init() {
	rootCmd.AddCommand(cmdHistory)
	cmdHistory.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Number of records to show")
}

var cmdHistory = &cobra.Command{
	Use:   "history",
	Short: "Show recent crashes from the history database",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger := newLogger()
		cfg := loadConfig(logger)

		store, err := storage.NewStore(cfg.Storage.DBPath, logger)
		if err != nil {
			return fmt.Errorf("opening crash history: %w", err)
		}
		defer store.Close()

		rows, err := store.Recent(historyLimit)
		if err != nil {
			return fmt.Errorf("querying crash history: %w", err)
		}
		if len(rows) == 0 {
			fmt.Println("No crashes recorded.")
			return nil
		}

		for _, row := range rows {
			fmt.Printf("%s  %-28s %s\n",
				row.RecordedAt.Local().Format("2006-01-02 15:04:05"), row.Type, row.Detail)
		}

		counts, err := store.CountByType()
		if err != nil {
			return fmt.Errorf("counting crash history: %w", err)
		}
		fmt.Println("\nAll time by type:")
		types := make([]string, 0, len(counts))
		for typ := range counts {
			types = append(types, typ)
		}
		sort.Strings(types)
		for _, typ := range types {
			fmt.Printf("  %-28s %d\n", typ, counts[typ])
		}
		return nil
	},
}
