package main

import (
	"log"

	"github.com/spf13/cobra"
)

var (
	configPath string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "evewatch [command]",
	Short: "evewatch: EVE Online crash monitor",
	Long: `evewatch watches EVE Online client processes, game log files, and the
OS event log for signs of crashes, and appends every detection to a
human-readable crash log.`,
}

func main() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to the config file (default: $EVEWATCH_CONFIG or ~/.config/evewatch/config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	if err := rootCmd.Execute(); err != nil {
		log.Fatal(err)
	}
}
