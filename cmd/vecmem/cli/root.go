package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dbPath     string
	dimension  int
	verbose    bool
	jsonLogs   bool
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "vecmem",
	Short: "Capacity-bounded vector memory",
	Long: `vecmem stores embeddings with metadata in a capacity-bounded memory,
evicting by policy when full, and answers nearest neighbor queries.
The memory is loaded from and saved to a SQLite snapshot file.`,
	SilenceUsage: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVarP(&configPath, "config", "c", "", "YAML memory configuration")
	flags.StringVar(&dbPath, "db", "vecmem.db", "SQLite snapshot file")
	flags.IntVar(&dimension, "dim", 0, "Embedding dimension (overrides config)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	flags.BoolVar(&jsonLogs, "json", false, "Log as JSON")
}
