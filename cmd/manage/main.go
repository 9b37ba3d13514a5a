// Command manage runs administrative tasks against the taxi service database.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/yigit/taxiservice/internal/bootstrap"
)

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:           "manage",
		Short:         "Taxi service administration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", bootstrap.ConfigPath(), "Path to the YAML configuration file")

	rootCmd.AddCommand(newMigrateCmd(&configPath))
	rootCmd.AddCommand(newCreateDriverCmd(&configPath))
	rootCmd.AddCommand(newSeedCmd(&configPath))
	return rootCmd
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
