package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nfrund/relay/internal/config"
	"github.com/nfrund/relay/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Relay CLI tool",
	Long: `Relay CLI is a command-line interface for the relay integration layer.

Available commands:
  keys    List and inspect the registered dispatch keys

Use "relay [command] --help" for more information about a specific command.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.New()
		if err != nil {
			return fmt.Errorf("load configuration: %w", err)
		}
		logging.New(cfg.LogFormat, cfg.LogLevel)
		return nil
	},
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
