package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/teemow/meetslot/internal/config"
	"github.com/teemow/meetslot/internal/logging"
)

// rootCmd represents the base command for the meetslot application
var rootCmd = &cobra.Command{
	Use:   "meetslot",
	Short: "Finds and ranks the best meeting slots for a group of people",
	Long: `meetslot looks at the calendars of everyone who should attend a meeting,
finds the free time they share inside a search window and ranks the
candidate slots against your organization's scheduling policy.

It can run as:
  - A standalone CLI tool (default)
  - An MCP (Model Context Protocol) server for AI assistants`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup()
	},
}

// version will be set by main
var version = "dev"

var (
	debugMode bool
	envFiles  []string

	// appConfig and logger are replaced by setup before any subcommand runs.
	appConfig = config.Default()
	logger    = slog.Default()
)

// SetVersion sets the version for the root command
func SetVersion(v string) {
	version = v
	rootCmd.Version = v
}

// Execute is the main entry point for the CLI application
func Execute() {
	rootCmd.SetVersionTemplate(`{{printf "meetslot version %s\n" .Version}}`)

	// If no subcommand is provided, run the optimize command by default
	if len(os.Args) == 1 {
		os.Args = append(os.Args, "optimize")
	}

	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration and installs the process logger. Logs go
// to stderr so that stdout stays free for results and the stdio transport.
func setup() error {
	cfg, err := config.Load(envFiles...)
	if err != nil {
		return err
	}
	if debugMode {
		cfg.LogLevel = "debug"
	}

	l, err := logging.New(cfg.LogLevel, cfg.LogFormat, os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to configure logging: %w", err)
	}
	slog.SetDefault(l)

	appConfig = cfg
	logger = l
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "Load environment variables from this file instead of .env (repeatable; earlier files win)")

	rootCmd.AddCommand(newOptimizeCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAuthCmd())
	rootCmd.AddCommand(newSettingsCmd())
	rootCmd.AddCommand(newGenerateDocsCmd())
	rootCmd.AddCommand(newVersionCmd())
}
