// Package cmd wires the command-line interface: one subcommand per step of
// the support-triage flow.
package cmd

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"jira-support-triage/internal/logging"
	"jira-support-triage/internal/version"
)

var (
	flagVerbose bool
	flagEnvFile string
	flagLogFile string

	// log is set by setup and passed explicitly into every client and the
	// pipeline; nothing installs a process-global default.
	log       *slog.Logger
	logCloser io.Closer
)

var rootCmd = &cobra.Command{
	Use:   "support-triage",
	Short: "Triage Jira support requests that carry Outlook .msg attachments",
	Long: `support-triage searches Jira for recent support requests, keeps the ones
carrying Outlook .msg attachments, and summarizes each issue's description
and attached email with a local LM Studio model.`,
	Version:           version.Current,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	PersistentPostRun: func(*cobra.Command, []string) {
		if logCloser != nil {
			_ = logCloser.Close()
		}
	},
}

// Execute runs the CLI and maps any command error to exit code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "log debug detail to the console")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", ".env", "dotenv file loaded before reading the environment")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "support-triage.log", "rotating log file path; empty disables the file sink")
}

func setup(_ *cobra.Command, _ []string) error {
	// A missing dotenv file is fine; exported environment values win over
	// file values either way.
	if _, err := os.Stat(flagEnvFile); err == nil {
		if err := godotenv.Load(flagEnvFile); err != nil {
			return fmt.Errorf("load env file %s: %w", flagEnvFile, err)
		}
	}

	log, logCloser = logging.New(logging.Options{Verbose: flagVerbose, FilePath: flagLogFile})
	return nil
}
