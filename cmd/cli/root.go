package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	verbose     bool
	useMock     bool
	storeDriver string
	storeDSN    string
	version     = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "vaf",
	Short: "Run structured therapy-style conversations against an LLM",
	Long: `vaf drives the value-added prompt framework from the terminal.

Every message is enriched with the session clock, the session label and the
patient history before it reaches the model, and every reply must carry a
user-facing response plus internal clinical notes.

Quick Start:
  vaf check                          # Verify providers and API keys
  vaf demo --mock                    # Scripted session without an API key
  vaf chat                           # Interactive session
  vaf export <session-id> --format md`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("Error:"), err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().BoolVar(&useMock, "mock", false, "Use the offline mock provider instead of the configured ones")
	rootCmd.PersistentFlags().StringVar(&storeDriver, "store", "", "Override store.driver (memory or sqlite)")
	rootCmd.PersistentFlags().StringVar(&storeDSN, "dsn", "", "Override store.dsn for the sqlite driver")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(checkCmd, demoCmd, chatCmd, exportCmd)
}
