package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		baseURL string
		timeout time.Duration
	)
	client := &apiClient{}

	rootCmd := &cobra.Command{
		Use:           "cashbook",
		Short:         "Cashbook CLI tool",
		Long:          `A command line interface for interacting with the Cashbook API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			client.configure(baseURL, timeout)
		},
	}

	rootCmd.PersistentFlags().StringVar(&baseURL, "url", "http://localhost:8080", "Base URL of the Cashbook API")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")

	rootCmd.AddCommand(
		entriesCmd(client),
		reconcileCmd(client),
		summaryCmd(client),
		importCmd(client),
	)

	return rootCmd
}
