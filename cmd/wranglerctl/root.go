package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "wranglerctl",
	Short: "Data wrangling and matrix test automation",
	Long: `wranglerctl drives the wrangler toolkit: it runs interval
identification over tabular data, expands and executes version matrix
test runs, and serves the wrangling HTTP API.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
