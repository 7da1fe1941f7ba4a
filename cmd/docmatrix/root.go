package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "docmatrix",
	Short: "Documentation compatibility-table linter",
	Long: `A tool for validating the markdown compatibility table in the project
documentation against the version test matrix.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
