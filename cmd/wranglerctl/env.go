package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// envCmd represents the env command
var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Inspect matrix environments",
	Long:  `Inspect matrix environments and their runtime requirements.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'env' requires a subcommand (java-check)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(envCmd)
}
