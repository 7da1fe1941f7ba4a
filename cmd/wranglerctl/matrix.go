package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wrangler-in-go/pkg/config"
	"wrangler-in-go/pkg/matrix"
)

// matrixCmd represents the matrix command
var matrixCmd = &cobra.Command{
	Use:   "matrix",
	Short: "Manage the version test matrix",
	Long:  `Expand, lint, run and watch the version test matrix.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("error: Command 'matrix' requires a subcommand (expand, lint, run, watch)")
		fmt.Println()
		_ = cmd.Help()
		os.Exit(1)
	},
}

func init() {
	rootCmd.AddCommand(matrixCmd)
	matrixCmd.PersistentFlags().String("matrix", "", "matrix file (overrides config)")
	matrixCmd.PersistentFlags().String("ci", "", "CI descriptor file (overrides config)")
}

// loadAutomationConfigs reads the matrix and CI descriptor, honoring
// the persistent flag overrides.
func loadAutomationConfigs(cmd *cobra.Command) (*matrix.Matrix, *matrix.CIDescriptor, error) {
	cfg := config.Get()

	matrixPath, _ := cmd.Flags().GetString("matrix")
	if matrixPath == "" {
		matrixPath = cfg.MatrixPath
	}
	ciPath, _ := cmd.Flags().GetString("ci")
	if ciPath == "" {
		ciPath = cfg.CIPath
	}

	m, err := matrix.LoadMatrix(matrixPath)
	if err != nil {
		return nil, nil, err
	}
	ci, err := matrix.LoadCI(ciPath)
	if err != nil {
		return nil, nil, err
	}
	return m, ci, nil
}
