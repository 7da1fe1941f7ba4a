package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"wrangler-in-go/pkg/config"
	"wrangler-in-go/pkg/descriptor"
	"wrangler-in-go/pkg/matrix"
)

// matrixLintCmd represents the matrix lint command
var matrixLintCmd = &cobra.Command{
	Use:   "lint",
	Short: "Check the matrix, CI descriptor and package descriptor for consistency",
	Long: `Check the matrix, CI descriptor and package descriptor for consistency.

Every finding is reported with its source line where known. The command
exits non-zero when any finding exists.

Example:
  wranglerctl matrix lint
  wranglerctl matrix lint --package package.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		res, err := lintAll(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, e := range res.Errors {
			fmt.Println(e.Error())
		}
		if !res.Valid() {
			fmt.Printf("%d problem(s) found\n", len(res.Errors))
			os.Exit(1)
		}
		fmt.Println("OK")
	},
}

func init() {
	matrixCmd.AddCommand(matrixLintCmd)
	matrixLintCmd.Flags().String("package", "", "package descriptor file (overrides config)")
}

func lintAll(cmd *cobra.Command) (*matrix.ValidationResult, error) {
	m, ci, err := loadAutomationConfigs(cmd)
	if err != nil {
		return nil, err
	}

	res := matrix.Validate(ci, m)

	packagePath, _ := cmd.Flags().GetString("package")
	if packagePath == "" {
		packagePath = config.Get().PackagePath
	}
	if _, err := os.Stat(packagePath); err == nil {
		d, err := descriptor.Load(packagePath)
		if err != nil {
			return nil, err
		}
		res.Merge(descriptor.Validate(d, filepath.Dir(packagePath), m))
	}

	return res, nil
}
