package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"wrangler-in-go/pkg/matrix"
)

// matrixExpandCmd represents the matrix expand command
var matrixExpandCmd = &cobra.Command{
	Use:   "expand",
	Short: "Expand the matrix into its cells",
	Long: `Expand the matrix into its cells.

Every interpreter is crossed with every environment; excluded pairs are
marked. For each cell the resolved dependency pins are shown.

Example:
  wranglerctl matrix expand
  wranglerctl matrix expand --matrix matrix.yml --ci ci.yml`,
	Run: func(cmd *cobra.Command, args []string) {
		m, ci, err := loadAutomationConfigs(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		cells, err := matrix.Expand(ci, m)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		for _, cell := range cells {
			deps, err := m.ResolveDeps(cell.Env)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(1)
			}
			line := fmt.Sprintf("%-30s %s", cell.ID(), strings.Join(deps, " "))
			if cell.Excluded {
				line += "  (excluded)"
			}
			fmt.Println(line)
		}
		fmt.Printf("%d cells\n", len(cells))
	},
}

func init() {
	matrixCmd.AddCommand(matrixExpandCmd)
}
