package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wrangler-in-go/pkg/config"
	"wrangler-in-go/pkg/matrix"
	"wrangler-in-go/pkg/provision"
)

// envJavaCheckCmd represents the env java-check command
var envJavaCheckCmd = &cobra.Command{
	Use:   "java-check",
	Short: "Check Java runtime availability for every matrix environment",
	Long: `Check Java runtime availability for every matrix environment.

Environments whose name carries a JVM-backed marker need a Java runtime
of a specific major version. For each such environment this command
probes JAVA_HOME and the install roots and reports what it found.

The command exits non-zero when a required runtime is missing.

Example:
  wranglerctl env java-check`,
	Run: func(cmd *cobra.Command, args []string) {
		missing, err := checkJavaRuntimes(cmd)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if missing {
			os.Exit(1)
		}
	},
}

func init() {
	envCmd.AddCommand(envJavaCheckCmd)
	envJavaCheckCmd.Flags().String("env", "", "check a single environment name")
	envJavaCheckCmd.Flags().String("matrix", "", "matrix file (overrides config)")
}

func checkJavaRuntimes(cmd *cobra.Command) (bool, error) {
	p := &provision.Provisioner{}
	ctx := context.Background()

	if name, _ := cmd.Flags().GetString("env"); name != "" {
		return checkOne(ctx, p, name), nil
	}

	matrixPath, _ := cmd.Flags().GetString("matrix")
	if matrixPath == "" {
		matrixPath = config.Get().MatrixPath
	}
	m, err := matrix.LoadMatrix(matrixPath)
	if err != nil {
		return false, err
	}

	missing := false
	for _, env := range m.Envs {
		if checkOne(ctx, p, env.Name) {
			missing = true
		}
	}
	return missing, nil
}

// checkOne reports one env name and returns true when its runtime is
// missing.
func checkOne(ctx context.Context, p *provision.Provisioner, name string) bool {
	if !p.Required(name) {
		fmt.Printf("%-30s no runtime needed\n", name)
		return false
	}
	delta, err := p.Ensure(ctx, name)
	if err != nil {
		fmt.Printf("%-30s MISSING: %v\n", name, err)
		return true
	}
	fmt.Printf("%-30s java at %s\n", name, delta.JavaHome)
	return false
}
