package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"wrangler-in-go/pkg/config"
	"wrangler-in-go/pkg/frame"
	"wrangler-in-go/pkg/wrangler/engine"
	"wrangler-in-go/pkg/wrangler/interval"
)

// wrangleCmd represents the wrangle command
var wrangleCmd = &cobra.Command{
	Use:   "wrangle",
	Short: "Identify intervals in a tabular data file",
	Long: `Identify intervals in a tabular data file.

The input and output formats are chosen by file extension (.csv or
.parquet). The wrangling parameters come from a plan file or from the
marker and column flags; the engine and strategy can be overridden on
the command line.

Example:
  wranglerctl wrangle --input data.csv --output out.csv --params plan.jsonc
  wranglerctl wrangle --input data.csv --marker-column raise --marker-start start --marker-end end --order-columns order
  wranglerctl wrangle --input data.parquet --params plan.jsonc --engine parallel`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runWrangle(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Wrangle failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(wrangleCmd)
	wrangleCmd.Flags().StringP("input", "i", "", "input data file (.csv or .parquet)")
	wrangleCmd.Flags().StringP("output", "o", "", "output data file; stdout CSV when omitted")
	wrangleCmd.Flags().String("params", "", "wrangling plan file")
	wrangleCmd.Flags().String("marker-column", "", "marker column name (alternative to --params)")
	wrangleCmd.Flags().String("marker-start", "", "interval opening marker")
	wrangleCmd.Flags().String("marker-end", "", "interval closing marker; omit for counting mode")
	wrangleCmd.Flags().StringSlice("order-columns", nil, "row order columns")
	wrangleCmd.Flags().StringSlice("group-columns", nil, "group-by columns")
	wrangleCmd.Flags().String("target", "", "name of the id column")
	wrangleCmd.Flags().String("engine", "", "execution engine (overrides plan and config)")
	wrangleCmd.Flags().String("strategy", "", "marker pairing strategy (overrides plan)")
	wrangleCmd.Flags().Bool("debug", false, "print the intermediate algorithm vectors")
	_ = wrangleCmd.MarkFlagRequired("input")
}

func runWrangle(cmd *cobra.Command) error {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	params, _ := cmd.Flags().GetString("params")
	engineName, _ := cmd.Flags().GetString("engine")
	strategyName, _ := cmd.Flags().GetString("strategy")
	debug, _ := cmd.Flags().GetBool("debug")

	plan, err := loadOrBuildPlan(cmd, params)
	if err != nil {
		return err
	}
	if strategyName != "" {
		strategy, err := interval.StrategyString(strategyName)
		if err != nil {
			return fmt.Errorf("unknown strategy %q (one of %s)",
				strategyName, strings.Join(interval.StrategyStrings(), ", "))
		}
		plan.Strategy = strategy
	}

	ident, err := plan.Identifier()
	if err != nil {
		return err
	}

	if engineName == "" {
		engineName = plan.Engine
	}
	if engineName == "" {
		engineName = config.Get().Engine
	}
	eng, err := engine.DefaultRegistry.Resolve(engineName)
	if err != nil {
		return err
	}

	f, err := readFrame(input)
	if err != nil {
		return err
	}

	ctx := context.Background()
	result, err := eng.Transform(ctx, ident, f)
	if err != nil {
		return err
	}

	if debug {
		if err := printTrace(ident, f); err != nil {
			return err
		}
	}

	return writeFrame(output, result)
}

// loadOrBuildPlan reads the plan file when given, otherwise assembles a
// plan from the marker and column flags.
func loadOrBuildPlan(cmd *cobra.Command, params string) (*interval.Plan, error) {
	if params != "" {
		return interval.LoadPlan(params)
	}

	markerColumn, _ := cmd.Flags().GetString("marker-column")
	markerStart, _ := cmd.Flags().GetString("marker-start")
	if markerColumn == "" || markerStart == "" {
		return nil, fmt.Errorf("either --params or both --marker-column and --marker-start are required")
	}
	markerEnd, _ := cmd.Flags().GetString("marker-end")
	orderColumns, _ := cmd.Flags().GetStringSlice("order-columns")
	groupColumns, _ := cmd.Flags().GetStringSlice("group-columns")
	target, _ := cmd.Flags().GetString("target")

	plan := &interval.Plan{
		MarkerColumn:     markerColumn,
		MarkerStart:      jsonString(markerStart),
		OrderColumns:     orderColumns,
		GroupByColumns:   groupColumns,
		TargetColumnName: target,
	}
	if markerEnd != "" {
		plan.MarkerEnd = jsonString(markerEnd)
	}
	return plan, nil
}

// jsonString encodes a flag value as a JSON string marker. String
// markers go through the plan's usual type inference.
func jsonString(s string) json.RawMessage {
	raw, _ := json.Marshal(s)
	return raw
}

func readFrame(path string) (*frame.Frame, error) {
	switch ext := filepath.Ext(path); ext {
	case ".csv":
		file, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer func() { _ = file.Close() }()
		return frame.ReadCSV(file)
	case ".parquet":
		return frame.ReadParquetFile(path)
	default:
		return nil, fmt.Errorf("unsupported input format %q (use .csv or .parquet)", ext)
	}
}

func writeFrame(path string, f *frame.Frame) error {
	if path == "" {
		return frame.WriteCSV(os.Stdout, f)
	}
	switch ext := filepath.Ext(path); ext {
	case ".csv":
		file, err := os.Create(path)
		if err != nil {
			return err
		}
		defer func() { _ = file.Close() }()
		return frame.WriteCSV(file, f)
	case ".parquet":
		return frame.WriteParquetFile(path, f)
	default:
		return fmt.Errorf("unsupported output format %q (use .csv or .parquet)", ext)
	}
}

// printTrace reruns the cumsum algorithm with tracing enabled and dumps
// the intermediate vectors per group.
func printTrace(ident *interval.Identifier, f *frame.Frame) error {
	prep, err := ident.Prepare(f)
	if err != nil {
		return err
	}
	for i, g := range prep.Groups {
		trace := &interval.Trace{}
		ident.CumsumTraced(prep.GroupMarkers(g), trace)
		fmt.Fprintf(os.Stderr, "group %d (%d rows):\n", i, len(g.Rows))
		for _, step := range trace.Steps() {
			fmt.Fprintf(os.Stderr, "  %-20s %v\n", step.Name, step.Values)
		}
	}
	return nil
}
