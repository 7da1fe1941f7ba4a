package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wrangler-in-go/pkg/matrix"
)

var supportMarks = map[string]bool{
	"✓":   true,
	"yes": true,
	"✗":   false,
	"no":  false,
}

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Validate a compatibility table against the version matrix",
	Long: `Validate that a markdown compatibility table matches the version matrix.

The first table in the file is read as the compatibility table: one
column per dependency pin, one row per interpreter, cells marked with
✓ (supported) or ✗ (excluded).

Checks include:
- Every matrix interpreter has exactly one row, and no extra rows exist
- Every dependency pin has exactly one column, and no extra columns exist
- Each cell mark agrees with the matrix exclusion list
- Cell marks are ✓/yes or ✗/no

Example:
  docmatrix validate README.md --matrix matrix.yml --ci ci.yml`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		matrixPath, _ := cmd.Flags().GetString("matrix")
		ciPath, _ := cmd.Flags().GetString("ci")

		m, err := matrix.LoadMatrix(matrixPath)
		if err != nil {
			return err
		}
		ci, err := matrix.LoadCI(ciPath)
		if err != nil {
			return err
		}

		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading file: %w", err)
		}

		table, err := ParseCompatTable(content)
		if err != nil {
			return err
		}

		result := ValidateTable(table, ci, m)

		if result.Valid() {
			fmt.Println("✓ Compatibility table matches the matrix")
			return nil
		}

		fmt.Printf("Found %d issue(s):\n\n", len(result.Errors))
		for _, e := range result.Errors {
			if e.Line > 0 {
				fmt.Printf("  Line %d: %s\n", e.Line, e.Message)
			} else {
				fmt.Printf("  %s\n", e.Message)
			}
		}

		os.Exit(1)
		return nil
	},
}

func init() {
	validateCmd.Flags().String("matrix", "matrix.yml", "matrix file")
	validateCmd.Flags().String("ci", "ci.yml", "CI descriptor file")
	rootCmd.AddCommand(validateCmd)
}

// ValidateTable checks that the table lists exactly the matrix's
// interpreter × dependency-pin support set.
func ValidateTable(table *CompatTable, ci *matrix.CIDescriptor, m *matrix.Matrix) *matrix.ValidationResult {
	result := &matrix.ValidationResult{}
	addError := func(line int, format string, args ...interface{}) {
		result.Errors = append(result.Errors, matrix.ValidationError{
			Line:    line,
			Message: fmt.Sprintf(format, args...),
		})
	}

	// Excluded state per (interpreter, pin), straight from the matrix.
	excluded := make(map[string]map[string]bool)
	cells, err := matrix.Expand(ci, m)
	if err != nil {
		addError(0, "matrix does not expand: %v", err)
		return result
	}
	for _, cell := range cells {
		if excluded[cell.Interpreter] == nil {
			excluded[cell.Interpreter] = make(map[string]bool)
		}
		excluded[cell.Interpreter][cell.Selector.Pin] = cell.Excluded
	}

	pins := make(map[string]bool, len(ci.Env))
	for _, sel := range ci.Env {
		pins[sel.Pin] = true
	}

	// Columns must be exactly the pins.
	seenColumns := make(map[string]bool)
	for _, col := range table.Columns {
		if seenColumns[col] {
			addError(table.Line, "duplicate column '%s'", col)
			continue
		}
		seenColumns[col] = true
		if !pins[col] {
			addError(table.Line, "column '%s' is not a dependency pin in the matrix", col)
		}
	}
	for _, sel := range ci.Env {
		if !seenColumns[sel.Pin] {
			addError(table.Line, "missing column for dependency pin '%s'", sel.Pin)
		}
	}

	// Rows must be exactly the interpreters, with agreeing marks.
	interpreters := make(map[string]bool, len(ci.Interpreters))
	for _, interp := range ci.Interpreters {
		interpreters[interp] = true
	}
	seenRows := make(map[string]bool)
	for _, row := range table.Rows {
		if seenRows[row.Interpreter] {
			addError(row.Line, "duplicate row for interpreter '%s'", row.Interpreter)
			continue
		}
		seenRows[row.Interpreter] = true
		if !interpreters[row.Interpreter] {
			addError(row.Line, "interpreter '%s' is not in the matrix", row.Interpreter)
			continue
		}
		if len(row.Marks) != len(table.Columns) {
			addError(row.Line, "row '%s' has %d marks, expected %d", row.Interpreter, len(row.Marks), len(table.Columns))
			continue
		}
		for i, mark := range row.Marks {
			pin := table.Columns[i]
			if !pins[pin] {
				continue
			}
			supported, ok := supportMarks[mark]
			if !ok {
				addError(row.Line, "cell (%s, %s) has unknown mark '%s' (use ✓ or ✗)", row.Interpreter, pin, mark)
				continue
			}
			if excluded[row.Interpreter][pin] == supported {
				if supported {
					addError(row.Line, "cell (%s, %s) is marked supported but the matrix excludes it", row.Interpreter, pin)
				} else {
					addError(row.Line, "cell (%s, %s) is marked excluded but the matrix supports it", row.Interpreter, pin)
				}
			}
		}
	}
	for _, interp := range ci.Interpreters {
		if !seenRows[interp] {
			addError(0, "missing row for interpreter '%s'", interp)
		}
	}

	return result
}
