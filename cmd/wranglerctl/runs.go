package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"wrangler-in-go/pkg/config"
	"wrangler-in-go/pkg/server/endpoints"
)

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Query recorded matrix runs",
	Long: `Query recorded matrix runs through the wrangler API server.

Example:
  wranglerctl runs
  wranglerctl runs --limit 5
  wranglerctl runs show run-20230401-120000`,
	Run: func(cmd *cobra.Command, args []string) {
		limit, _ := cmd.Flags().GetInt("limit")
		if err := listRuns(limit); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

var runsShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show one recorded run with its cells and artifacts",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := showRun(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
	runsCmd.AddCommand(runsShowCmd)
	runsCmd.Flags().Int("limit", 20, "maximum number of runs to list")
}

func apiGet(path string, out interface{}) error {
	cfg := config.Get()
	url := fmt.Sprintf("http://%s%s", cfg.Addr(), path)

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var apiErr endpoints.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server returned %d", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func listRuns(limit int) error {
	var runs []endpoints.RunResponse
	if err := apiGet(fmt.Sprintf("/runs?limit=%d", limit), &runs); err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return nil
	}
	for _, run := range runs {
		fmt.Printf("%-25s %-8s %d cells: %d passed, %d failed, %d errored, %d excluded\n",
			run.ID, run.Status, run.CellsTotal, run.Passed, run.Failed, run.Errored, run.Excluded)
	}
	return nil
}

func showRun(id string) error {
	var run endpoints.RunResponse
	if err := apiGet("/runs/"+id, &run); err != nil {
		return err
	}

	fmt.Printf("Run:    %s\n", run.ID)
	fmt.Printf("Status: %s\n", run.Status)
	fmt.Printf("Cells:  %d total, %d passed, %d failed, %d errored, %d excluded\n",
		run.CellsTotal, run.Passed, run.Failed, run.Errored, run.Excluded)

	if len(run.Cells) > 0 {
		fmt.Println()
		for _, cell := range run.Cells {
			line := fmt.Sprintf("  %-30s %-8s %dms", cell.Env, cell.State, cell.DurationMS)
			if cell.ErrorMessage != "" {
				line += "  " + cell.ErrorMessage
			}
			fmt.Println(line)
		}
	}
	if len(run.Artifacts) > 0 {
		fmt.Println()
		for _, a := range run.Artifacts {
			fmt.Printf("  %s (%d bytes)\n", a.Key, a.Size)
		}
	}
	return nil
}
