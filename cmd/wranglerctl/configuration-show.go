package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"wrangler-in-go/pkg/config"
)

// configurationShowCmd represents the configuration show command
var configurationShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show wrangler configuration attributes and their sources",
	Long: `Show wrangler configuration attributes and their sources.

The values displayed by this command reflect the current state of the
configuration sources. For example, the environment variables and config
file. These may not reflect the current values used by a running
wrangler server.

Config file location: /etc/wrangler/wrangler.yml (or WRANGLER_CONFIG)

Example:
  wranglerctl configuration show
  wranglerctl configuration show --output yaml`,
	Run: func(cmd *cobra.Command, args []string) {
		output, _ := cmd.Flags().GetString("output")

		if err := showConfiguration(output); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to show configuration: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	configurationCmd.AddCommand(configurationShowCmd)
	configurationShowCmd.Flags().StringP("output", "o", "text", "Output format (text or yaml)")
}

func showConfiguration(output string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if output == "yaml" {
		yamlOutput, err := cfg.FormatYAML()
		if err != nil {
			return err
		}
		fmt.Println(yamlOutput)
		return nil
	}

	fmt.Print(cfg.FormatText())
	return nil
}
