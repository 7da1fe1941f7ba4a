package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"wrangler-in-go/pkg/config"
	"wrangler-in-go/pkg/wrangler/engine"
)

// enginesCmd represents the engines command
var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "List the available execution engines",
	Long:  `List the available execution engines. The default engine is marked.`,
	Run: func(cmd *cobra.Command, args []string) {
		def := config.Get().Engine
		for _, name := range engine.DefaultRegistry.Names() {
			if name == def {
				fmt.Printf("%s (default)\n", name)
				continue
			}
			fmt.Println(name)
		}
	},
}

func init() {
	rootCmd.AddCommand(enginesCmd)
}
