package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"wrangler-in-go/pkg/config"
)

// matrixWatchCmd represents the matrix watch command
var matrixWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the automation configs and re-lint on change",
	Long: `Watch the matrix, CI descriptor and package descriptor files and
re-lint them whenever one changes.

Example:
  wranglerctl matrix watch`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := watchConfigs(cmd); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to watch configs: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	matrixCmd.AddCommand(matrixWatchCmd)
	matrixWatchCmd.Flags().String("package", "", "package descriptor file (overrides config)")
}

func watchConfigs(cmd *cobra.Command) error {
	cfg := config.Get()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	paths := watchPaths(cmd, cfg)
	for _, path := range paths {
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch file %s: %w", path, err)
		}
	}

	fmt.Printf("Watching %v for changes\n", paths)
	lintAndReport(cmd)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write == fsnotify.Write || event.Op&fsnotify.Create == fsnotify.Create {
				fmt.Printf("[%s] %s changed, re-linting...\n", time.Now().Format(time.RFC3339), event.Name)
				lintAndReport(cmd)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "Watcher error: %v\n", err)
		case <-sigChan:
			fmt.Println("\nShutting down...")
			return nil
		}
	}
}

func watchPaths(cmd *cobra.Command, cfg *config.Config) []string {
	matrixPath, _ := cmd.Flags().GetString("matrix")
	if matrixPath == "" {
		matrixPath = cfg.MatrixPath
	}
	ciPath, _ := cmd.Flags().GetString("ci")
	if ciPath == "" {
		ciPath = cfg.CIPath
	}
	packagePath, _ := cmd.Flags().GetString("package")
	if packagePath == "" {
		packagePath = cfg.PackagePath
	}

	paths := []string{matrixPath, ciPath}
	if _, err := os.Stat(packagePath); err == nil {
		paths = append(paths, packagePath)
	}
	return paths
}

func lintAndReport(cmd *cobra.Command) {
	res, err := lintAll(cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Lint error: %v\n", err)
		return
	}
	for _, e := range res.Errors {
		fmt.Println(e.Error())
	}
	if res.Valid() {
		fmt.Println("OK")
	} else {
		fmt.Printf("%d problem(s) found\n", len(res.Errors))
	}
}
