package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"wrangler-in-go/pkg/config"
	"wrangler-in-go/pkg/db"
	"wrangler-in-go/pkg/server"
	"wrangler-in-go/pkg/server/endpoints"
	"wrangler-in-go/pkg/store"
	storegorm "wrangler-in-go/pkg/store/gorm"
	"wrangler-in-go/pkg/wrangler/engine"
)

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the wrangler API server",
	Long: `Run the wrangler API server.

The server exposes the wrangling and run reporting endpoints. When
DATABASE_URL is set, run reports are persisted and migrations are run
on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg := config.Get()

		if host, _ := cmd.Flags().GetString("bind-address"); host != "" {
			cfg.Host = host
		}
		if port, _ := cmd.Flags().GetInt("port"); port != 0 {
			cfg.Port = port
		}

		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
			os.Exit(1)
		}

		var runsStore store.RunsStore
		var healthStore store.HealthStore
		if cfg.DatabaseURL != "" {
			noMigrate, _ := cmd.Flags().GetBool("no-migrate")
			if !noMigrate {
				log.Println("Running database migrations...")
				if err := runMigrations(); err != nil {
					fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
					os.Exit(1)
				}
			}

			database, err := db.Connect(db.Config{URL: cfg.DatabaseURL})
			if err != nil {
				fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
				os.Exit(1)
			}
			runsStore = storegorm.NewRunsStore(database)
			healthStore = storegorm.NewHealthStore(database)
		} else {
			log.Println("DATABASE_URL is not set; run persistence is disabled")
		}

		s := server.NewServer(cfg, engine.DefaultRegistry, runsStore, healthStore)
		endpoints.RegisterAll(s)

		errs := make(chan error, 1)
		go func() { errs <- s.Start() }()

		sigs := make(chan os.Signal, 1)
		signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

		log.Printf("Running server at http://%s...\n", cfg.Addr())
		for {
			select {
			case err := <-errs:
				log.Fatal(err)
			case sig := <-sigs:
				if sig == syscall.SIGHUP {
					log.Println("Received SIGHUP, reloading configuration...")
					if err := config.Reload(); err != nil {
						log.Printf("Reload failed: %v", err)
					}
					continue
				}
				log.Printf("Received %s, shutting down...", sig)
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := s.Shutdown(ctx); err != nil {
					log.Fatal(err)
				}
				return
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().IntP("port", "p", 0, "server listen port (overrides config)")
	serverCmd.Flags().StringP("bind-address", "b", "", "server bind address (overrides config)")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
