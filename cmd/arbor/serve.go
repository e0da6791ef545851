package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/arbor"
	"github.com/aretw0/arbor/internal/logging"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Tick a tree and expose it over HTTP",
	Long:  `Loads a tree document, ticks it continuously, and serves status, blackboard, coverage, graph and metrics endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")
		port, _ := cmd.Flags().GetString("port")
		period, _ := cmd.Flags().GetDuration("period")

		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("Error reading tree document: %v\n", err)
			os.Exit(1)
		}

		logger := logging.New(slog.LevelInfo)
		engine, err := arbor.FromYAML(data, arbor.WithLogger(logger))
		if err != nil {
			fmt.Printf("Error assembling tree: %v\n", err)
			os.Exit(1)
		}
		engine.EnableMetrics(prometheus.DefaultRegisterer)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: engine.Handler(),
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Arbor Server on %s\n", srv.Addr)
			fmt.Printf("Ticking tree from: %s\n", file)
			serverErrors <- srv.ListenAndServe()
		}()

		tickErrors := make(chan error, 1)
		go func() {
			tickErrors <- engine.TickTock(ctx, period, -1)
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			// Error when starting HTTP server.
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case err := <-tickErrors:
			fmt.Printf("Tick loop stopped: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)
			cancel()

			// Give outstanding requests a deadline for completion.
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer shutdownCancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(shutdownCtx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Arbor Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Duration("period", 500*time.Millisecond, "Delay between ticks")
}
