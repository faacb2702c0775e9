package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/aretw0/sprig/internal/cli"
	sprighttp "github.com/aretw0/sprig/pkg/adapters/http"
	"github.com/aretw0/sprig/pkg/adapters/memory"
	"github.com/aretw0/sprig/pkg/observability"
	"github.com/aretw0/sprig/pkg/ports"
	"github.com/aretw0/sprig/pkg/session"
)

var serveCmd = &cobra.Command{
	Use:   "serve [document]",
	Short: "Start the HTTP server",
	Long: `Serves the form over a JSON API validated against the embedded OpenAPI
document. Sessions live in memory unless --redis is set. Prometheus metrics
are exposed on /metrics.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := runOptions(cmd, args)
		port, _ := cmd.Flags().GetString("port")
		logger := cli.CreateLogger(opts.Debug)

		metrics := observability.NewMetrics()
		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		if err := metrics.Register(reg); err != nil {
			return err
		}

		engine, err := cli.NewEngine(opts, logger, metrics.Hooks())
		if err != nil {
			return err
		}

		var store ports.StateStore = memory.NewStore()
		sessionOpts := []session.Option{session.WithLogger(logger)}
		if opts.RedisURL != "" {
			backend, err := cli.OpenStore(opts)
			if err != nil {
				return err
			}
			defer backend.Close()
			store = backend.Store
			sessionOpts = append(sessionOpts, session.WithLocker(backend.Locker))
		}
		sessions := session.NewManager(store, sessionOpts...)

		handler, err := sprighttp.NewHandler(sprighttp.NewServer(engine, sessions,
			sprighttp.WithLogger(logger),
			sprighttp.WithMetrics(reg),
		))
		if err != nil {
			return fmt.Errorf("failed to build handler: %w", err)
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			fmt.Printf("Starting Sprig Server on %s\n", srv.Addr)
			fmt.Printf("Serving form: %s\n", engine.Name)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Sprig Server stopped gracefully")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
