package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	backend "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"

	"github.com/tumaini/bizmanager/internal/adapters/docstore"
	httpAdapter "github.com/tumaini/bizmanager/internal/adapters/http"
	"github.com/tumaini/bizmanager/internal/adapters/memory"
	redisAdapter "github.com/tumaini/bizmanager/internal/adapters/redis"
	"github.com/tumaini/bizmanager/internal/config"
	"github.com/tumaini/bizmanager/internal/dialog"
	"github.com/tumaini/bizmanager/internal/logging"
	"github.com/tumaini/bizmanager/internal/metrics"
	"github.com/tumaini/bizmanager/internal/service"
	"github.com/tumaini/bizmanager/internal/session"
	"github.com/tumaini/bizmanager/pkg/ports"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the USSD gateway server",
	Long:  `Starts the dialog engine and serves the gateway callback over HTTP.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfgPath, _ := cmd.Flags().GetString("config")

		cfg, err := config.Load(cfgPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			cfg.Listen = listen
		}

		logger := logging.New(logging.ParseLevel(cfg.Log.Level))

		store, err := docstore.New(cfg.Data.Path)
		if err != nil {
			fmt.Printf("Error opening data store: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()
		repo := docstore.NewRepository(store)

		var (
			sessions ports.SessionStore
			locker   ports.DistributedLocker
		)
		if cfg.Redis.Addr != "" {
			client := backend.NewClient(&backend.Options{
				Addr:     cfg.Redis.Addr,
				Password: cfg.Redis.Password,
				DB:       cfg.Redis.DB,
			})
			sessions = redisAdapter.NewFromClient(client, redisAdapter.WithTTL(cfg.Session.TTL.Std()))
			locker = redisAdapter.NewLocker(client, "bizmanager:lock:")
			logger.Info("using redis session backend", "addr", cfg.Redis.Addr)
		} else {
			sessions = memory.NewStore(memory.WithTTL(cfg.Session.TTL.Std()))
		}

		managerOpts := []session.Option{
			session.WithTTL(cfg.Session.TTL.Std()),
			session.WithLogger(logger),
		}
		if locker != nil {
			managerOpts = append(managerOpts, session.WithLocker(locker))
		}
		manager := session.NewManager(sessions, managerOpts...)

		registry := prometheus.NewRegistry()
		instruments := metrics.New(registry, func() float64 {
			ids, err := manager.List(context.Background())
			if err != nil {
				return 0
			}
			return float64(len(ids))
		})

		engine := dialog.New(repo, dialog.WithLogger(logger))
		svc := service.New(manager, engine, repo,
			service.WithLogger(logger),
			service.WithMetrics(instruments),
		)

		srv := httpAdapter.NewServer(cfg.Listen, svc,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetricsGatherer(registry),
		)

		sweepCtx, stopSweep := context.WithCancel(context.Background())
		defer stopSweep()
		go manager.Sweep(sweepCtx, cfg.Session.SweepInterval.Std())

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)
		go func() {
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			logger.Info("shutting down", "signal", sig.String())
			stopSweep()

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
			}
			logger.Info("server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("listen", "l", "", "Listen address (overrides config)")
}
