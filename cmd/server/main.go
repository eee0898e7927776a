package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"shipment-dashboard/internal/analytics"
	"shipment-dashboard/internal/api"
	"shipment-dashboard/internal/cache"
	"shipment-dashboard/internal/config"
	"shipment-dashboard/internal/dashboard"
	"shipment-dashboard/internal/server"
)

func main() {
	if err := newServerCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newServerCmd() *cobra.Command {
	var configFile, envFile string

	cmd := &cobra.Command{
		Use:   "shipdash-server",
		Short: "Serve the shipment dashboard API",
		Long: `Serve the shipment dashboard JSON API and, when configured, the built
frontend. Settings come from SHIPDASH_* environment variables, an optional
.env file and an optional config file.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configFile, envFile)
			if err != nil {
				slog.Error("failed to load configuration", "error", err)
				return err
			}
			return run(cfg)
		},
	}

	cmd.Flags().StringVar(&configFile, "config", "", "Path to a config file")
	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to a .env file (default .env when present)")

	return cmd
}

func run(cfg *config.Config) error {
	logger := cfg.Logger(os.Stdout)
	slog.SetDefault(logger)

	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	client, err := api.NewClient(&api.ClientConfig{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.RequestTimeout,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create backend client: %w", err)
	}

	trackCache := cache.NewManager(cfg.TrackCacheTTL, logger)
	defer trackCache.Close()

	svc := dashboard.NewService(client, analytics.NewEngine(analytics.WithLocation(loc)), dashboard.Options{
		MonthsBack:  cfg.MonthsBack,
		RecentLimit: cfg.RecentLimit,
		Logger:      logger,
		TrackCache:  trackCache,
	})

	handler := server.NewRouter(server.Options{
		Service:       svc,
		Backend:       client,
		Logger:        logger,
		CORSOrigin:    cfg.CORSOrigin,
		RateLimit:     cfg.MutationRateLimit(),
		HealthTimeout: cfg.RequestTimeout,
		StaticDir:     cfg.StaticDir,
		TrackCache:    trackCache,
	})

	srv := &http.Server{
		Addr:    cfg.Address(),
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.RequestTimeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("dashboard configured",
		"backend", client.BaseURL(),
		"months_back", cfg.MonthsBack,
		"timezone", loc.String(),
		"track_cache_ttl", cfg.TrackCacheTTL,
		"rate_limit", cfg.MutationRateLimit())

	if err := server.HandleSignals(srv, cfg.ShutdownTimeout, logger); err != nil {
		logger.Error("server error", "error", err)
		return err
	}
	return nil
}

func loadConfig(configFile, envFile string) (*config.Config, error) {
	if configFile != "" {
		if envFile != "" {
			if err := config.LoadEnvFile(envFile); err != nil {
				return nil, err
			}
		}
		return config.LoadServerConfigWithFile(configFile)
	}
	return config.LoadServerConfigWithEnvFile(envFile)
}
