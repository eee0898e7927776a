package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"shipment-dashboard/internal/analytics"
	"shipment-dashboard/internal/api"
	cliapi "shipment-dashboard/internal/cli"
	"shipment-dashboard/internal/config"
	"shipment-dashboard/internal/dashboard"
)

// version is set at build time
var version = "dev"

// Execute runs the CLI.
func Execute() error {
	return fang.Execute(context.Background(), newRootCmd(), fang.WithVersion(version))
}

// globalOptions are the persistent flags shared by every command
type globalOptions struct {
	configFile string
	backend    string
	format     string
	quiet      bool
	noColor    bool
	timeout    string
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "shipdash",
		Short: "Shipment dashboard for the terminal",
		Long: `shipdash reads orders from the shipment backend and shows the dashboard,
order tables and analytics. It can also track a shipment, create orders and
move orders through the delivery statuses.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Config file (default: ./cli.yaml, ./config/cli.yaml or $HOME/.shipdash/cli.yaml)")
	flags.StringVarP(&opts.backend, "backend", "b", "", "Shipment backend URL (default http://localhost:5000)")
	flags.StringVarP(&opts.format, "format", "f", "", "Output format (table, json)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "Quiet mode (minimal output)")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable color output")
	flags.StringVar(&opts.timeout, "timeout", "", "Backend request timeout, e.g. 30s")

	rootCmd.AddCommand(
		newDashboardCmd(opts),
		newOrdersCmd(opts),
		newHistoryCmd(opts),
		newAnalyticsCmd(opts),
		newTrackCmd(opts),
		newCreateCmd(opts),
		newSetStatusCmd(opts),
		newCompleteCmd(opts),
		newStatusesCmd(opts),
	)

	return rootCmd
}

// loadConfig merges the config file, SHIPDASH_CLI_* variables and flags.
// Flags that were set win.
func loadConfig(cmd *cobra.Command, opts *globalOptions) (*cliapi.Config, error) {
	v := viper.New()
	if opts.configFile != "" {
		v.SetConfigFile(opts.configFile)
	}

	flags := cmd.Root().PersistentFlags()
	bindings := map[string]string{
		"backend_url":     "backend",
		"format":          "format",
		"quiet":           "quiet",
		"no_color":        "no-color",
		"request_timeout": "timeout",
	}
	for key, name := range bindings {
		if flag := flags.Lookup(name); flag != nil && flag.Changed {
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	return config.LoadCLIConfigWithViper(v)
}

// session is what a command needs to talk to the backend and print results
type session struct {
	config    *cliapi.Config
	formatter *cliapi.OutputFormatter
	service   *dashboard.Service
}

// initializeClient sets up configuration, formatter, and dashboard service
func initializeClient(cmd *cobra.Command, opts *globalOptions) (*session, error) {
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		return nil, err
	}

	client, err := api.NewClient(&api.ClientConfig{
		BaseURL: cfg.BackendURL,
		Timeout: cfg.RequestTimeout,
		Logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		return nil, err
	}

	loc := time.Local
	if cfg.Timezone != "" && cfg.Timezone != "Local" {
		if loc, err = time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
	}

	service := dashboard.NewService(client, analytics.NewEngine(analytics.WithLocation(loc)), dashboard.Options{})
	formatter := cliapi.NewOutputFormatterTo(cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg.Format, cfg.Quiet, cfg.NoColor).
		WithEngine(service.Engine())

	return &session{
		config:    cfg,
		formatter: formatter,
		service:   service,
	}, nil
}

// withSpinner runs fn behind a spinner unless output is quiet.
func (s *session) withSpinner(message string, fn func() error) error {
	return cliapi.NewProgressSpinner(message, s.config.NoColor || s.config.Quiet).Run(fn)
}
