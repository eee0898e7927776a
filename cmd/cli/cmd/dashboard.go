package cmd

import (
	"github.com/spf13/cobra"

	"shipment-dashboard/internal/dashboard"
	"shipment-dashboard/internal/shipment"
)

func newDashboardCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard",
		Aliases: []string{"dash", "summary"},
		Short:   "Show the order summary",
		Long: `Show order counts, delivery success rate, the monthly purchase chart and
the most recent orders.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initializeClient(cmd, opts)
			if err != nil {
				return err
			}

			var view dashboard.DashboardView
			err = s.withSpinner("Memuat dashboard...", func() (err error) {
				view, err = s.service.Dashboard(cmd.Context())
				return err
			})
			if err != nil {
				s.formatter.PrintError(err)
				return err
			}
			return s.formatter.PrintDashboard(view)
		},
	}
}

func newAnalyticsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "analytics",
		Aliases: []string{"stats"},
		Short:   "Show sales and delivery analytics",
		Long: `Show revenue and order growth against last month, delivery performance,
the monthly revenue chart, status distribution and the busiest routes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initializeClient(cmd, opts)
			if err != nil {
				return err
			}

			var view dashboard.AnalyticsView
			err = s.withSpinner("Menghitung analitik...", func() (err error) {
				view, err = s.service.Analytics(cmd.Context())
				return err
			})
			if err != nil {
				s.formatter.PrintError(err)
				return err
			}
			return s.formatter.PrintAnalytics(view)
		},
	}
}

func newStatusesCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "statuses",
		Short: "List the delivery statuses",
		Long: `List the delivery statuses in lifecycle order. The number in front of each
status can be passed to set-status instead of the full text.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initializeClient(cmd, opts)
			if err != nil {
				return err
			}
			return s.formatter.PrintStatuses(shipment.Statuses)
		},
	}
}
