package cmd

import (
	"github.com/spf13/cobra"

	"shipment-dashboard/internal/dashboard"
	"shipment-dashboard/internal/shipment"
)

func newOrdersCmd(opts *globalOptions) *cobra.Command {
	var search, status string

	cmd := &cobra.Command{
		Use:     "orders",
		Aliases: []string{"list", "ls"},
		Short:   "List active orders",
		Long: `List orders that are not yet completed, in backend order. Use --search to match
the buyer, tracking number or item, and --status to keep one delivery status
(full text or its number from "shipdash statuses").`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initializeClient(cmd, opts)
			if err != nil {
				return err
			}

			q := dashboard.OrderQuery{Search: search}
			if status != "" {
				if q.Status, err = shipment.ParseStatus(status); err != nil {
					s.formatter.PrintError(err)
					return err
				}
			}

			var view dashboard.OrdersView
			err = s.withSpinner("Memuat pesanan...", func() (err error) {
				view, err = s.service.Orders(cmd.Context(), q)
				return err
			})
			if err != nil {
				s.formatter.PrintError(err)
				return err
			}
			return s.formatter.PrintOrders(view)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by buyer, tracking number or item")
	cmd.Flags().StringVar(&status, "status", "", "Filter by status text or number")

	return cmd
}

func newHistoryCmd(opts *globalOptions) *cobra.Command {
	var search string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List completed orders",
		Long:  `List completed orders, in backend order.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initializeClient(cmd, opts)
			if err != nil {
				return err
			}

			var view dashboard.HistoryView
			err = s.withSpinner("Memuat riwayat...", func() (err error) {
				view, err = s.service.History(cmd.Context(), dashboard.OrderQuery{Search: search})
				return err
			})
			if err != nil {
				s.formatter.PrintError(err)
				return err
			}
			return s.formatter.PrintHistory(view)
		},
	}

	cmd.Flags().StringVarP(&search, "search", "s", "", "Filter by buyer, tracking number or item")

	return cmd
}
