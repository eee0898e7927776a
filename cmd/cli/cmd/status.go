package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"shipment-dashboard/internal/shipment"
)

func newSetStatusCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-status <doc-id> <status>",
		Short: "Change the status of an order",
		Long: `Change the delivery status of an order. The status is either the full text or
its number from "shipdash statuses". Setting "Pesanan Selesai" completes the
order.`,
		Example: `  shipdash set-status abc123 3
  shipdash set-status abc123 "Kurir menuju ke lokasi anda"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initializeClient(cmd, opts)
			if err != nil {
				return err
			}

			status, err := shipment.ParseStatus(args[1])
			if err != nil {
				s.formatter.PrintError(err)
				return err
			}

			err = s.withSpinner("Memperbarui status...", func() error {
				return s.service.SetStatus(cmd.Context(), args[0], status)
			})
			if err != nil {
				s.formatter.PrintError(err)
				return err
			}

			s.formatter.PrintSuccess(fmt.Sprintf("Status %s diubah menjadi %q", args[0], status))
			return nil
		},
	}
}

func newCompleteCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "complete <doc-id>",
		Aliases: []string{"done", "selesai"},
		Short:   "Mark an order as completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initializeClient(cmd, opts)
			if err != nil {
				return err
			}

			err = s.withSpinner("Menyelesaikan pesanan...", func() error {
				return s.service.Complete(cmd.Context(), args[0])
			})
			if err != nil {
				s.formatter.PrintError(err)
				return err
			}

			s.formatter.PrintSuccess(fmt.Sprintf("Pesanan %s selesai", args[0]))
			return nil
		},
	}
}
