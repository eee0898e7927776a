package cmd

import (
	"github.com/spf13/cobra"

	"shipment-dashboard/internal/api"
)

func newTrackCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "track <no-resi>",
		Aliases: []string{"cek"},
		Short:   "Track a shipment by tracking number",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initializeClient(cmd, opts)
			if err != nil {
				return err
			}

			var result *api.TrackingResult
			err = s.withSpinner("Melacak paket...", func() (err error) {
				result, err = s.service.Track(cmd.Context(), args[0])
				return err
			})
			if err != nil {
				s.formatter.PrintError(err)
				return err
			}
			return s.formatter.PrintTracking(result)
		},
	}
}
