package cmd

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"shipment-dashboard/internal/api"
)

// flagNames maps request fields to the flags that fill them
var flagNames = map[string]string{
	"BuyerID":  "buyer",
	"ItemName": "item",
	"Quantity": "qty",
	"Origin":   "origin",
	"Dest":     "dest",
}

func newCreateCmd(opts *globalOptions) *cobra.Command {
	req := &api.CreateShipmentRequest{}

	cmd := &cobra.Command{
		Use:     "create",
		Aliases: []string{"add", "new"},
		Short:   "Create a new order",
		Long: `Register a new order with the backend. The backend assigns the tracking
number, price and estimated delivery.`,
		Example: `  shipdash create --buyer B-01 --item "Sepatu Lari" --qty 2 --origin Jakarta --dest Bandung`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := initializeClient(cmd, opts)
			if err != nil {
				return err
			}

			req.BuyerID = strings.TrimSpace(req.BuyerID)
			req.ItemName = strings.TrimSpace(req.ItemName)
			req.Origin = strings.TrimSpace(req.Origin)
			req.Dest = strings.TrimSpace(req.Dest)
			if err := validateCreate(req); err != nil {
				s.formatter.PrintError(err)
				return err
			}

			var created *api.TrackingResult
			err = s.withSpinner("Membuat pesanan...", func() (err error) {
				created, err = s.service.Create(cmd.Context(), req)
				return err
			})
			if err != nil {
				s.formatter.PrintError(err)
				return err
			}

			s.formatter.PrintSuccess(fmt.Sprintf("Pesanan dibuat dengan no resi %s", created.NoResi))
			return s.formatter.PrintTracking(created)
		},
	}

	cmd.Flags().StringVar(&req.BuyerID, "buyer", "", "Buyer ID (required)")
	cmd.Flags().StringVar(&req.ItemName, "item", "", "Item name (required)")
	cmd.Flags().IntVar(&req.Quantity, "qty", 1, "Quantity")
	cmd.Flags().StringVar(&req.Origin, "origin", "", "Sender city (required)")
	cmd.Flags().StringVar(&req.Dest, "dest", "", "Destination city (required)")

	return cmd
}

// validateCreate reports every invalid field by its flag name.
func validateCreate(req *api.CreateShipmentRequest) error {
	err := validator.New(validator.WithRequiredStructEnabled()).Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("--%s wajib diisi", flagNames[fe.StructField()]))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("--%s harus lebih dari %s", flagNames[fe.StructField()], fe.Param()))
		default:
			msgs = append(msgs, fmt.Sprintf("--%s tidak valid", flagNames[fe.StructField()]))
		}
	}
	sort.Strings(msgs)
	return fmt.Errorf("input tidak valid: %s", strings.Join(msgs, ", "))
}
