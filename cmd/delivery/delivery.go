// Package delivery records shipped packages.
package delivery

import (
	"strconv"

	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"

	"github.com/spf13/cobra"
)

type options struct {
	number       string
	boxes        string
	weight       string
	receipt      string
	order        string
	receiptImage string
	boxesImage   string
	date         string
	description  string
}

var opts options

// Cmd represents the delivery command
var Cmd = &cobra.Command{
	Use:   "delivery",
	Short: "Record a shipped package",
	Long: `Record one shipment of a package. Shipments sharing a delivery number
form the package shown by "package show". Deliveries carry no amount and do
not change balances.`,
	Example: `  ledgerdash delivery --number P-77 --boxes 3 --weight 42.5 --receipt R-9`,
	Args:    cobra.NoArgs,
	RunE:    deliveryFunc,
}

func init() {
	Cmd.Flags().StringVar(&opts.number, "number", "", "Delivery number of the package (required)")
	Cmd.Flags().StringVarP(&opts.boxes, "boxes", "b", "", "Number of boxes (required)")
	Cmd.Flags().StringVarP(&opts.weight, "weight", "w", "", "Weight in kg (required)")
	Cmd.Flags().StringVarP(&opts.receipt, "receipt", "r", "", "Receipt number (required)")
	Cmd.Flags().StringVarP(&opts.order, "order", "o", "", "Related order number")
	Cmd.Flags().StringVar(&opts.receiptImage, "receipt-image", "", "Reference to the receipt image")
	Cmd.Flags().StringVar(&opts.boxesImage, "boxes-image", "", "Reference to the boxes image")
	Cmd.Flags().StringVarP(&opts.date, "date", "d", "", "Date of the shipment (default now)")
	Cmd.Flags().StringVarP(&opts.description, "description", "n", "", "Free-text description")
	_ = Cmd.MarkFlagRequired("number")
	_ = Cmd.MarkFlagRequired("boxes")
	_ = Cmd.MarkFlagRequired("weight")
	_ = Cmd.MarkFlagRequired("receipt")
}

func deliveryFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	user, err := common.RequireUser(c)
	if err != nil {
		return err
	}

	boxes, err := strconv.Atoi(opts.boxes)
	if err != nil || boxes <= 0 {
		return &ledgererror.ValidationError{Type: string(models.TypeDelivery), Field: "boxCount", Reason: "must be a positive whole number"}
	}
	weight, err := common.ParseAmount("weight", opts.weight)
	if err != nil {
		return err
	}
	when, err := common.ParseWhen(opts.date)
	if err != nil {
		return err
	}

	tx, err := models.NewTransactionBuilder(models.TypeDelivery).
		WithUser(user.Name).
		WithDate(when).
		WithDelivery(opts.number, boxes, weight, opts.receipt).
		WithOrder(opts.order, "").
		WithImages(opts.receiptImage, opts.boxesImage).
		WithDescription(opts.description).
		Build()
	if err != nil {
		return err
	}

	_, err = common.Commit(cmd, c, models.Transactions{tx})
	return err
}
