// Package transfer records money moved between two persons.
package transfer

import (
	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/models"

	"github.com/spf13/cobra"
)

type options struct {
	from        string
	to          string
	amount      string
	currency    string
	date        string
	description string
}

var opts options

// Cmd represents the transfer command
var Cmd = &cobra.Command{
	Use:     "transfer",
	Short:   "Record money moved from one person to another",
	Long:    `Record money moved from one person to another in the same currency.`,
	Example: `  ledgerdash transfer --from JACK --to JD -a 20 --currency usd`,
	Args:    cobra.NoArgs,
	RunE:    transferFunc,
}

func init() {
	Cmd.Flags().StringVar(&opts.from, "from", "", "Person sending the money (required)")
	Cmd.Flags().StringVar(&opts.to, "to", "", "Person receiving the money (required)")
	Cmd.Flags().StringVarP(&opts.amount, "amount", "a", "", "Amount moved (required)")
	Cmd.Flags().StringVar(&opts.currency, "currency", string(models.USD), "Currency: usd, cny or irr")
	Cmd.Flags().StringVarP(&opts.date, "date", "d", "", "Date of the transfer (default now)")
	Cmd.Flags().StringVarP(&opts.description, "description", "n", "", "Free-text description")
	_ = Cmd.MarkFlagRequired("from")
	_ = Cmd.MarkFlagRequired("to")
	_ = Cmd.MarkFlagRequired("amount")
}

func transferFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	user, err := common.RequireUser(c)
	if err != nil {
		return err
	}

	amount, err := common.ParseAmount("amount", opts.amount)
	if err != nil {
		return err
	}
	currency, err := common.ParseCurrency("currency", opts.currency)
	if err != nil {
		return err
	}
	when, err := common.ParseWhen(opts.date)
	if err != nil {
		return err
	}

	tx, err := models.NewTransactionBuilder(models.TypeTransfer).
		WithUser(user.Name).
		WithDate(when).
		WithParties(opts.from, opts.to).
		WithAmount(amount, currency).
		WithDescription(opts.description).
		Build()
	if err != nil {
		return err
	}

	_, err = common.Commit(cmd, c, models.Transactions{tx})
	return err
}
