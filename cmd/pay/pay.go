// Package pay records money paid out by a person.
package pay

import (
	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/models"

	"github.com/spf13/cobra"
)

type options struct {
	person      string
	amount      string
	currency    string
	date        string
	description string
}

var opts options

// Cmd represents the pay command
var Cmd = &cobra.Command{
	Use:   "pay",
	Short: "Record money paid by a person",
	Long: `Record money paid out by a person. A payment that would leave the
person's balance negative is handled by the negative balance policy.`,
	Example: `  ledgerdash pay -p JACK -a 30 --currency usd -n "rent"`,
	Args:    cobra.NoArgs,
	RunE:    payFunc,
}

func init() {
	Cmd.Flags().StringVarP(&opts.person, "person", "p", "", "Person paying (required)")
	Cmd.Flags().StringVarP(&opts.amount, "amount", "a", "", "Amount paid (required)")
	Cmd.Flags().StringVar(&opts.currency, "currency", string(models.USD), "Currency: usd, cny or irr")
	Cmd.Flags().StringVarP(&opts.date, "date", "d", "", "Date of the payment (default now)")
	Cmd.Flags().StringVarP(&opts.description, "description", "n", "", "Free-text description")
	_ = Cmd.MarkFlagRequired("person")
	_ = Cmd.MarkFlagRequired("amount")
}

func payFunc(cmd *cobra.Command, args []string) error {
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

	tx, err := models.NewTransactionBuilder(models.TypePay).
		WithUser(user.Name).
		WithDate(when).
		WithPerson(opts.person).
		WithAmount(amount, currency).
		WithDescription(opts.description).
		Build()
	if err != nil {
		return err
	}

	_, err = common.Commit(cmd, c, models.Transactions{tx})
	return err
}
