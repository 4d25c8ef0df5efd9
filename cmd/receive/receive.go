// Package receive records cash received by a person.
package receive

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
	rate        string
	date        string
	description string
}

var opts options

// Cmd represents the receive command
var Cmd = &cobra.Command{
	Use:   "receive",
	Short: "Record money received by a person",
	Long: `Record money received by a person. Receipts in usd or cny need the
exchange rate to toman; the record then also carries amount × rate.
Receipts in toman take no rate.`,
	Example: `  ledgerdash receive -p JACK -a 100 -r 58000
  ledgerdash receive -p AMiR -a 700 --currency cny -r 8000
  ledgerdash receive -p JD -a 5000000 --currency irr`,
	Args: cobra.NoArgs,
	RunE: receiveFunc,
}

func init() {
	Cmd.Flags().StringVarP(&opts.person, "person", "p", "", "Person receiving the money (required)")
	Cmd.Flags().StringVarP(&opts.amount, "amount", "a", "", "Amount received (required)")
	Cmd.Flags().StringVar(&opts.currency, "currency", string(models.USD), "Currency: usd, cny or irr")
	Cmd.Flags().StringVarP(&opts.rate, "rate", "r", "", "Exchange rate to toman, required for usd and cny")
	Cmd.Flags().StringVarP(&opts.date, "date", "d", "", "Date of the receipt (default now)")
	Cmd.Flags().StringVarP(&opts.description, "description", "n", "", "Free-text description")
	_ = Cmd.MarkFlagRequired("person")
	_ = Cmd.MarkFlagRequired("amount")
}

func receiveFunc(cmd *cobra.Command, args []string) error {
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

	b := models.NewTransactionBuilder(models.TypeReceive).
		WithUser(user.Name).
		WithDate(when).
		WithPerson(opts.person).
		WithAmount(amount, currency).
		WithDescription(opts.description)
	if opts.rate != "" {
		rate, err := common.ParseAmount("rate", opts.rate)
		if err != nil {
			return err
		}
		b = b.WithRate(rate)
	}
	tx, err := b.Build()
	if err != nil {
		return err
	}

	_, err = common.Commit(cmd, c, models.Transactions{tx})
	return err
}
