// Package convert records a currency exchange between two persons.
package convert

import (
	"fmt"

	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/currencyutils"
	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/models"

	"github.com/spf13/cobra"
)

type options struct {
	sender      string
	receiver    string
	amount      string
	rate        string
	from        string
	to          string
	date        string
	description string
}

var opts options

// Cmd represents the convert command
var Cmd = &cobra.Command{
	Use:   "convert",
	Short: "Record a currency exchange between two persons",
	Long: `Record a currency exchange as one atomic pair: the sender pays the
amount in the source currency and the receiver gets amount × rate in the
target currency.`,
	Example: `  ledgerdash convert --sender JACK --receiver AMiR -a 100 -r 7.2 --from usd --to cny`,
	Args:    cobra.NoArgs,
	RunE:    convertFunc,
}

func init() {
	Cmd.Flags().StringVar(&opts.sender, "sender", "", "Person paying in the source currency (required)")
	Cmd.Flags().StringVar(&opts.receiver, "receiver", "", "Person receiving the target currency (required)")
	Cmd.Flags().StringVarP(&opts.amount, "amount", "a", "", "Amount in the source currency (required)")
	Cmd.Flags().StringVarP(&opts.rate, "rate", "r", "", "Units of the target currency per source unit (required)")
	Cmd.Flags().StringVar(&opts.from, "from", string(models.USD), "Source currency")
	Cmd.Flags().StringVar(&opts.to, "to", string(models.CNY), "Target currency")
	Cmd.Flags().StringVarP(&opts.date, "date", "d", "", "Date of the exchange (default now)")
	Cmd.Flags().StringVarP(&opts.description, "description", "n", "", "Free-text description")
	_ = Cmd.MarkFlagRequired("sender")
	_ = Cmd.MarkFlagRequired("receiver")
	_ = Cmd.MarkFlagRequired("amount")
	_ = Cmd.MarkFlagRequired("rate")
}

func convertFunc(cmd *cobra.Command, args []string) error {
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
	rate, err := common.ParseAmount("rate", opts.rate)
	if err != nil {
		return err
	}
	from, err := common.ParseCurrency("from", opts.from)
	if err != nil {
		return err
	}
	to, err := common.ParseCurrency("to", opts.to)
	if err != nil {
		return err
	}
	when, err := common.ParseWhen(opts.date)
	if err != nil {
		return err
	}

	records, err := ledger.Convert(ledger.Conversion{
		User:        user.Name,
		Sender:      opts.sender,
		Receiver:    opts.receiver,
		Amount:      amount,
		Rate:        rate,
		From:        from,
		To:          to,
		Description: opts.description,
		At:          when,
	})
	if err != nil {
		return err
	}

	if _, err := common.Commit(cmd, c, records); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s → %s\n",
		currencyutils.FormatAmount(amount, from),
		currencyutils.FormatAmount(amount.Mul(rate), to))
	return nil
}
