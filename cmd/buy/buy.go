// Package buy records purchase lines against an order.
package buy

import (
	"fmt"

	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"

	"github.com/spf13/cobra"
)

type options struct {
	person      string
	order       string
	amount      string
	currency    string
	category    string
	status      string
	date        string
	description string
}

var opts options

// Cmd represents the buy command
var Cmd = &cobra.Command{
	Use:   "buy",
	Short: "Record a purchase line of an order",
	Long: `Record one purchase line against an order number. Lines sharing an
order number form the order shown by "order show". The buyer defaults to the
configured order owner and the currency to cny.`,
	Example: `  ledgerdash buy -o A-1024 -a 1250.5 --category material -n "steel sheets"`,
	Args:    cobra.NoArgs,
	RunE:    buyFunc,
}

func init() {
	Cmd.Flags().StringVarP(&opts.person, "person", "p", "", "Buyer (default ledger.order_owner)")
	Cmd.Flags().StringVarP(&opts.order, "order", "o", "", "Order number (required)")
	Cmd.Flags().StringVarP(&opts.amount, "amount", "a", "", "Amount of the line (required)")
	Cmd.Flags().StringVar(&opts.currency, "currency", string(models.CNY), "Currency: usd, cny or irr")
	Cmd.Flags().StringVar(&opts.category, "category", "", "Category key of the line")
	Cmd.Flags().StringVarP(&opts.status, "status", "s", string(models.StatusActive), "Status: active, completed or cancelled")
	Cmd.Flags().StringVarP(&opts.date, "date", "d", "", "Date of the purchase (default now)")
	Cmd.Flags().StringVarP(&opts.description, "description", "n", "", "Free-text description")
	_ = Cmd.MarkFlagRequired("order")
	_ = Cmd.MarkFlagRequired("amount")
}

func buyFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	user, err := common.RequireUser(c)
	if err != nil {
		return err
	}
	s, err := c.State()
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
	if opts.category != "" && !hasCategory(s.Categories(), opts.category) {
		return fmt.Errorf("category %q: %w", opts.category, ledgererror.ErrNotFound)
	}

	person := opts.person
	if person == "" {
		person = c.OrderOwner()
	}

	tx, err := models.NewTransactionBuilder(models.TypeBuy).
		WithUser(user.Name).
		WithDate(when).
		WithPerson(person).
		WithAmount(amount, currency).
		WithOrder(opts.order, opts.category).
		WithStatus(models.OrderStatus(opts.status)).
		WithDescription(opts.description).
		Build()
	if err != nil {
		return err
	}

	_, err = common.Commit(cmd, c, models.Transactions{tx})
	return err
}

func hasCategory(categories []models.Category, key string) bool {
	for _, cat := range categories {
		if cat.Value == key {
			return true
		}
	}
	return false
}
