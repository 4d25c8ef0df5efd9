// Package tx shows, edits and deletes single transactions.
package tx

import (
	"fmt"

	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"
	"fjacquet/ledgerdash/internal/report"
	"fjacquet/ledgerdash/internal/state"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Cmd represents the tx command
var Cmd = &cobra.Command{
	Use:   "tx",
	Short: "Show, edit or delete a transaction",
	Long:  `Show, edit or delete one transaction, selected by its id.`,
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show every field of a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  showFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a transaction",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit fields of a transaction",
	Long: `Edit fields of a transaction. Only the flags given change; the type of a
record cannot change. Flags that do not apply to the record's type are
refused.`,
	Example: `  ledgerdash tx edit 3f2b... -a 45 -n "corrected"
  ledgerdash tx edit 9a1c... --status completed`,
	Args: cobra.ExactArgs(1),
	RunE: editFunc,
}

type editOptions struct {
	person      string
	from        string
	to          string
	amount      string
	currency    string
	rate        string
	date        string
	description string
	order       string
	category    string
	status      string
	number      string
	boxes       int
	weight      string
	receipt     string
}

var edit editOptions

func init() {
	f := editCmd.Flags()
	f.StringVarP(&edit.person, "person", "p", "", "Person of a receive, pay or buy")
	f.StringVar(&edit.from, "from", "", "Sender of a transfer")
	f.StringVar(&edit.to, "to", "", "Receiver of a transfer")
	f.StringVarP(&edit.amount, "amount", "a", "", "Amount")
	f.StringVar(&edit.currency, "currency", "", "Currency")
	f.StringVarP(&edit.rate, "rate", "r", "", "Exchange rate of a receive")
	f.StringVarP(&edit.date, "date", "d", "", "Date")
	f.StringVarP(&edit.description, "description", "n", "", "Description")
	f.StringVarP(&edit.order, "order", "o", "", "Order number of a buy or delivery")
	f.StringVar(&edit.category, "category", "", "Category key of a buy")
	f.StringVarP(&edit.status, "status", "s", "", "Status of a buy: active, completed or cancelled")
	f.StringVar(&edit.number, "number", "", "Delivery number of a delivery")
	f.IntVarP(&edit.boxes, "boxes", "b", 0, "Box count of a delivery")
	f.StringVarP(&edit.weight, "weight", "w", "", "Weight of a delivery in kg")
	f.StringVar(&edit.receipt, "receipt", "", "Receipt number of a delivery")

	Cmd.AddCommand(showCmd, editCmd, deleteCmd)
}

func showFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	s, err := c.State()
	if err != nil {
		return err
	}
	record, ok := s.Find(args[0])
	if !ok {
		return fmt.Errorf("transaction %q: %w", args[0], ledgererror.ErrNotFound)
	}
	md := report.TransactionMarkdown(record, s.Categories(), c.GetReportGenerator().DateLayout())
	return common.Render(cmd, c, md)
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if _, err := common.RequireUser(c); err != nil {
		return err
	}
	if _, err := c.Dispatch(state.DeleteTransaction{ID: args[0]}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
}

func editFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if _, err := common.RequireUser(c); err != nil {
		return err
	}
	s, err := c.State()
	if err != nil {
		return err
	}
	record, ok := s.Find(args[0])
	if !ok {
		return fmt.Errorf("transaction %q: %w", args[0], ledgererror.ErrNotFound)
	}

	changed := cmd.Flags().Changed
	edited, err := apply(record, changed)
	if err != nil {
		return err
	}

	s, err = c.Dispatch(state.EditTransaction{Record: edited, Confirmed: root.SharedFlags.Yes})
	if err != nil {
		return common.ConfirmHint(c, s, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "updated %s %s\n", edited.Kind(), edited.Head().ID)
	return nil
}

// apply returns a copy of record with the changed flags applied.
func apply(record models.Transaction, changed func(string) bool) (models.Transaction, error) {
	h := record.Head()
	if changed("date") {
		when, err := common.ParseWhen(edit.date)
		if err != nil {
			return nil, err
		}
		h.Date = when
	}
	if changed("description") {
		h.Description = edit.description
	}

	allowed := map[models.TransactionType][]string{
		models.TypeReceive:  {"person", "amount", "currency", "rate"},
		models.TypePay:      {"person", "amount", "currency"},
		models.TypeTransfer: {"from", "to", "amount", "currency"},
		models.TypeBuy:      {"person", "amount", "currency", "order", "category", "status"},
		models.TypeDelivery: {"number", "boxes", "weight", "receipt", "order"},
	}
	fields, ok := allowed[record.Kind()]
	if !ok {
		return nil, &ledgererror.ValidationError{Type: string(record.Kind()), Field: "type", Reason: "cannot be edited"}
	}
	for _, name := range []string{"person", "from", "to", "amount", "currency", "rate", "order", "category", "status", "number", "boxes", "weight", "receipt"} {
		if changed(name) && !contains(fields, name) {
			return nil, &ledgererror.ValidationError{Type: string(record.Kind()), Field: name, Reason: "does not apply"}
		}
	}

	var err error
	switch v := record.(type) {
	case models.Receive:
		if changed("person") {
			v.Person = edit.person
		}
		was := v.Currency
		if v.Amount, v.Currency, err = money(v.Amount, v.Currency, changed); err != nil {
			return nil, err
		}
		// A rate is quoted per currency; a new currency needs a new rate.
		if v.Currency != was {
			v.Rate = nil
		}
		if changed("rate") {
			rate, err := common.ParseAmount("rate", edit.rate)
			if err != nil {
				return nil, err
			}
			v.Rate = &rate
		}
		if v.Currency.RequiresRate() {
			if v.Rate == nil {
				return nil, &ledgererror.ValidationError{Type: string(v.Kind()), Field: "rate", Reason: "is required for " + string(v.Currency)}
			}
			if v.Sum != nil || changed("currency") {
				sum := v.Amount.Mul(*v.Rate)
				v.Sum = &sum
			}
		} else {
			v.Sum = nil
		}
		v.Header = h
		return v, nil
	case models.Pay:
		if changed("person") {
			v.Person = edit.person
		}
		if v.Amount, v.Currency, err = money(v.Amount, v.Currency, changed); err != nil {
			return nil, err
		}
		v.Header = h
		return v, nil
	case models.Transfer:
		if changed("from") {
			v.From = edit.from
		}
		if changed("to") {
			v.To = edit.to
		}
		if v.Amount, v.Currency, err = money(v.Amount, v.Currency, changed); err != nil {
			return nil, err
		}
		v.Header = h
		return v, nil
	case models.Buy:
		if changed("person") {
			v.Person = edit.person
		}
		if v.Amount, v.Currency, err = money(v.Amount, v.Currency, changed); err != nil {
			return nil, err
		}
		if changed("order") {
			v.OrderNumber = edit.order
		}
		if changed("category") {
			v.Category = edit.category
		}
		if changed("status") {
			v.Status = models.OrderStatus(edit.status)
		}
		v.Header = h
		return v, nil
	case models.Delivery:
		if changed("number") {
			v.DeliveryNumber = edit.number
		}
		if changed("boxes") {
			v.BoxCount = edit.boxes
		}
		if changed("weight") {
			w, err := common.ParseAmount("weight", edit.weight)
			if err != nil {
				return nil, err
			}
			v.Weight = w
		}
		if changed("receipt") {
			v.ReceiptNumber = edit.receipt
		}
		if changed("order") {
			v.OrderNumber = edit.order
		}
		v.Header = h
		return v, nil
	}
	return nil, &ledgererror.ValidationError{Type: string(record.Kind()), Field: "type", Reason: "cannot be edited"}
}

// money applies the amount and currency flags.
func money(amount decimal.Decimal, currency models.Currency, changed func(string) bool) (decimal.Decimal, models.Currency, error) {
	if changed("amount") {
		a, err := common.ParseAmount("amount", edit.amount)
		if err != nil {
			return amount, currency, err
		}
		amount = a
	}
	if changed("currency") {
		c, err := common.ParseCurrency("currency", edit.currency)
		if err != nil {
			return amount, currency, err
		}
		currency = c
	}
	return amount, currency, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
