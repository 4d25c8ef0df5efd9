package report

import (
	"fjacquet/ledgerdash/internal/currencyutils"
	"fjacquet/ledgerdash/internal/dateutils"
	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/models"
)

// Row is one exported transaction line.
type Row struct {
	ID          string `csv:"-"`
	Type        string `csv:"type"`
	User        string `csv:"user"`
	Party       string `csv:"person"`
	Amount      string `csv:"amount"`
	Currency    string `csv:"currency"`
	Rate        string `csv:"rate"`
	Date        string `csv:"date"`
	Description string `csv:"description"`
	// Negative marks amounts the views highlight.
	Negative bool `csv:"-"`
}

// OrderRow is one line of an order export.
type OrderRow struct {
	Date        string `csv:"date"`
	Amount      string `csv:"amount"`
	Category    string `csv:"category"`
	Description string `csv:"description"`
	Status      string `csv:"status"`
}

// Party describes who a record concerns: the person, "from → to" for
// transfers, or the delivery number.
func Party(tx models.Transaction) string {
	switch v := tx.(type) {
	case models.Receive:
		return v.Person
	case models.Pay:
		return v.Person
	case models.Buy:
		return v.Person
	case models.Transfer:
		return v.From + " → " + v.To
	case models.Delivery:
		return v.DeliveryNumber
	}
	return ""
}

// BuildRows converts records to export rows. dateLayout defaults to
// dateutils.DateLayoutDisplay.
func BuildRows(ts models.Transactions, dateLayout string) []Row {
	rows := make([]Row, 0, len(ts))
	for _, tx := range ts {
		if tx == nil {
			continue
		}
		h := tx.Head()
		row := Row{
			ID:          h.ID,
			Type:        string(tx.Kind()),
			User:        h.User,
			Party:       Party(tx),
			Date:        dateutils.FormatDate(h.Date, dateLayout),
			Description: h.Description,
		}
		if c, amount, ok := ledger.AmountOf(tx); ok {
			f := currencyutils.Format(amount, c)
			row.Amount = f.Value
			row.Negative = f.Negative
			row.Currency = c.LabelZh()
		}
		if r, ok := tx.(models.Receive); ok && r.Rate != nil {
			row.Rate = currencyutils.FormatNumber(*r.Rate)
		}
		if d, ok := tx.(models.Delivery); ok {
			row.Amount = currencyutils.FormatNumber(d.Weight) + " kg"
		}
		rows = append(rows, row)
	}
	return rows
}

// BuildOrderRows converts the entries of o. Category keys resolve against
// categories and fall back to the key itself.
func BuildOrderRows(o ledger.Order, categories []models.Category, dateLayout string) []OrderRow {
	rows := make([]OrderRow, 0, len(o.Entries))
	for _, b := range o.Entries {
		rows = append(rows, OrderRow{
			Date:        dateutils.FormatDate(b.Date, dateLayout),
			Amount:      currencyutils.FormatAmount(b.Amount, b.Currency),
			Category:    models.CategoryLabel(categories, b.Category),
			Description: b.Description,
			Status:      string(b.Status.OrDefault()),
		})
	}
	return rows
}
