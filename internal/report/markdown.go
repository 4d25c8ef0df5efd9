package report

import (
	"fmt"
	"strings"

	"fjacquet/ledgerdash/internal/currencyutils"
	"fjacquet/ledgerdash/internal/dateutils"
	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/models"

	"github.com/shopspring/decimal"
)

var cellEscaper = strings.NewReplacer("|", `\|`, "\r\n", " ", "\n", " ", "\r", " ")

func cell(s string) string {
	s = cellEscaper.Replace(strings.TrimSpace(s))
	if s == "" {
		return " "
	}
	return s
}

// table writes a GFM table.
func table(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("|")
	for _, h := range header {
		b.WriteString(" " + cell(h) + " |")
	}
	b.WriteString("\n|")
	for range header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString("|")
		for _, c := range r {
			b.WriteString(" " + cell(c) + " |")
		}
		b.WriteString("\n")
	}
}

func amountCell(amount decimal.Decimal, c models.Currency) string {
	f := currencyutils.Format(amount, c)
	if f.Negative {
		return "**" + f.Value + "**"
	}
	return f.Value
}

// TransactionsMarkdown renders rows and their summary.
func TransactionsMarkdown(title string, ts models.Transactions, dateLayout string) string {
	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "# %s\n\n", title)
	}
	rows := BuildRows(ts, dateLayout)
	if len(rows) == 0 {
		b.WriteString("_No transactions._\n")
		return b.String()
	}

	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{r.ID, r.Type, r.User, r.Party, r.Amount, r.Currency, r.Rate, r.Date, r.Description})
	}
	table(&b, []string{"id", "type", "user", "person", "amount", "currency", "rate", "date", "description"}, cells)

	b.WriteString("\n")
	b.WriteString(SummaryMarkdown(ledger.Summarize(ts)))
	return b.String()
}

// SummaryMarkdown renders per-type and grand totals.
func SummaryMarkdown(s ledger.Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## Summary (%d records)\n\n", s.Count)

	header := []string{"type"}
	for _, c := range models.Currencies() {
		header = append(header, c.LabelZh())
	}
	var rows [][]string
	for _, k := range models.TransactionTypes() {
		if k == models.TypeDelivery {
			continue
		}
		row := []string{string(k)}
		for _, c := range models.Currencies() {
			row = append(row, currencyutils.FormatAmount(s.ByType[k][c], c))
		}
		rows = append(rows, row)
	}
	grand := []string{"**total**"}
	for _, c := range models.Currencies() {
		grand = append(grand, currencyutils.FormatAmount(s.Grand[c], c))
	}
	rows = append(rows, grand)
	table(&b, header, rows)
	return b.String()
}

// BalancesMarkdown renders one row per person and a totals row.
func BalancesMarkdown(balances ledger.Balances) string {
	var b strings.Builder
	header := []string{"person"}
	for _, c := range models.Currencies() {
		header = append(header, c.LabelZh())
	}
	var rows [][]string
	for _, p := range balances.Persons() {
		row := []string{p}
		for _, c := range models.Currencies() {
			row = append(row, amountCell(balances.Get(p, c), c))
		}
		rows = append(rows, row)
	}
	totals := balances.Totals()
	row := []string{"**total**"}
	for _, c := range models.Currencies() {
		row = append(row, amountCell(totals[c], c))
	}
	rows = append(rows, row)
	table(&b, header, rows)
	return b.String()
}

// OrdersMarkdown lists order groups.
func OrdersMarkdown(orders []ledger.Order, dateLayout string) string {
	var b strings.Builder
	b.WriteString("# Orders\n\n")
	if len(orders) == 0 {
		b.WriteString("_No orders._\n")
		return b.String()
	}
	rows := make([][]string, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, []string{
			o.Number,
			fmt.Sprintf("%d", len(o.Entries)),
			byCurrency(o.ByCurrency),
			dateutils.FormatDate(o.LastDate, dateLayout),
			string(o.Status),
		})
	}
	table(&b, []string{"order", "entries", "total", "last date", "status"}, rows)
	return b.String()
}

// OrderMarkdown renders one order with its entries.
func OrderMarkdown(o ledger.Order, categories []models.Category, dateLayout string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Order %s\n\n", o.Number)
	fmt.Fprintf(&b, "- status: %s\n- total: %s\n- last date: %s\n\n",
		o.Status, byCurrency(o.ByCurrency), dateutils.FormatDate(o.LastDate, dateLayout))

	entries := BuildOrderRows(o, categories, dateLayout)
	rows := make([][]string, 0, len(entries))
	for i, e := range entries {
		rows = append(rows, []string{o.Entries[i].ID, e.Date, e.Amount, e.Category, e.Description, e.Status})
	}
	table(&b, []string{"id", "date", "amount", "category", "description", "status"}, rows)
	return b.String()
}

// PackagesMarkdown lists delivery packages.
func PackagesMarkdown(pkgs []ledger.Package, dateLayout string) string {
	var b strings.Builder
	b.WriteString("# Packages\n\n")
	if len(pkgs) == 0 {
		b.WriteString("_No deliveries._\n")
		return b.String()
	}
	rows := make([][]string, 0, len(pkgs))
	for _, p := range pkgs {
		rows = append(rows, []string{
			p.Number,
			fmt.Sprintf("%d", len(p.Entries)),
			fmt.Sprintf("%d", p.TotalBoxes),
			currencyutils.FormatNumber(p.TotalWeight),
			dateutils.FormatDate(p.LastDate, dateLayout),
		})
	}
	table(&b, []string{"package", "entries", "boxes", "weight", "last date"}, rows)
	return b.String()
}

// PackageMarkdown renders one package with its entries, newest first.
func PackageMarkdown(p ledger.Package, dateLayout string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Package %s\n\n", p.Number)
	fmt.Fprintf(&b, "- boxes: %d\n- weight: %s\n- last date: %s\n\n",
		p.TotalBoxes, currencyutils.FormatNumber(p.TotalWeight), dateutils.FormatDate(p.LastDate, dateLayout))

	rows := make([][]string, 0, len(p.Entries))
	for _, d := range p.Entries {
		rows = append(rows, []string{
			d.ID,
			dateutils.FormatDate(d.Date, dateLayout),
			fmt.Sprintf("%d", d.BoxCount),
			currencyutils.FormatNumber(d.Weight),
			d.ReceiptNumber,
			d.OrderNumber,
			d.Description,
		})
	}
	table(&b, []string{"id", "date", "boxes", "weight", "receipt", "order", "description"}, rows)
	return b.String()
}

// CategoriesMarkdown lists categories.
func CategoriesMarkdown(categories []models.Category) string {
	var b strings.Builder
	b.WriteString("# Categories\n\n")
	if len(categories) == 0 {
		b.WriteString("_No categories._\n")
		return b.String()
	}
	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{c.Value, c.Label})
	}
	table(&b, []string{"key", "label"}, rows)
	return b.String()
}

func byCurrency(m map[models.Currency]decimal.Decimal) string {
	var parts []string
	for _, c := range models.Currencies() {
		if v, ok := m[c]; ok && !v.IsZero() {
			parts = append(parts, currencyutils.FormatAmount(v, c))
		}
	}
	if len(parts) == 0 {
		return "0"
	}
	return strings.Join(parts, " + ")
}

// ListMarkdown renders a titled table, or empty when there are no rows.
func ListMarkdown(title string, header []string, rows [][]string, empty string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	if len(rows) == 0 {
		fmt.Fprintf(&b, "_%s_\n", empty)
		return b.String()
	}
	table(&b, header, rows)
	return b.String()
}

// TransactionMarkdown renders every field of one record.
func TransactionMarkdown(tx models.Transaction, categories []models.Category, dateLayout string) string {
	h := tx.Head()
	fields := [][]string{
		{"id", h.ID},
		{"type", string(tx.Kind())},
		{"user", h.User},
		{"date", dateutils.FormatDate(h.Date, dateLayout)},
	}
	switch v := tx.(type) {
	case models.Receive:
		fields = append(fields, []string{"person", v.Person}, []string{"amount", amountCell(v.Amount, v.Currency)})
		if v.Rate != nil {
			fields = append(fields, []string{"rate", currencyutils.FormatNumber(*v.Rate)})
		}
		if v.Sum != nil {
			fields = append(fields, []string{"sum", currencyutils.FormatNumber(*v.Sum)})
		}
	case models.Pay:
		fields = append(fields, []string{"person", v.Person}, []string{"amount", amountCell(v.Amount, v.Currency)})
	case models.Transfer:
		fields = append(fields, []string{"from", v.From}, []string{"to", v.To}, []string{"amount", amountCell(v.Amount, v.Currency)})
	case models.Buy:
		fields = append(fields,
			[]string{"person", v.Person},
			[]string{"amount", amountCell(v.Amount, v.Currency)},
			[]string{"order", v.OrderNumber},
			[]string{"category", models.CategoryLabel(categories, v.Category)},
			[]string{"status", string(v.Status.OrDefault())})
	case models.Delivery:
		fields = append(fields,
			[]string{"package", v.DeliveryNumber},
			[]string{"boxes", fmt.Sprintf("%d", v.BoxCount)},
			[]string{"weight", currencyutils.FormatNumber(v.Weight) + " kg"},
			[]string{"receipt", v.ReceiptNumber},
			[]string{"order", v.OrderNumber},
			[]string{"receipt image", v.ReceiptImage},
			[]string{"boxes image", v.BoxesImage})
	}
	fields = append(fields, []string{"description", h.Description})
	return ListMarkdown("Transaction "+h.ID, []string{"field", "value"}, fields, "")
}
