package report

import (
	"fmt"
	"strings"

	"fjacquet/ledgerdash/internal/currencyutils"
	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/models"

	"github.com/shopspring/decimal"
)

// Dashboard is the overview of the whole ledger.
type Dashboard struct {
	Persons      int
	Transactions int
	Balances     ledger.Balances
	Totals       map[models.Currency]decimal.Decimal
	// AverageRates holds the weighted receipt rate of each rated currency.
	AverageRates map[models.Currency]decimal.Decimal
	Reference    models.Currency
}

// BuildDashboard derives the overview from persons and records. reference
// selects the rate shown first.
func BuildDashboard(persons []string, ts models.Transactions, reference models.Currency) Dashboard {
	balances := ledger.CalculateBalances(persons, ts)
	d := Dashboard{
		Persons:      len(persons),
		Transactions: len(ts),
		Balances:     balances,
		Totals:       balances.Totals(),
		AverageRates: map[models.Currency]decimal.Decimal{},
		Reference:    reference,
	}
	for _, c := range models.Currencies() {
		if c.RequiresRate() {
			d.AverageRates[c] = ledger.AverageRate(ts, c)
		}
	}
	return d
}

// Markdown renders the dashboard.
func (d Dashboard) Markdown() string {
	var b strings.Builder
	b.WriteString("# Dashboard\n\n")
	fmt.Fprintf(&b, "- persons: %d\n- transactions: %d\n", d.Persons, d.Transactions)

	for _, c := range d.rateOrder() {
		rate := d.AverageRates[c]
		shown := "n/a"
		if !rate.IsZero() {
			shown = currencyutils.FormatNumber(rate.Round(2))
		}
		fmt.Fprintf(&b, "- average %s rate: %s\n", c.LabelZh(), shown)
	}

	b.WriteString("\n## Totals\n\n")
	header := make([]string, 0, 3)
	row := make([]string, 0, 3)
	for _, c := range models.Currencies() {
		header = append(header, c.LabelZh())
		row = append(row, amountCell(d.Totals[c], c))
	}
	table(&b, header, [][]string{row})

	b.WriteString("\n## Balances\n\n")
	b.WriteString(BalancesMarkdown(d.Balances))
	return b.String()
}

func (d Dashboard) rateOrder() []models.Currency {
	var out []models.Currency
	if _, ok := d.AverageRates[d.Reference]; ok {
		out = append(out, d.Reference)
	}
	for _, c := range models.Currencies() {
		if _, ok := d.AverageRates[c]; ok && c != d.Reference {
			out = append(out, c)
		}
	}
	return out
}
