// Package ledger holds the pure functions that derive balances, average
// rates, order and package groupings and report views from the transaction
// list. Nothing here touches storage.
package ledger

import (
	"sort"

	"fjacquet/ledgerdash/internal/logging"
	"fjacquet/ledgerdash/internal/models"

	"github.com/shopspring/decimal"
)

// Balances maps person to currency to signed amount.
type Balances map[string]map[models.Currency]decimal.Decimal

func zeroRow() map[models.Currency]decimal.Decimal {
	row := make(map[models.Currency]decimal.Decimal, 3)
	for _, c := range models.Currencies() {
		row[c] = decimal.Zero
	}
	return row
}

// Get returns the balance of person in c, zero when absent.
func (b Balances) Get(person string, c models.Currency) decimal.Decimal {
	if row, ok := b[person]; ok {
		if v, ok := row[c]; ok {
			return v
		}
	}
	return decimal.Zero
}

// Persons returns the persons present in b, sorted.
func (b Balances) Persons() []string {
	out := make([]string, 0, len(b))
	for p := range b {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Totals sums each currency across all persons.
func (b Balances) Totals() map[models.Currency]decimal.Decimal {
	totals := zeroRow()
	for _, row := range b {
		for c, v := range row {
			totals[c] = totals[c].Add(v)
		}
	}
	return totals
}

// Clone returns a deep copy.
func (b Balances) Clone() Balances {
	out := make(Balances, len(b))
	for p, row := range b {
		cp := make(map[models.Currency]decimal.Decimal, len(row))
		for c, v := range row {
			cp[c] = v
		}
		out[p] = cp
	}
	return out
}

// apply folds one posting into b, creating the person row on demand.
func (b Balances) apply(p models.Posting) {
	row, ok := b[p.Person]
	if !ok {
		row = zeroRow()
		b[p.Person] = row
	}
	row[p.Currency] = row[p.Currency].Add(p.Amount)
}

// Calculator folds transactions into balances. Skipped records are reported
// at debug level.
type Calculator struct {
	log logging.Logger
}

// NewCalculator returns a Calculator logging to log. A nil log discards.
func NewCalculator(log logging.Logger) *Calculator {
	if log == nil {
		log = logging.Nop()
	}
	return &Calculator{log: log}
}

// Calculate derives balances for every listed person from ts in order.
// Records with an empty party or an unknown currency are skipped; the fold
// never aborts.
func (c *Calculator) Calculate(persons []string, ts models.Transactions) Balances {
	b := make(Balances, len(persons))
	for _, p := range persons {
		b[p] = zeroRow()
	}

	for i, tx := range ts {
		if tx == nil {
			c.log.Debug("skipping nil record", logging.F("index", i))
			continue
		}
		postings := tx.Postings()
		if reason := malformed(postings); reason != "" {
			c.log.Debug("skipping malformed record",
				logging.F(logging.FieldTransactionID, tx.Head().ID),
				logging.F(logging.FieldType, string(tx.Kind())),
				logging.F(logging.FieldReason, reason))
			continue
		}
		for _, p := range postings {
			b.apply(p)
		}
	}
	return b
}

func malformed(postings []models.Posting) string {
	for _, p := range postings {
		if p.Person == "" {
			return "empty person"
		}
		if !p.Currency.Valid() {
			return "unknown currency " + string(p.Currency)
		}
	}
	return ""
}

// CalculateBalances is Calculator.Calculate without logging.
func CalculateBalances(persons []string, ts models.Transactions) Balances {
	return NewCalculator(nil).Calculate(persons, ts)
}
