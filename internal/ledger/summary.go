package ledger

import (
	"fjacquet/ledgerdash/internal/models"

	"github.com/shopspring/decimal"
)

// Summary totals a row set per type and currency.
type Summary struct {
	ByType map[models.TransactionType]map[models.Currency]decimal.Decimal
	// Grand sums every amount-carrying row per currency, unsigned.
	Grand map[models.Currency]decimal.Decimal
	Count int
}

// Summarize builds the report summary of ts. Delivery rows are counted but
// carry no amount.
func Summarize(ts models.Transactions) Summary {
	s := Summary{
		ByType: map[models.TransactionType]map[models.Currency]decimal.Decimal{},
		Grand:  zeroRow(),
	}
	for _, k := range models.TransactionTypes() {
		s.ByType[k] = zeroRow()
	}

	for _, tx := range ts {
		if tx == nil {
			continue
		}
		s.Count++
		c, amount, ok := AmountOf(tx)
		if !ok || !c.Valid() {
			continue
		}
		row := s.ByType[tx.Kind()]
		row[c] = row[c].Add(amount)
		s.Grand[c] = s.Grand[c].Add(amount)
	}
	return s
}

// AmountOf returns the currency and unsigned amount of tx, if it has one.
func AmountOf(tx models.Transaction) (models.Currency, decimal.Decimal, bool) {
	switch v := tx.(type) {
	case models.Receive:
		return v.Currency, v.Amount, true
	case models.Pay:
		return v.Currency, v.Amount, true
	case models.Transfer:
		return v.Currency, v.Amount, true
	case models.Buy:
		return v.Currency, v.Amount, true
	}
	return "", decimal.Zero, false
}
