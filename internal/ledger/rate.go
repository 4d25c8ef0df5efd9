package ledger

import (
	"fjacquet/ledgerdash/internal/models"

	"github.com/shopspring/decimal"
)

// AverageRate returns the amount-weighted mean rate of receipts in c that
// carry a positive rate, or zero when none qualify.
func AverageRate(ts models.Transactions, c models.Currency) decimal.Decimal {
	weighted := decimal.Zero
	total := decimal.Zero
	for _, tx := range ts {
		r, ok := tx.(models.Receive)
		if !ok || r.Currency != c || r.Rate == nil || !r.Rate.IsPositive() {
			continue
		}
		weighted = weighted.Add(r.Amount.Mul(*r.Rate))
		total = total.Add(r.Amount)
	}
	if total.IsZero() {
		return decimal.Zero
	}
	return weighted.Div(total)
}
