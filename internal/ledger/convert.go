package ledger

import (
	"time"

	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"

	"github.com/shopspring/decimal"
)

// Conversion describes a currency exchange between two persons: the sender
// pays Amount in From and the receiver gets Amount × Rate in To.
type Conversion struct {
	User        string
	Sender      string
	Receiver    string
	Amount      decimal.Decimal
	Rate        decimal.Decimal
	From        models.Currency
	To          models.Currency
	Description string
	At          time.Time
}

// Convert builds the pay/receive pair of c. Both records share the date.
func Convert(c Conversion) (models.Transactions, error) {
	if c.Sender == "" || c.Receiver == "" {
		return nil, &ledgererror.ValidationError{Type: "conversion", Field: "person", Reason: "sender and receiver are required"}
	}
	if c.Sender == c.Receiver {
		return nil, &ledgererror.ValidationError{Type: "conversion", Field: "receiver", Reason: "must differ from sender"}
	}
	if !c.Rate.IsPositive() {
		return nil, &ledgererror.ValidationError{Type: "conversion", Field: "rate", Reason: "must be positive"}
	}
	if c.At.IsZero() {
		c.At = time.Now().UTC()
	}

	pay, err := models.NewTransactionBuilder(models.TypePay).
		WithUser(c.User).
		WithDate(c.At).
		WithPerson(c.Sender).
		WithAmount(c.Amount, c.From).
		WithDescription(c.Description).
		Build()
	if err != nil {
		return nil, err
	}

	receive, err := models.NewTransactionBuilder(models.TypeReceive).
		WithUser(c.User).
		WithDate(c.At).
		WithPerson(c.Receiver).
		WithAmount(c.Amount.Mul(c.Rate), c.To).
		WithRate(c.Rate).
		WithDescription(c.Description).
		Build()
	if err != nil {
		return nil, err
	}
	// The received amount is already converted, so the record keeps the
	// rate without a derived sum.
	if r, ok := receive.(models.Receive); ok {
		rate := c.Rate
		r.Rate, r.Sum = &rate, nil
		receive = r
	}

	return models.Transactions{pay, receive}, nil
}
