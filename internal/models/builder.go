package models

import (
	"strings"
	"time"
	"unicode/utf8"

	"fjacquet/ledgerdash/internal/ledgererror"

	"github.com/shopspring/decimal"
)

// TransactionBuilder provides a fluent API for constructing new transactions.
// The first setter error sticks and is returned by Build.
type TransactionBuilder struct {
	kind   TransactionType
	header Header

	person   string
	from     string
	to       string
	amount   decimal.Decimal
	currency Currency
	rate     *decimal.Decimal

	orderNumber string
	category    string
	status      OrderStatus

	deliveryNumber string
	receiptNumber  string
	receiptImage   string
	boxesImage     string
	boxCount       int
	weight         decimal.Decimal

	err error
}

// NewTransactionBuilder creates a builder for kind with a fresh ID and the
// current time.
func NewTransactionBuilder(kind TransactionType) *TransactionBuilder {
	b := &TransactionBuilder{
		kind: kind,
		header: Header{
			ID:   NewID(),
			Type: kind,
			Date: time.Now().UTC(),
		},
		amount: decimal.Zero,
		weight: decimal.Zero,
	}
	if kind == TypeBuy {
		b.status = StatusActive
	}
	if !kind.Valid() {
		b.fail("type", "is not a known transaction type")
	}
	return b
}

func (b *TransactionBuilder) fail(field, reason string) {
	if b.err == nil {
		b.err = &ledgererror.ValidationError{Type: string(b.kind), Field: field, Reason: reason}
	}
}

// WithID overrides the generated ID.
func (b *TransactionBuilder) WithID(id string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if strings.TrimSpace(id) == "" {
		b.fail("id", "cannot be empty")
		return b
	}
	b.header.ID = id
	return b
}

// WithUser sets the user recording the transaction
func (b *TransactionBuilder) WithUser(user string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.header.User = user
	return b
}

// WithDate sets the transaction date
func (b *TransactionBuilder) WithDate(date time.Time) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if date.IsZero() {
		b.fail("date", "cannot be zero")
		return b
	}
	b.header.Date = date
	return b
}

// WithDescription sets the free-text description
func (b *TransactionBuilder) WithDescription(desc string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		b.fail("description", "must be at most 500 characters")
		return b
	}
	b.header.Description = desc
	return b
}

// WithPerson sets the single party of a receive, pay or buy.
func (b *TransactionBuilder) WithPerson(person string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.person = strings.TrimSpace(person)
	return b
}

// WithParties sets both sides of a transfer.
func (b *TransactionBuilder) WithParties(from, to string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.from = strings.TrimSpace(from)
	b.to = strings.TrimSpace(to)
	return b
}

// WithAmount sets the amount and its currency
func (b *TransactionBuilder) WithAmount(amount decimal.Decimal, currency Currency) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if !amount.IsPositive() {
		b.fail("amount", "must be positive")
		return b
	}
	if !currency.Valid() {
		b.fail("currency", "is not supported")
		return b
	}
	b.amount = amount
	b.currency = currency
	return b
}

// WithRate sets the exchange rate of a receive.
func (b *TransactionBuilder) WithRate(rate decimal.Decimal) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	if !rate.IsPositive() {
		b.fail("rate", "must be positive")
		return b
	}
	b.rate = &rate
	return b
}

// WithOrder sets the order number and category of a buy.
func (b *TransactionBuilder) WithOrder(orderNumber, category string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.orderNumber = strings.TrimSpace(orderNumber)
	b.category = category
	return b
}

// WithStatus sets the status of a buy.
func (b *TransactionBuilder) WithStatus(status OrderStatus) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	switch status {
	case StatusActive, StatusCompleted, StatusCancelled:
		b.status = status
	default:
		b.fail("status", "must be active, completed or cancelled")
	}
	return b
}

// WithDelivery sets the package fields of a delivery.
func (b *TransactionBuilder) WithDelivery(deliveryNumber string, boxCount int, weight decimal.Decimal, receiptNumber string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.deliveryNumber = strings.TrimSpace(deliveryNumber)
	b.boxCount = boxCount
	b.weight = weight
	b.receiptNumber = strings.TrimSpace(receiptNumber)
	return b
}

// WithImages sets the receipt and boxes image references of a delivery.
func (b *TransactionBuilder) WithImages(receiptImage, boxesImage string) *TransactionBuilder {
	if b.err != nil {
		return b
	}
	b.receiptImage = receiptImage
	b.boxesImage = boxesImage
	return b
}

// Build returns the transaction or the first error met. It applies the
// creation-time rules; field completeness is checked by the validation
// package.
func (b *TransactionBuilder) Build() (Transaction, error) {
	if b.err != nil {
		return nil, b.err
	}

	switch b.kind {
	case TypeReceive:
		r := Receive{Header: b.header, Person: b.person, Amount: b.amount, Currency: b.currency}
		if b.currency.RequiresRate() {
			if b.rate == nil {
				b.fail("rate", "is required for "+string(b.currency))
				return nil, b.err
			}
			r.Rate = b.rate
			sum := b.amount.Mul(*b.rate)
			r.Sum = &sum
		}
		return r, nil
	case TypePay:
		return Pay{Header: b.header, Person: b.person, Amount: b.amount, Currency: b.currency}, nil
	case TypeTransfer:
		return Transfer{Header: b.header, From: b.from, To: b.to, Amount: b.amount, Currency: b.currency}, nil
	case TypeBuy:
		return Buy{
			Header:      b.header,
			Person:      b.person,
			Amount:      b.amount,
			Currency:    b.currency,
			OrderNumber: b.orderNumber,
			Category:    b.category,
			Status:      b.status,
		}, nil
	case TypeDelivery:
		return Delivery{
			Header:         b.header,
			DeliveryNumber: b.deliveryNumber,
			BoxCount:       b.boxCount,
			Weight:         b.weight,
			ReceiptNumber:  b.receiptNumber,
			OrderNumber:    b.orderNumber,
			ReceiptImage:   b.receiptImage,
			BoxesImage:     b.boxesImage,
		}, nil
	}
	return nil, b.err
}
