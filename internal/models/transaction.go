package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the tag that selects a transaction variant.
type TransactionType string

const (
	TypeReceive  TransactionType = "receive"
	TypePay      TransactionType = "pay"
	TypeTransfer TransactionType = "transfer"
	TypeBuy      TransactionType = "buy"
	TypeDelivery TransactionType = "delivery"
)

// TransactionTypes lists the known variants in display order.
func TransactionTypes() []TransactionType {
	return []TransactionType{TypeReceive, TypePay, TypeTransfer, TypeBuy, TypeDelivery}
}

// Valid reports whether t names a known variant.
func (t TransactionType) Valid() bool {
	for _, k := range TransactionTypes() {
		if k == t {
			return true
		}
	}
	return false
}

// OrderStatus is the lifecycle state of a purchase order entry.
type OrderStatus string

const (
	StatusActive    OrderStatus = "active"
	StatusCompleted OrderStatus = "completed"
	StatusCancelled OrderStatus = "cancelled"
)

// OrDefault maps the empty status to active.
func (s OrderStatus) OrDefault() OrderStatus {
	if s == "" {
		return StatusActive
	}
	return s
}

// Header holds the fields every transaction shares.
type Header struct {
	ID          string          `json:"id"`
	Type        TransactionType `json:"type"`
	User        string          `json:"user"`
	Date        time.Time       `json:"date" validate:"required"`
	Description string          `json:"description,omitempty" validate:"max=500"`
}

// Posting is the signed effect of a transaction on one balance cell.
type Posting struct {
	Person   string
	Currency Currency
	Amount   decimal.Decimal
}

// Transaction is implemented by the closed set of ledger record types.
type Transaction interface {
	Head() Header
	Kind() TransactionType
	// Postings returns the balance deltas of the record, in application order.
	Postings() []Posting
	// Parties returns every person the record references.
	Parties() []string
	// SearchTerms returns the identifiers matched by free-text search.
	SearchTerms() []string
	withHeader(h Header) Transaction
}

// Receive records cash received by a person.
type Receive struct {
	Header
	Person   string           `json:"person" validate:"required"`
	Amount   decimal.Decimal  `json:"amount" validate:"gt=0"`
	Currency Currency         `json:"currency" validate:"required,currency"`
	Rate     *decimal.Decimal `json:"rate,omitempty" validate:"omitempty,gt=0"`
	Sum      *decimal.Decimal `json:"sum,omitempty"`
}

func (r Receive) Head() Header          { return r.Header }
func (r Receive) Kind() TransactionType { return TypeReceive }
func (r Receive) Parties() []string     { return []string{r.Person} }
func (r Receive) SearchTerms() []string { return []string{r.Person} }

func (r Receive) Postings() []Posting {
	return []Posting{{Person: r.Person, Currency: r.Currency, Amount: r.Amount}}
}

func (r Receive) withHeader(h Header) Transaction {
	r.Header = h
	return r
}

// Pay records cash paid out by a person.
type Pay struct {
	Header
	Person   string          `json:"person" validate:"required"`
	Amount   decimal.Decimal `json:"amount" validate:"gt=0"`
	Currency Currency        `json:"currency" validate:"required,currency"`
}

func (p Pay) Head() Header          { return p.Header }
func (p Pay) Kind() TransactionType { return TypePay }
func (p Pay) Parties() []string     { return []string{p.Person} }
func (p Pay) SearchTerms() []string { return []string{p.Person} }

func (p Pay) Postings() []Posting {
	return []Posting{{Person: p.Person, Currency: p.Currency, Amount: p.Amount.Neg()}}
}

func (p Pay) withHeader(h Header) Transaction {
	p.Header = h
	return p
}

// Transfer moves an amount between two persons.
type Transfer struct {
	Header
	From     string          `json:"from" validate:"required"`
	To       string          `json:"to" validate:"required,nefield=From"`
	Amount   decimal.Decimal `json:"amount" validate:"gt=0"`
	Currency Currency        `json:"currency" validate:"required,currency"`
}

func (t Transfer) Head() Header          { return t.Header }
func (t Transfer) Kind() TransactionType { return TypeTransfer }
func (t Transfer) Parties() []string     { return []string{t.From, t.To} }
func (t Transfer) SearchTerms() []string { return []string{t.From, t.To} }

func (t Transfer) Postings() []Posting {
	return []Posting{
		{Person: t.From, Currency: t.Currency, Amount: t.Amount.Neg()},
		{Person: t.To, Currency: t.Currency, Amount: t.Amount},
	}
}

func (t Transfer) withHeader(h Header) Transaction {
	t.Header = h
	return t
}

// Buy is one line of a purchase order.
type Buy struct {
	Header
	Person      string          `json:"person" validate:"required"`
	Amount      decimal.Decimal `json:"amount" validate:"gt=0"`
	Currency    Currency        `json:"currency" validate:"required,currency"`
	OrderNumber string          `json:"orderNumber" validate:"required,ordernumber"`
	Category    string          `json:"category,omitempty"`
	Status      OrderStatus     `json:"status,omitempty" validate:"omitempty,oneof=active completed cancelled"`
}

func (b Buy) Head() Header          { return b.Header }
func (b Buy) Kind() TransactionType { return TypeBuy }
func (b Buy) Parties() []string     { return []string{b.Person} }
func (b Buy) SearchTerms() []string { return []string{b.Person, b.OrderNumber} }

func (b Buy) Postings() []Posting {
	return []Posting{{Person: b.Person, Currency: b.Currency, Amount: b.Amount.Neg()}}
}

func (b Buy) withHeader(h Header) Transaction {
	b.Header = h
	return b
}

// Delivery records a shipment. It has no balance effect.
type Delivery struct {
	Header
	DeliveryNumber string          `json:"deliveryNumber" validate:"required"`
	BoxCount       int             `json:"boxCount" validate:"gt=0"`
	Weight         decimal.Decimal `json:"weight" validate:"gt=0"`
	ReceiptNumber  string          `json:"receiptNumber" validate:"required"`
	OrderNumber    string          `json:"orderNumber,omitempty" validate:"omitempty,ordernumber"`
	ReceiptImage   string          `json:"receiptImage,omitempty"`
	BoxesImage     string          `json:"boxesImage,omitempty"`
}

func (d Delivery) Head() Header          { return d.Header }
func (d Delivery) Kind() TransactionType { return TypeDelivery }
func (d Delivery) Parties() []string     { return nil }
func (d Delivery) Postings() []Posting   { return nil }

func (d Delivery) SearchTerms() []string {
	return []string{d.DeliveryNumber, d.OrderNumber}
}

func (d Delivery) withHeader(h Header) Transaction {
	d.Header = h
	return d
}

// Unrecognized keeps a stored record that could not be decoded so that it
// survives a load/save round trip. It has no ledger effect.
type Unrecognized struct {
	Header
	Raw   []byte
	Cause string
}

func (u Unrecognized) Head() Header          { return u.Header }
func (u Unrecognized) Kind() TransactionType { return u.Type }
func (u Unrecognized) Parties() []string     { return nil }
func (u Unrecognized) Postings() []Posting   { return nil }
func (u Unrecognized) SearchTerms() []string { return nil }

func (u Unrecognized) withHeader(h Header) Transaction {
	u.Header = h
	return u
}

// WithHeader returns a copy of tx carrying h. The type tag always follows
// the concrete variant.
func WithHeader(tx Transaction, h Header) Transaction {
	if _, ok := tx.(Unrecognized); !ok {
		h.Type = tx.Kind()
	}
	return tx.withHeader(h)
}

// WithID returns a copy of tx with the given identifier.
func WithID(tx Transaction, id string) Transaction {
	h := tx.Head()
	h.ID = id
	return WithHeader(tx, h)
}

// Involves reports whether person appears as any party of tx.
func Involves(tx Transaction, person string) bool {
	for _, p := range tx.Parties() {
		if p == person {
			return true
		}
	}
	return false
}
