package ledger

import (
	"sort"
	"time"

	"fjacquet/ledgerdash/internal/models"

	"github.com/shopspring/decimal"
)

// Order groups the buy records sharing an order number.
type Order struct {
	Number string
	// Entries keep insertion order.
	Entries []models.Buy
	// Total sums entry amounts regardless of currency.
	Total      decimal.Decimal
	ByCurrency map[models.Currency]decimal.Decimal
	LastDate   time.Time
	Status     models.OrderStatus
}

// Orders groups the buy records of owner by order number. Groups are
// returned in OrderNumbers order.
func Orders(ts models.Transactions, owner string) []Order {
	index := map[string]int{}
	var orders []Order
	var latest []time.Time

	for _, tx := range ts {
		b, ok := tx.(models.Buy)
		if !ok || b.Person != owner || b.OrderNumber == "" {
			continue
		}
		i, seen := index[b.OrderNumber]
		if !seen {
			i = len(orders)
			index[b.OrderNumber] = i
			orders = append(orders, Order{
				Number:     b.OrderNumber,
				Total:      decimal.Zero,
				ByCurrency: map[models.Currency]decimal.Decimal{},
			})
			latest = append(latest, time.Time{})
		}
		o := &orders[i]
		o.Entries = append(o.Entries, b)
		o.Total = o.Total.Add(b.Amount)
		o.ByCurrency[b.Currency] = o.ByCurrency[b.Currency].Add(b.Amount)
		// Later insertion wins a date tie.
		if len(o.Entries) == 1 || !b.Date.Before(latest[i]) {
			latest[i] = b.Date
			o.LastDate = b.Date
			o.Status = b.Status.OrDefault()
		}
	}

	sort.SliceStable(orders, func(a, b int) bool {
		return orders[a].Number > orders[b].Number
	})
	return orders
}

// FindOrder returns the group for number.
func FindOrder(ts models.Transactions, owner, number string) (Order, bool) {
	for _, o := range Orders(ts, owner) {
		if o.Number == number {
			return o, true
		}
	}
	return Order{}, false
}

// OrderNumbers lists the distinct order numbers of owner, descending.
func OrderNumbers(ts models.Transactions, owner string) []string {
	orders := Orders(ts, owner)
	out := make([]string, len(orders))
	for i, o := range orders {
		out[i] = o.Number
	}
	return out
}

// Package groups the delivery records sharing a delivery number.
type Package struct {
	Number string
	// Entries are sorted by date, newest first.
	Entries     []models.Delivery
	TotalBoxes  int
	TotalWeight decimal.Decimal
	LastDate    time.Time
}

// Deliveries groups delivery records by delivery number. Groups are
// returned in DeliveryNumbers order.
func Deliveries(ts models.Transactions) []Package {
	index := map[string]int{}
	var pkgs []Package

	for _, tx := range ts {
		d, ok := tx.(models.Delivery)
		if !ok || d.DeliveryNumber == "" {
			continue
		}
		i, seen := index[d.DeliveryNumber]
		if !seen {
			i = len(pkgs)
			index[d.DeliveryNumber] = i
			pkgs = append(pkgs, Package{Number: d.DeliveryNumber, TotalWeight: decimal.Zero})
		}
		p := &pkgs[i]
		p.Entries = append(p.Entries, d)
		p.TotalBoxes += d.BoxCount
		p.TotalWeight = p.TotalWeight.Add(d.Weight)
		if d.Date.After(p.LastDate) {
			p.LastDate = d.Date
		}
	}

	for i := range pkgs {
		entries := pkgs[i].Entries
		sort.SliceStable(entries, func(a, b int) bool {
			return entries[a].Date.After(entries[b].Date)
		})
	}
	sort.SliceStable(pkgs, func(a, b int) bool {
		return pkgs[a].Number > pkgs[b].Number
	})
	return pkgs
}

// FindPackage returns the group for number.
func FindPackage(ts models.Transactions, number string) (Package, bool) {
	for _, p := range Deliveries(ts) {
		if p.Number == number {
			return p, true
		}
	}
	return Package{}, false
}

// DeliveryNumbers lists the distinct delivery numbers, descending.
func DeliveryNumbers(ts models.Transactions) []string {
	pkgs := Deliveries(ts)
	out := make([]string, len(pkgs))
	for i, p := range pkgs {
		out[i] = p.Number
	}
	return out
}
