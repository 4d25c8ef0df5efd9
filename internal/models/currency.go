package models

import (
	"fmt"
	"strings"
)

// Currency is one of the three currencies the ledger tracks.
type Currency string

const (
	USD Currency = "usd"
	CNY Currency = "cny"
	IRR Currency = "irr"
)

// CurrencyInfo carries display metadata for a currency.
type CurrencyInfo struct {
	Code    Currency
	ISO     string
	Symbol  string
	LabelFa string
	LabelZh string
}

var currencyTable = []CurrencyInfo{
	{Code: USD, ISO: "USD", Symbol: "$", LabelFa: "دلار", LabelZh: "美元"},
	{Code: CNY, ISO: "CNY", Symbol: "¥", LabelFa: "یوان", LabelZh: "元"},
	{Code: IRR, ISO: "IRR", Symbol: "IRR", LabelFa: "تومان", LabelZh: "图曼"},
}

// Currencies returns the supported currencies in display order.
func Currencies() []Currency {
	out := make([]Currency, len(currencyTable))
	for i, c := range currencyTable {
		out[i] = c.Code
	}
	return out
}

// ParseCurrency accepts a currency code in any case.
func ParseCurrency(s string) (Currency, error) {
	c := Currency(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("unsupported currency %q: expected one of usd, cny, irr", s)
	}
	return c, nil
}

// Valid reports whether c belongs to the supported set.
func (c Currency) Valid() bool {
	_, ok := c.lookup()
	return ok
}

// Info returns the display metadata. Unknown codes echo the raw code.
func (c Currency) Info() CurrencyInfo {
	if info, ok := c.lookup(); ok {
		return info
	}
	raw := string(c)
	return CurrencyInfo{Code: c, ISO: strings.ToUpper(raw), Symbol: raw, LabelFa: raw, LabelZh: raw}
}

func (c Currency) Symbol() string  { return c.Info().Symbol }
func (c Currency) LabelZh() string { return c.Info().LabelZh }
func (c Currency) LabelFa() string { return c.Info().LabelFa }

// RequiresRate reports whether a receipt in c must carry an exchange rate.
func (c Currency) RequiresRate() bool {
	return c == USD || c == CNY
}

func (c Currency) String() string {
	return string(c)
}

func (c Currency) lookup() (CurrencyInfo, bool) {
	for _, info := range currencyTable {
		if info.Code == c {
			return info, true
		}
	}
	return CurrencyInfo{}, false
}
