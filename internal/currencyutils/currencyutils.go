// Package currencyutils provides amount parsing and display formatting used
// throughout the application.
package currencyutils

import (
	"fmt"
	"regexp"
	"strings"

	"fjacquet/ledgerdash/internal/models"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

const maxDisplayFraction = 6

var (
	persianDigits = []rune("۰۱۲۳۴۵۶۷۸۹")
	arabicDigits  = []rune("٠١٢٣٤٥٦٧٨٩")

	amountNoise = regexp.MustCompile(`[$¥\s٬,']|IRR|USD|CNY`)
)

// ToEnglishDigits maps Persian and Arabic-Indic digits to ASCII digits and
// the Arabic decimal separator to a dot.
func ToEnglishDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r >= persianDigits[0] && r <= persianDigits[9]:
			b.WriteRune('0' + (r - persianDigits[0]))
		case r >= arabicDigits[0] && r <= arabicDigits[9]:
			b.WriteRune('0' + (r - arabicDigits[0]))
		case r == '٫':
			b.WriteRune('.')
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ParseAmount parses user input such as "1,250.5", "۱۲۵۰" or "$ 40" into a
// decimal value. Commas are always thousands separators.
func ParseAmount(amountStr string) (decimal.Decimal, error) {
	standardized := StandardizeAmount(amountStr)
	if standardized == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}

	amount, err := decimal.NewFromString(standardized)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}

	return amount, nil
}

// ParsePositive parses an amount and rejects zero and negative values.
func ParsePositive(amountStr string) (decimal.Decimal, error) {
	amount, err := ParseAmount(amountStr)
	if err != nil {
		return decimal.Zero, err
	}
	if !amount.IsPositive() {
		return decimal.Zero, fmt.Errorf("amount '%s' must be greater than zero", amountStr)
	}
	return amount, nil
}

// StandardizeAmount strips digits of other scripts, currency markers and
// grouping characters so decimal.NewFromString can read the result.
func StandardizeAmount(amountStr string) string {
	s := ToEnglishDigits(amountStr)
	return amountNoise.ReplaceAllString(s, "")
}

// Formatted is a display string plus a flag for negative values, which
// views highlight.
type Formatted struct {
	Value    string
	Negative bool
}

// Format renders amount with thousands grouping and the ledger's own symbol
// for c, e.g. "1,234.50 $" or "-20.00 IRR".
func Format(amount decimal.Decimal, c models.Currency) Formatted {
	info := c.Info()
	fraction := 2
	if cur := money.GetCurrency(info.ISO); cur != nil {
		fraction = cur.Fraction
	}
	f := money.NewFormatter(fraction, ".", ",", info.Symbol, "1 $")
	minor := amount.Shift(int32(fraction)).Round(0).IntPart()
	return Formatted{Value: f.Format(minor), Negative: amount.IsNegative()}
}

// FormatAmount is Format without the negative flag.
func FormatAmount(amount decimal.Decimal, c models.Currency) string {
	return Format(amount, c).Value
}

// FormatNumber renders a bare number with thousands grouping, keeping the
// significant fractional digits the value carries. Trailing zeros are
// dropped, so 60000.00 renders as 60,000.
func FormatNumber(amount decimal.Decimal) string {
	fraction := 0
	if exp := amount.Exponent(); exp < 0 {
		fraction = int(-exp)
	}
	if fraction > maxDisplayFraction {
		fraction = maxDisplayFraction
	}
	for fraction > 0 && amount.Equal(amount.Truncate(int32(fraction-1))) {
		fraction--
	}
	f := money.NewFormatter(fraction, ".", ",", "", "1")
	return f.Format(amount.Shift(int32(fraction)).Round(0).IntPart())
}
