package ledger

import (
	"fmt"
	"sort"
	"strings"

	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"

	"github.com/shopspring/decimal"
)

// Policy decides what happens when a debit would leave a balance below zero.
type Policy string

const (
	// PolicyAllow applies the debit silently.
	PolicyAllow Policy = "allow"
	// PolicyConfirm applies the debit only when the caller confirmed it.
	PolicyConfirm Policy = "confirm"
	// PolicyReject never applies it.
	PolicyReject Policy = "reject"
)

// DefaultPolicy is used when nothing is configured.
const DefaultPolicy = PolicyConfirm

// ParsePolicy reads a policy name in any case. Empty selects DefaultPolicy.
func ParsePolicy(s string) (Policy, error) {
	switch p := Policy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return DefaultPolicy, nil
	case PolicyAllow, PolicyConfirm, PolicyReject:
		return p, nil
	default:
		return "", fmt.Errorf("unknown negative balance policy %q: expected allow, confirm or reject", s)
	}
}

// Shortfalls projects records onto balances and reports every person and
// currency debited by records that would end below zero. balances is not
// modified.
func Shortfalls(balances Balances, records models.Transactions) []ledgererror.Shortfall {
	projected := balances.Clone()
	type cell struct {
		person   string
		currency models.Currency
	}
	debited := map[cell]bool{}

	for _, tx := range records {
		if tx == nil {
			continue
		}
		postings := tx.Postings()
		if malformed(postings) != "" {
			continue
		}
		for _, p := range postings {
			projected.apply(p)
			if p.Amount.IsNegative() {
				debited[cell{p.Person, p.Currency}] = true
			}
		}
	}

	var out []ledgererror.Shortfall
	for c := range debited {
		v := projected.Get(c.person, c.currency)
		if v.IsNegative() {
			out = append(out, ledgererror.Shortfall{Person: c.person, Currency: string(c.currency), Balance: v.String()})
		}
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Person != out[b].Person {
			return out[a].Person < out[b].Person
		}
		return out[a].Currency < out[b].Currency
	})
	return out
}

// Check applies the policy to records against balances. confirmed is the
// caller's explicit acknowledgement of a negative result.
func (p Policy) Check(balances Balances, records models.Transactions, confirmed bool) error {
	if p == PolicyAllow {
		return nil
	}
	shortfalls := Shortfalls(balances, records)
	if len(shortfalls) == 0 {
		return nil
	}
	if p == PolicyConfirm && confirmed {
		return nil
	}
	return &ledgererror.PolicyError{Policy: string(p), Shortfalls: shortfalls}
}

// CheckReplacement applies the policy to swapping old for replacement.
// balances must exclude old. A shortfall counts only where the replacement
// leaves the balance lower than old did.
func (p Policy) CheckReplacement(balances Balances, old, replacement models.Transaction, confirmed bool) error {
	if p == PolicyAllow {
		return nil
	}
	before := map[string]decimal.Decimal{}
	for _, s := range Shortfalls(balances, models.Transactions{old}) {
		before[s.Person+"/"+s.Currency] = decimal.RequireFromString(s.Balance)
	}

	var worse []ledgererror.Shortfall
	for _, s := range Shortfalls(balances, models.Transactions{replacement}) {
		prev, ok := before[s.Person+"/"+s.Currency]
		if ok && !decimal.RequireFromString(s.Balance).LessThan(prev) {
			continue
		}
		worse = append(worse, s)
	}

	if len(worse) == 0 || (p == PolicyConfirm && confirmed) {
		return nil
	}
	return &ledgererror.PolicyError{Policy: string(p), Shortfalls: worse}
}
