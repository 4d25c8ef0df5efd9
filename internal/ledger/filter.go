package ledger

import (
	"sort"
	"strings"
	"time"

	"fjacquet/ledgerdash/internal/models"
)

// Filter is a conjunction of optional predicates. Zero values disable a
// predicate. To is inclusive; callers widen a calendar day with
// dateutils.ParseRangeEnd.
type Filter struct {
	From   time.Time
	To     time.Time
	Person string
	Search string
	Type   models.TransactionType
}

// Matches reports whether tx passes every enabled predicate.
func (f Filter) Matches(tx models.Transaction) bool {
	if tx == nil {
		return false
	}
	h := tx.Head()
	if !f.From.IsZero() && h.Date.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && h.Date.After(f.To) {
		return false
	}
	if f.Person != "" && !models.Involves(tx, f.Person) {
		return false
	}
	if f.Type != "" && tx.Kind() != f.Type {
		return false
	}
	if f.Search != "" && !containsAny(tx.SearchTerms(), f.Search) {
		return false
	}
	return true
}

func containsAny(terms []string, needle string) bool {
	for _, term := range terms {
		if term != "" && strings.Contains(term, needle) {
			return true
		}
	}
	return false
}

// Apply returns the matching records sorted by date, newest first. Records
// with equal dates keep their input order. ts is not modified.
func (f Filter) Apply(ts models.Transactions) models.Transactions {
	out := make(models.Transactions, 0, len(ts))
	for _, tx := range ts {
		if f.Matches(tx) {
			out = append(out, tx)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return out[a].Head().Date.After(out[b].Head().Date)
	})
	return out
}
