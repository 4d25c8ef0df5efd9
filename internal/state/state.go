// Package state holds the application state and the reducer that moves it
// from one snapshot to the next. Every action is validated before it is
// committed; a rejected action leaves the state untouched.
package state

import (
	"encoding/json"

	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/models"
)

// State is one snapshot of everything the ledger persists.
type State struct {
	Persons      []string
	Transactions models.Transactions
	// Products is kept verbatim; no view interprets it.
	Products json.RawMessage
	Settings models.Settings
}

// Default returns the state used for an empty store.
func Default() State {
	return State{
		Persons:      models.DefaultPersons(),
		Transactions: models.Transactions{},
		Products:     json.RawMessage("[]"),
		Settings:     models.Settings{Categories: models.DefaultCategories()},
	}
}

// Clone returns a copy that shares no slices with s.
func (s State) Clone() State {
	out := State{
		Persons:      append(make([]string, 0, len(s.Persons)), s.Persons...),
		Transactions: append(make(models.Transactions, 0, len(s.Transactions)), s.Transactions...),
		Products:     append(json.RawMessage(nil), s.Products...),
		Settings: models.Settings{
			Categories:            cloneCategories(s.Settings.Categories),
			NegativeBalancePolicy: s.Settings.NegativeBalancePolicy,
		},
	}
	return out
}

func cloneCategories(src []models.Category) []models.Category {
	if src == nil {
		return nil
	}
	return append(make([]models.Category, 0, len(src)), src...)
}

// Balances derives the current balances of s.
func (s State) Balances() ledger.Balances {
	return ledger.CalculateBalances(s.Persons, s.Transactions)
}

// HasPerson reports whether name is a known person.
func (s State) HasPerson(name string) bool {
	for _, p := range s.Persons {
		if p == name {
			return true
		}
	}
	return false
}

// Find returns the record with id.
func (s State) Find(id string) (models.Transaction, bool) {
	i := models.IndexOf(s.Transactions, id)
	if i < 0 {
		return nil, false
	}
	return s.Transactions[i], true
}

// Categories returns the category list, the built-in defaults when unset.
func (s State) Categories() []models.Category {
	if s.Settings.Categories == nil {
		return models.DefaultCategories()
	}
	return s.Settings.Categories
}

// Snapshot builds the backup form of s.
func (s State) Snapshot() models.Backup {
	c := s.Clone()
	return models.Backup{
		Transactions: &c.Transactions,
		Persons:      &c.Persons,
		Products:     c.Products,
		Settings:     &c.Settings,
	}
}
