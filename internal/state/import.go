package state

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/logging"
	"fjacquet/ledgerdash/internal/models"
	"fjacquet/ledgerdash/internal/validation"
)

// ParseBackup reads a backup document. Any decode failure is an
// ImportError naming source.
func ParseBackup(source string, r io.Reader) (models.Backup, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return models.Backup{}, &ledgererror.ImportError{Source: source, Err: err}
	}
	var b models.Backup
	if err := json.Unmarshal(data, &b); err != nil {
		return models.Backup{}, &ledgererror.ImportError{Source: source, Err: err}
	}
	return b, nil
}

// ImportBackup replaces each collection present in Backup wholesale.
// Absent collections are kept. Nothing is applied if any part is invalid.
type ImportBackup struct {
	Source string
	Backup models.Backup
}

func (a ImportBackup) Name() string { return "import_backup" }

func (a ImportBackup) apply(r *Reducer, s State) (State, error) {
	fail := func(err error) (State, error) {
		return s, &ledgererror.ImportError{Source: a.Source, Err: err}
	}
	next := s.Clone()
	b := a.Backup

	if b.Transactions != nil {
		records, filled := models.EnsureIDs(*b.Transactions)
		if err := validation.Transactions(records); err != nil {
			return fail(err)
		}
		seen := map[string]bool{}
		for _, tx := range records {
			if seen[tx.Head().ID] {
				return fail(fmt.Errorf("transaction %s: %w", tx.Head().ID, ledgererror.ErrDuplicate))
			}
			seen[tx.Head().ID] = true
		}
		next.Transactions = records
		r.log.Info("transactions imported",
			logging.F(logging.FieldCount, len(records)),
			logging.F("ids_assigned", filled))
	}

	if b.Persons != nil {
		persons := make([]string, 0, len(*b.Persons))
		seen := map[string]bool{}
		for _, p := range *b.Persons {
			name, err := validation.PersonName(p)
			if err != nil {
				return fail(err)
			}
			if seen[name] {
				return fail(fmt.Errorf("person %q: %w", name, ledgererror.ErrDuplicate))
			}
			seen[name] = true
			persons = append(persons, name)
		}
		next.Persons = persons
	}

	if b.HasProducts() {
		next.Products = append(json.RawMessage(nil), b.Products...)
	}

	if b.Settings != nil {
		for _, c := range b.Settings.Categories {
			if strings.TrimSpace(c.Value) == "" {
				return fail(&ledgererror.ValidationError{Field: "category", Reason: "key cannot be empty"})
			}
		}
		next.Settings = models.Settings{
			Categories:            cloneCategories(b.Settings.Categories),
			NegativeBalancePolicy: b.Settings.NegativeBalancePolicy,
		}
	}

	return next, nil
}
