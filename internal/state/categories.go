package state

import (
	"fmt"
	"strings"

	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/logging"
	"fjacquet/ledgerdash/internal/models"
	"fjacquet/ledgerdash/internal/validation"
)

// AddCategory adds a category whose key and label are both Label.
type AddCategory struct {
	Label string
}

func (a AddCategory) Name() string { return "add_category" }

func (a AddCategory) apply(r *Reducer, s State) (State, error) {
	name, err := validation.CategoryName(a.Label)
	if err != nil {
		return s, err
	}
	current := s.Categories()
	for _, c := range current {
		if c.Value == name {
			return s, fmt.Errorf("category %q: %w", name, ledgererror.ErrDuplicate)
		}
	}
	next := s.Clone()
	next.Settings.Categories = append(cloneCategories(current), models.Category{Value: name, Label: name})
	r.log.Info("category added", logging.F(logging.FieldKey, name))
	return next, nil
}

// RenameCategory changes the label of an existing key. Transactions keep
// the key.
type RenameCategory struct {
	Value string
	Label string
}

func (a RenameCategory) Name() string { return "rename_category" }

func (a RenameCategory) apply(r *Reducer, s State) (State, error) {
	label := strings.TrimSpace(a.Label)
	if label == "" {
		return s, &ledgererror.ValidationError{Field: "category", Reason: "label cannot be empty"}
	}
	categories := cloneCategories(s.Categories())
	found := false
	for i := range categories {
		if categories[i].Value == a.Value {
			categories[i].Label = label
			found = true
		}
	}
	if !found {
		return s, fmt.Errorf("category %q: %w", a.Value, ledgererror.ErrNotFound)
	}
	next := s.Clone()
	next.Settings.Categories = categories
	r.log.Info("category renamed", logging.F(logging.FieldKey, a.Value))
	return next, nil
}

// DeleteCategory removes a key. Records that use it keep the dangling key.
type DeleteCategory struct {
	Value string
}

func (a DeleteCategory) Name() string { return "delete_category" }

func (a DeleteCategory) apply(r *Reducer, s State) (State, error) {
	current := s.Categories()
	kept := make([]models.Category, 0, len(current))
	for _, c := range current {
		if c.Value != a.Value {
			kept = append(kept, c)
		}
	}
	if len(kept) == len(current) {
		return s, fmt.Errorf("category %q: %w", a.Value, ledgererror.ErrNotFound)
	}
	next := s.Clone()
	next.Settings.Categories = kept
	r.log.Info("category deleted", logging.F(logging.FieldKey, a.Value))
	return next, nil
}
