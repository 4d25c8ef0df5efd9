package models

// Category labels the purpose of a purchase. Value is the stable key stored
// on buy records.
type Category struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// DefaultCategories returns the built-in category list.
func DefaultCategories() []Category {
	return []Category{
		{Value: "material", Label: "مواد اولیه"},
		{Value: "shipping", Label: "حمل و نقل"},
		{Value: "packaging", Label: "بسته‌بندی"},
		{Value: "other", Label: "سایر"},
	}
}

// CategoryLabel resolves key against the list. A key with no category
// displays as itself.
func CategoryLabel(categories []Category, key string) string {
	for _, c := range categories {
		if c.Value == key {
			return c.Label
		}
	}
	return key
}
