package models

import (
	"encoding/json"
	"time"
)

// Settings is the persisted settings blob. A nil category list means none
// was ever stored; an empty one means the user deleted them all.
type Settings struct {
	Categories            []Category `json:"categories"`
	NegativeBalancePolicy string     `json:"negativeBalancePolicy,omitempty"`
}

// Backup is the full snapshot written by export and by the periodic backup.
// On import a nil field means the key was absent and leaves state untouched.
type Backup struct {
	Transactions *Transactions   `json:"transactions"`
	Persons      *[]string       `json:"persons"`
	Products     json.RawMessage `json:"products"`
	Settings     *Settings       `json:"settings"`
	Timestamp    time.Time       `json:"timestamp"`
}

// HasProducts reports whether the backup carries a products key.
func (b Backup) HasProducts() bool {
	return len(b.Products) > 0 && string(b.Products) != "null"
}
