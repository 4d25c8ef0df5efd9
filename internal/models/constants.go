package models

// Store keys
const (
	KeyTransactions = "transactions"
	KeyPersons      = "persons"
	KeyProducts     = "products"
	KeySettings     = "settings"
	KeyBackup       = "backup"
	KeyBackupCount  = "backupCount"
)

// DefaultOrderOwner is the person whose buy records form the order views.
const DefaultOrderOwner = "JACK"

// MaxDescriptionLength bounds free-text descriptions.
const MaxDescriptionLength = 500

// File permissions
const (
	PermissionConfigFile = 0600
	PermissionDirectory  = 0750
)

// DefaultPersons returns the seed person list used when none is stored.
func DefaultPersons() []string {
	return []string{"JACK", "AMiR", "JD", "Khalil"}
}
