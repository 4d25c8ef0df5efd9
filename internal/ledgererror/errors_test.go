package ledgererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      *ValidationError
		expected string
	}{
		{
			name:     "typed record",
			err:      &ValidationError{Type: "transfer", Field: "to", Reason: "must differ from from"},
			expected: "invalid transfer transaction: to must differ from from",
		},
		{
			name:     "untyped field",
			err:      &ValidationError{Field: "person", Reason: "is required"},
			expected: "invalid person: is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrValidation)
		})
	}
}

func TestStorageError_Unwrap(t *testing.T) {
	cause := errors.New("quota exceeded")
	err := fmt.Errorf("save: %w", &StorageError{Op: "put", Key: "transactions", Err: cause})

	assert.ErrorIs(t, err, cause)
	var se *StorageError
	assert.True(t, errors.As(err, &se))
	assert.Equal(t, "transactions", se.Key)
	assert.Contains(t, err.Error(), `storage put "transactions": quota exceeded`)
}

func TestImportError(t *testing.T) {
	err := &ImportError{Source: "backup.json", Err: errors.New("unexpected EOF")}
	assert.Equal(t, "import from backup.json failed: unexpected EOF", err.Error())
}

func TestPolicyError(t *testing.T) {
	err := &PolicyError{
		Policy: "reject",
		Shortfalls: []Shortfall{
			{Person: "JACK", Currency: "cny", Balance: "-20"},
			{Person: "JD", Currency: "usd", Balance: "-5"},
		},
	}
	assert.Equal(t, "refused by reject policy: JACK would hold -20 cny (and 1 more)", err.Error())
	assert.ErrorIs(t, err, ErrNegativeBalance)
	assert.Equal(t, "refused by confirm policy", (&PolicyError{Policy: "confirm"}).Error())
}
