package ledger

import (
	"errors"
	"testing"

	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		input    string
		expected Policy
		wantErr  bool
	}{
		{input: "", expected: PolicyConfirm},
		{input: "ALLOW", expected: PolicyAllow},
		{input: " reject ", expected: PolicyReject},
		{input: "confirm", expected: PolicyConfirm},
		{input: "warn", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePolicy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestShortfalls(t *testing.T) {
	b := CalculateBalances([]string{"A", "B"}, models.Transactions{receive("A", "10", models.USD)})

	shortfalls := Shortfalls(b, models.Transactions{
		pay("A", "15", models.USD),
		transfer("B", "A", "3", models.CNY),
		receive("B", "1", models.IRR),
	})

	require.Len(t, shortfalls, 2)
	assert.Equal(t, ledgererror.Shortfall{Person: "A", Currency: "usd", Balance: "-5"}, shortfalls[0])
	assert.Equal(t, ledgererror.Shortfall{Person: "B", Currency: "cny", Balance: "-3"}, shortfalls[1])
	assertBalance(t, b, "A", models.USD, "10")
}

func TestShortfalls_CoveredDebit(t *testing.T) {
	b := CalculateBalances([]string{"A"}, models.Transactions{receive("A", "10", models.USD)})

	assert.Empty(t, Shortfalls(b, models.Transactions{pay("A", "10", models.USD)}))
	assert.Empty(t, Shortfalls(b, models.Transactions{buy(0, "A", "P", "0", "")}))
}

func TestShortfalls_CreditDoesNotCount(t *testing.T) {
	b := CalculateBalances([]string{"A"}, models.Transactions{pay("A", "10", models.USD)})

	assert.Empty(t, Shortfalls(b, models.Transactions{receive("A", "1", models.USD)}))
}

func TestPolicy_Check(t *testing.T) {
	b := CalculateBalances([]string{"A"}, nil)
	debit := models.Transactions{pay("A", "1", models.USD)}

	tests := []struct {
		name      string
		policy    Policy
		confirmed bool
		wantErr   bool
	}{
		{name: "allow", policy: PolicyAllow},
		{name: "confirm without ack", policy: PolicyConfirm, wantErr: true},
		{name: "confirm with ack", policy: PolicyConfirm, confirmed: true},
		{name: "reject", policy: PolicyReject, wantErr: true},
		{name: "reject ignores ack", policy: PolicyReject, confirmed: true, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.policy.Check(b, debit, tt.confirmed)
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.Is(err, ledgererror.ErrNegativeBalance))
			var perr *ledgererror.PolicyError
			require.True(t, errors.As(err, &perr))
			assert.Equal(t, string(tt.policy), perr.Policy)
		})
	}
}

func TestPolicy_CheckNoShortfall(t *testing.T) {
	b := CalculateBalances([]string{"A"}, models.Transactions{receive("A", "5", models.USD)})

	assert.NoError(t, PolicyReject.Check(b, models.Transactions{pay("A", "5", models.USD)}, false))
}

func TestPolicy_CheckReplacement(t *testing.T) {
	old := pay("A", "15", models.USD)
	without := CalculateBalances([]string{"A"}, models.Transactions{receive("A", "10", models.USD)})

	t.Run("description edit of a negative debit", func(t *testing.T) {
		edited := old
		edited.Description = "fixed typo"
		assert.NoError(t, PolicyReject.CheckReplacement(without, old, edited, false))
	})

	t.Run("smaller debit", func(t *testing.T) {
		assert.NoError(t, PolicyReject.CheckReplacement(without, old, pay("A", "12", models.USD), false))
	})

	t.Run("larger debit", func(t *testing.T) {
		err := PolicyConfirm.CheckReplacement(without, old, pay("A", "20", models.USD), false)
		assert.True(t, errors.Is(err, ledgererror.ErrNegativeBalance))
		assert.NoError(t, PolicyConfirm.CheckReplacement(without, old, pay("A", "20", models.USD), true))
	})

	t.Run("new shortfall from a credit", func(t *testing.T) {
		err := PolicyReject.CheckReplacement(without, receive("A", "1", models.USD), pay("A", "11", models.USD), false)
		assert.Error(t, err)
	})

	t.Run("allow", func(t *testing.T) {
		assert.NoError(t, PolicyAllow.CheckReplacement(without, old, pay("A", "99", models.USD), false))
	})
}
