package common_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"fjacquet/ledgerdash/cmd/cmdtest"
	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"
	"fjacquet/ledgerdash/internal/state"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withCredentials(t *testing.T, user, password string) {
	t.Helper()
	root.SharedFlags.User = user
	root.SharedFlags.Password = password
	t.Cleanup(func() { root.SharedFlags = root.CommonFlags{} })
}

func TestCredentials_EnvFallback(t *testing.T) {
	t.Setenv(common.EnvUser, "Jack")
	t.Setenv(common.EnvPassword, "secret")

	user, password := common.Credentials()
	assert.Equal(t, "Jack", user)
	assert.Equal(t, "secret", password)

	withCredentials(t, "Amir", "2731")
	user, password = common.Credentials()
	assert.Equal(t, "Amir", user)
	assert.Equal(t, "2731", password)
}

func TestRequireUser(t *testing.T) {
	c, _ := cmdtest.NewContainer(t)

	tests := []struct {
		name     string
		user     string
		password string
		wantErr  bool
	}{
		{name: "admin", user: "Amir", password: "2731"},
		{name: "user", user: "Jack", password: "2731"},
		{name: "wrong password", user: "Jack", password: "0000", wantErr: true},
		{name: "unknown user", user: "Sara", password: "2731", wantErr: true},
		{name: "no user", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withCredentials(t, tt.user, tt.password)
			u, err := common.RequireUser(c)
			if tt.wantErr {
				assert.ErrorIs(t, err, ledgererror.ErrUnauthorized)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.user, u.Name)
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	c, _ := cmdtest.NewContainer(t)

	withCredentials(t, "Amir", "2731")
	u, err := common.RequireAdmin(c)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	withCredentials(t, "Jack", "2731")
	_, err = common.RequireAdmin(c)
	assert.ErrorIs(t, err, ledgererror.ErrUnauthorized)
	assert.Contains(t, err.Error(), "not an admin")
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		value   string
		want    string
		wantErr bool
	}{
		{value: "10.5", want: "10.5"},
		{value: "1,250", want: "1250"},
		{value: "", wantErr: true},
		{value: "0", wantErr: true},
		{value: "-3", wantErr: true},
		{value: "ten", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			got, err := common.ParseAmount("amount", tt.value)
			if tt.wantErr {
				assert.ErrorIs(t, err, ledgererror.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestParseCurrency(t *testing.T) {
	c, err := common.ParseCurrency("currency", " CNY ")
	require.NoError(t, err)
	assert.Equal(t, models.CNY, c)

	_, err = common.ParseCurrency("currency", "eur")
	assert.ErrorIs(t, err, ledgererror.ErrValidation)
}

func TestParseWhen(t *testing.T) {
	before := time.Now().UTC()
	got, err := common.ParseWhen("")
	require.NoError(t, err)
	assert.False(t, got.Before(before))
	assert.Equal(t, time.UTC, got.Location())

	got, err = common.ParseWhen("2024-03-05")
	require.NoError(t, err)
	assert.True(t, got.Equal(time.Date(2024, 3, 5, 0, 0, 0, 0, time.Local)))

	_, err = common.ParseWhen("yesterday-ish")
	assert.ErrorIs(t, err, ledgererror.ErrValidation)
}

func TestParseFilter(t *testing.T) {
	f, err := common.ParseFilter("2024-03-01", "2024-03-31", " JACK ", "rent", "PAY")
	require.NoError(t, err)
	assert.Equal(t, "JACK", f.Person)
	assert.Equal(t, "rent", f.Search)
	assert.Equal(t, models.TypePay, f.Type)
	assert.True(t, f.From.Equal(time.Date(2024, 3, 1, 0, 0, 0, 0, time.Local)))
	assert.True(t, f.To.After(time.Date(2024, 3, 31, 23, 59, 0, 0, time.Local)))

	tests := []struct {
		name     string
		from, to string
		kind     string
	}{
		{name: "bad from", from: "soon"},
		{name: "bad to", to: "later"},
		{name: "bad type", kind: "gift"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := common.ParseFilter(tt.from, tt.to, "", "", tt.kind)
			assert.ErrorIs(t, err, ledgererror.ErrValidation)
		})
	}
}

func TestConfirmHint(t *testing.T) {
	c, _ := cmdtest.NewContainer(t)
	s, err := c.State()
	require.NoError(t, err)

	refused := &ledgererror.PolicyError{Policy: string(ledger.PolicyConfirm)}
	err = common.ConfirmHint(c, s, refused)
	assert.ErrorIs(t, err, ledgererror.ErrNegativeBalance)
	assert.Contains(t, err.Error(), "--yes")

	other := errors.New("disk full")
	assert.Same(t, other, common.ConfirmHint(c, s, other))

	s, err = c.Dispatch(state.SetPolicy{Policy: string(ledger.PolicyReject)})
	require.NoError(t, err)
	assert.NotContains(t, common.ConfirmHint(c, s, refused).Error(), "--yes")
}

func TestOpenOutput(t *testing.T) {
	cmd := &cobra.Command{}
	out := new(bytes.Buffer)
	cmd.SetOut(out)

	w, done, err := common.OpenOutput(cmd, "")
	require.NoError(t, err)
	_, _ = w.Write([]byte("to stdout"))
	require.NoError(t, done())
	assert.Equal(t, "to stdout", out.String())

	path := filepath.Join(t.TempDir(), "out.csv")
	w, done, err = common.OpenOutput(cmd, path)
	require.NoError(t, err)
	_, _ = w.Write([]byte("to file"))
	require.NoError(t, done())
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "to file", string(data))

	_, _, err = common.OpenOutput(cmd, filepath.Join(t.TempDir(), "missing", "out.csv"))
	assert.Error(t, err)
}
