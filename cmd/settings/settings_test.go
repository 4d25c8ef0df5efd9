package settings_test

import (
	"testing"

	"fjacquet/ledgerdash/cmd/cmdtest"
	"fjacquet/ledgerdash/cmd/settings"
	"fjacquet/ledgerdash/internal/ledgererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSettingsPolicy(t *testing.T) {
	c, _ := cmdtest.NewContainer(t)
	exec := func(args ...string) (string, error) {
		return cmdtest.Execute(t, c, settings.Cmd, append([]string{"settings", "policy"}, args...)...)
	}

	out, err := exec()
	require.NoError(t, err)
	assert.Equal(t, "confirm (configured)\n", out)

	out, err = exec(append([]string{"reject"}, cmdtest.Admin...)...)
	require.NoError(t, err)
	assert.Equal(t, "negative balance policy: reject\n", out)

	out, err = exec()
	require.NoError(t, err)
	assert.Equal(t, "reject (stored override)\n", out)

	s, err := c.State()
	require.NoError(t, err)
	assert.Equal(t, "reject", s.Settings.NegativeBalancePolicy)

	_, err = exec(append([]string{"default"}, cmdtest.Admin...)...)
	require.NoError(t, err)
	out, err = exec()
	require.NoError(t, err)
	assert.Equal(t, "confirm (configured)\n", out)
}

func TestSettingsPolicy_Refusals(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "not an admin", args: append([]string{"allow"}, cmdtest.User...), want: ledgererror.ErrUnauthorized},
		{name: "no credentials", args: []string{"allow"}, want: ledgererror.ErrUnauthorized},
		{name: "unknown policy", args: append([]string{"sometimes"}, cmdtest.Admin...), want: ledgererror.ErrValidation},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := cmdtest.NewContainer(t)
			_, err := cmdtest.Execute(t, c, settings.Cmd, append([]string{"settings", "policy"}, tt.args...)...)
			assert.ErrorIs(t, err, tt.want)

			s, err := c.State()
			require.NoError(t, err)
			assert.Empty(t, s.Settings.NegativeBalancePolicy)
		})
	}
}
