// Package common contains shared functionality for command handlers
package common

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/auth"
	"fjacquet/ledgerdash/internal/config"
	"fjacquet/ledgerdash/internal/container"
	"fjacquet/ledgerdash/internal/currencyutils"
	"fjacquet/ledgerdash/internal/dateutils"
	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"
	"fjacquet/ledgerdash/internal/state"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// Environment fallbacks for the credential flags.
const (
	EnvUser     = config.EnvPrefix + "_USER"
	EnvPassword = config.EnvPrefix + "_PASSWORD"
)

// Credentials returns the --user and --password values, each falling back
// to its environment variable.
func Credentials() (string, string) {
	user := root.SharedFlags.User
	if user == "" {
		user = config.GetEnv(EnvUser, "")
	}
	password := root.SharedFlags.Password
	if password == "" {
		password = config.GetEnv(EnvPassword, "")
	}
	return user, password
}

// RequireUser authenticates the caller against the allow-list.
func RequireUser(c *container.Container) (auth.User, error) {
	user, password := Credentials()
	return c.GetAuthenticator().Authenticate(user, password)
}

// RequireAdmin authenticates the caller and checks the admin role.
func RequireAdmin(c *container.Container) (auth.User, error) {
	u, err := RequireUser(c)
	if err != nil {
		return auth.User{}, err
	}
	if !u.IsAdmin() {
		return auth.User{}, fmt.Errorf("%w: %s is not an admin", ledgererror.ErrUnauthorized, u.Name)
	}
	return u, nil
}

// Render writes md to the command output through the report renderer.
func Render(cmd *cobra.Command, c *container.Container, md string) error {
	return c.GetReportGenerator().WriteMarkdown(cmd.OutOrStdout(), md)
}

// ParseAmount reads a strictly positive amount flag.
func ParseAmount(field, value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, &ledgererror.ValidationError{Field: field, Reason: "is required"}
	}
	d, err := currencyutils.ParsePositive(value)
	if err != nil {
		return decimal.Zero, &ledgererror.ValidationError{Field: field, Reason: err.Error()}
	}
	return d, nil
}

// ParseCurrency reads a currency flag.
func ParseCurrency(field, value string) (models.Currency, error) {
	c, err := models.ParseCurrency(value)
	if err != nil {
		return "", &ledgererror.ValidationError{Field: field, Reason: err.Error()}
	}
	return c, nil
}

// ParseWhen reads a record date flag in local time. Empty means now.
func ParseWhen(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Now().UTC(), nil
	}
	t, _, err := dateutils.ParseDate(value, time.Local)
	if err != nil {
		return time.Time{}, &ledgererror.ValidationError{Field: "date", Reason: err.Error()}
	}
	return t.UTC(), nil
}

// ParseFilter builds a report filter from the filter flag values. Calendar
// day bounds cover the whole day.
func ParseFilter(from, to, person, search, kind string) (ledger.Filter, error) {
	f := ledger.Filter{Person: strings.TrimSpace(person), Search: search}
	if from != "" {
		t, err := dateutils.ParseRangeStart(from, time.Local)
		if err != nil {
			return ledger.Filter{}, &ledgererror.ValidationError{Field: "from", Reason: err.Error()}
		}
		f.From = t
	}
	if to != "" {
		t, err := dateutils.ParseRangeEnd(to, time.Local)
		if err != nil {
			return ledger.Filter{}, &ledgererror.ValidationError{Field: "to", Reason: err.Error()}
		}
		f.To = t
	}
	if kind != "" {
		tt := models.TransactionType(strings.ToLower(kind))
		if !tt.Valid() {
			return ledger.Filter{}, &ledgererror.ValidationError{Field: "type", Reason: "unknown transaction type " + kind}
		}
		f.Type = tt
	}
	return f, nil
}

// Commit appends records as one batch confirmed by --yes and prints their
// IDs.
func Commit(cmd *cobra.Command, c *container.Container, records models.Transactions) (state.State, error) {
	s, err := c.Dispatch(state.AppendTransactions{Records: records, Confirmed: root.SharedFlags.Yes})
	if err != nil {
		return s, ConfirmHint(c, s, err)
	}
	added := s.Transactions[len(s.Transactions)-len(records):]
	for _, tx := range added {
		fmt.Fprintf(cmd.OutOrStdout(), "recorded %s %s\n", tx.Kind(), tx.Head().ID)
	}
	return s, nil
}

// ConfirmHint adds the rerun hint to a refusal the --yes flag would lift.
func ConfirmHint(c *container.Container, s state.State, err error) error {
	if errors.Is(err, ledgererror.ErrNegativeBalance) && c.Policy(s) == ledger.PolicyConfirm {
		return fmt.Errorf("%w (rerun with --yes to confirm)", err)
	}
	return err
}

// OpenOutput returns the writer for --output: the named file, or the
// command output when path is empty. done must be called once writing ends.
func OpenOutput(cmd *cobra.Command, path string) (w io.Writer, done func() error, err error) {
	if path == "" {
		return cmd.OutOrStdout(), func() error { return nil }, nil
	}
	f, err := os.OpenFile(filepath.Clean(path), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, models.PermissionConfigFile) // #nosec G304 -- path chosen by the caller
	if err != nil {
		return nil, nil, fmt.Errorf("error creating output file: %w", err)
	}
	return f, f.Close, nil
}
