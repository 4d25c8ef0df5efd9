// Package cmdtest runs commands against an in-memory ledger for tests.
package cmdtest

import (
	"bytes"
	"testing"

	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/config"
	"fjacquet/ledgerdash/internal/container"
	"fjacquet/ledgerdash/internal/logging"
	"fjacquet/ledgerdash/internal/models"
	"fjacquet/ledgerdash/internal/state"
	"fjacquet/ledgerdash/internal/store"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

// Admin and User are credential flags accepted by the default allow-list.
var (
	Admin = []string{"--user", "Amir", "--password", "2731"}
	User  = []string{"--user", "Jack", "--password", "2731"}
)

// NewContainer returns a container over a fresh in-memory store with the
// default configuration.
func NewContainer(t *testing.T) (*container.Container, *store.MockStore) {
	t.Helper()
	kv := store.NewMockStore()
	cfg := config.Defaults()
	cfg.Categories.File = "cmdtest-no-seed.yaml"
	c, err := container.NewContainerWithStore(cfg, kv, logging.NewMockLogger())
	require.NoError(t, err)
	return c, kv
}

// Seed appends records to c, confirming any negative balance.
func Seed(t *testing.T, c *container.Container, records ...models.Transaction) state.State {
	t.Helper()
	s, err := c.Dispatch(state.AppendTransactions{Records: records, Confirmed: true})
	require.NoError(t, err)
	return s
}

// ReceiptRate is the toman rate carried by Receipt records.
const ReceiptRate = "58000"

// Receipt builds a receive of amount usd for person at ReceiptRate.
func Receipt(t *testing.T, person, amount string) models.Transaction {
	t.Helper()
	tx, err := models.NewTransactionBuilder(models.TypeReceive).
		WithUser("Jack").
		WithPerson(person).
		WithAmount(decimal.RequireFromString(amount), models.USD).
		WithRate(decimal.RequireFromString(ReceiptRate)).
		Build()
	require.NoError(t, err)
	return tx
}

// Execute runs the root command with args against c and returns everything
// written to the command output. cmd is registered on first use and every
// flag starts from its default.
func Execute(t *testing.T, c *container.Container, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	root.Init()
	register(cmd)
	resetFlags(root.Cmd)

	root.SetContainer(c)
	t.Cleanup(func() { root.SetContainer(nil) })

	out := new(bytes.Buffer)
	root.Cmd.SetOut(out)
	root.Cmd.SetErr(out)
	root.Cmd.SetArgs(append(append([]string{}, args...), "--raw"))
	err := root.Execute()
	return out.String(), err
}

func register(cmd *cobra.Command) {
	for _, sub := range root.Cmd.Commands() {
		if sub == cmd {
			return
		}
	}
	root.Cmd.AddCommand(cmd)
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			_ = sv.Replace(nil)
		} else {
			_ = f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}
