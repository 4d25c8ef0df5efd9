package order_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fjacquet/ledgerdash/cmd/cmdtest"
	"fjacquet/ledgerdash/cmd/order"
	"fjacquet/ledgerdash/internal/container"
	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func purchase(t *testing.T, number, amount, category string) models.Transaction {
	t.Helper()
	tx, err := models.NewTransactionBuilder(models.TypeBuy).
		WithUser("Jack").
		WithPerson(models.DefaultOrderOwner).
		WithAmount(decimal.RequireFromString(amount), models.CNY).
		WithOrder(number, category).
		WithStatus(models.StatusActive).
		Build()
	require.NoError(t, err)
	return tx
}

func withOrders(t *testing.T) *container.Container {
	t.Helper()
	c, _ := cmdtest.NewContainer(t)
	cmdtest.Seed(t, c,
		purchase(t, "A-1", "100", "material"),
		purchase(t, "A-1", "20", "shipping"),
		purchase(t, "B-2", "5", ""),
	)
	return c
}

func TestOrderList(t *testing.T) {
	c := withOrders(t)

	out, err := cmdtest.Execute(t, c, order.Cmd, "order", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "# Orders")
	assert.Contains(t, out, "A-1")
	assert.Contains(t, out, "B-2")

	empty, _ := cmdtest.NewContainer(t)
	out, err = cmdtest.Execute(t, empty, order.Cmd, "order", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "No orders.")
}

func TestOrderShow(t *testing.T) {
	c := withOrders(t)

	out, err := cmdtest.Execute(t, c, order.Cmd, "order", "show", "A-1")
	require.NoError(t, err)
	assert.Contains(t, out, "# Order A-1")
	assert.Contains(t, out, "مواد اولیه")

	_, err = cmdtest.Execute(t, c, order.Cmd, "order", "show", "Z-9")
	assert.ErrorIs(t, err, ledgererror.ErrNotFound)
}

func TestOrderExport(t *testing.T) {
	c := withOrders(t)
	path := filepath.Join(t.TempDir(), "a1.csv")

	_, err := cmdtest.Execute(t, c, order.Cmd, "order", "export", "A-1", "-o", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "category")

	out, err := cmdtest.Execute(t, c, order.Cmd, "order", "export", "B-2")
	require.NoError(t, err)
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 2)
}
