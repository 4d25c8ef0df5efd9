// Package order lists, shows and exports purchase orders.
package order

import (
	"fmt"

	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/container"
	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/report"
	"fjacquet/ledgerdash/internal/state"

	"github.com/spf13/cobra"
)

// Cmd represents the order command
var Cmd = &cobra.Command{
	Use:   "order",
	Short: "Inspect purchase orders",
	Long: `Inspect the purchase orders of the order owner. An order is the group
of buy records sharing an order number; its status is the status of its most
recent line.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List orders, newest number first",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

var showCmd = &cobra.Command{
	Use:   "show <order-number>",
	Short: "Show the lines of an order",
	Args:  cobra.ExactArgs(1),
	RunE:  showFunc,
}

var exportCmd = &cobra.Command{
	Use:   "export <order-number>",
	Short: "Export the lines of an order as CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  exportFunc,
}

var output string

func init() {
	exportCmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of standard output")
	Cmd.AddCommand(listCmd, showCmd, exportCmd)
}

func listFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	s, err := c.State()
	if err != nil {
		return err
	}
	orders := ledger.Orders(s.Transactions, c.OrderOwner())
	return common.Render(cmd, c, report.OrdersMarkdown(orders, c.GetReportGenerator().DateLayout()))
}

// load returns the container, the state and the order named number.
func load(number string) (*container.Container, state.State, ledger.Order, error) {
	c, err := root.GetContainer()
	if err != nil {
		return nil, state.State{}, ledger.Order{}, err
	}
	s, err := c.State()
	if err != nil {
		return nil, state.State{}, ledger.Order{}, err
	}
	o, ok := ledger.FindOrder(s.Transactions, c.OrderOwner(), number)
	if !ok {
		return nil, state.State{}, ledger.Order{}, fmt.Errorf("order %q: %w", number, ledgererror.ErrNotFound)
	}
	return c, s, o, nil
}

func showFunc(cmd *cobra.Command, args []string) error {
	c, s, o, err := load(args[0])
	if err != nil {
		return err
	}
	md := report.OrderMarkdown(o, s.Categories(), c.GetReportGenerator().DateLayout())
	return common.Render(cmd, c, md)
}

func exportFunc(cmd *cobra.Command, args []string) error {
	c, s, o, err := load(args[0])
	if err != nil {
		return err
	}

	w, done, err := common.OpenOutput(cmd, output)
	if err != nil {
		return err
	}
	if err := c.GetReportGenerator().WriteOrderCSV(w, o, s.Categories()); err != nil {
		_ = done()
		return err
	}
	return done()
}
