// Package parcel lists and shows delivery packages.
package parcel

import (
	"fmt"

	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the package command
var Cmd = &cobra.Command{
	Use:     "package",
	Aliases: []string{"pkg"},
	Short:   "Inspect delivery packages",
	Long:    `Inspect delivery packages: the groups of delivery records sharing a delivery number.`,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List packages, newest number first",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

var showCmd = &cobra.Command{
	Use:   "show <delivery-number>",
	Short: "Show the shipments of a package",
	Args:  cobra.ExactArgs(1),
	RunE:  showFunc,
}

func init() {
	Cmd.AddCommand(listCmd, showCmd)
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
	md := report.PackagesMarkdown(ledger.Deliveries(s.Transactions), c.GetReportGenerator().DateLayout())
	return common.Render(cmd, c, md)
}

func showFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	s, err := c.State()
	if err != nil {
		return err
	}
	p, ok := ledger.FindPackage(s.Transactions, args[0])
	if !ok {
		return fmt.Errorf("package %q: %w", args[0], ledgererror.ErrNotFound)
	}
	return common.Render(cmd, c, report.PackageMarkdown(p, c.GetReportGenerator().DateLayout()))
}
