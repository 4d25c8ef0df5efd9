// Package dashboard prints the overview of the ledger.
package dashboard

import (
	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the dashboard command
var Cmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Print the ledger overview",
	Long: `Print the number of persons and transactions, the per-currency totals,
the weighted average receipt rates and every person's balance.`,
	Args: cobra.NoArgs,
	RunE: dashboardFunc,
}

func dashboardFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	s, err := c.State()
	if err != nil {
		return err
	}
	d := report.BuildDashboard(s.Persons, s.Transactions, c.ReferenceCurrency())
	return common.Render(cmd, c, d.Markdown())
}
