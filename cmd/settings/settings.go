// Package settings shows and changes ledger settings.
package settings

import (
	"fmt"

	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/state"

	"github.com/spf13/cobra"
)

// Cmd represents the settings command
var Cmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change ledger settings",
}

var policyCmd = &cobra.Command{
	Use:   "policy [allow|confirm|reject|default]",
	Short: "Show or set the negative balance policy",
	Long: `Show the negative balance policy in force, or store an override. The
override travels with the data and backups; "default" removes it so the
configured ledger.negative_balance_policy applies again. Changing it requires
an admin.`,
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"allow", "confirm", "reject", "default"},
	RunE:      policyFunc,
}

func init() {
	Cmd.AddCommand(policyCmd)
}

func policyFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if len(args) == 0 {
		s, err := c.State()
		if err != nil {
			return err
		}
		source := "configured"
		if s.Settings.NegativeBalancePolicy != "" {
			source = "stored override"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", c.Policy(s), source)
		return nil
	}

	if _, err := common.RequireAdmin(c); err != nil {
		return err
	}
	value := args[0]
	if value == "default" {
		value = ""
	}
	s, err := c.Dispatch(state.SetPolicy{Policy: value})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "negative balance policy: %s\n", c.Policy(s))
	return nil
}
