// Package person manages the persons of the ledger.
package person

import (
	"fmt"

	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/report"
	"fjacquet/ledgerdash/internal/state"

	"github.com/spf13/cobra"
)

// Cmd represents the person command
var Cmd = &cobra.Command{
	Use:   "person",
	Short: "Manage the persons of the ledger",
	Long:  `Add, delete and list the persons whose balances the ledger keeps.`,
}

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a person",
	Args:  cobra.ExactArgs(1),
	RunE:  addFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <name>",
	Short: "Delete a person without transactions",
	Long:  `Delete a person. A person still referenced by a transaction cannot be deleted.`,
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List persons with their balances",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

func init() {
	Cmd.AddCommand(addCmd, deleteCmd, listCmd)
}

func addFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if _, err := common.RequireUser(c); err != nil {
		return err
	}
	s, err := c.Dispatch(state.AddPerson{Person: args[0]})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s (%d persons)\n", s.Persons[len(s.Persons)-1], len(s.Persons))
	return nil
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if _, err := common.RequireUser(c); err != nil {
		return err
	}
	if _, err := c.Dispatch(state.DeletePerson{Person: args[0]}); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
	return nil
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
	return common.Render(cmd, c, "# Persons\n\n"+report.BalancesMarkdown(s.Balances()))
}
