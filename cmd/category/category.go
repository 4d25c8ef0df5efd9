// Package category manages purchase categories.
package category

import (
	"fmt"

	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/report"
	"fjacquet/ledgerdash/internal/state"

	"github.com/spf13/cobra"
)

// Cmd represents the category command
var Cmd = &cobra.Command{
	Use:   "category",
	Short: "Manage purchase categories",
	Long: `Manage the categories buy records are labelled with. Records store the
category key; renaming changes only the label and deleting leaves records
with the bare key.`,
}

var addCmd = &cobra.Command{
	Use:   "add <label>",
	Short: "Add a category",
	Args:  cobra.ExactArgs(1),
	RunE:  addFunc,
}

var renameCmd = &cobra.Command{
	Use:   "rename <key> <label>",
	Short: "Change the label of a category",
	Args:  cobra.ExactArgs(2),
	RunE:  renameFunc,
}

var deleteCmd = &cobra.Command{
	Use:   "delete <key>",
	Short: "Delete a category",
	Args:  cobra.ExactArgs(1),
	RunE:  deleteFunc,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List categories",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

var saveSeedCmd = &cobra.Command{
	Use:   "save-seed",
	Short: "Write the current categories to the seed file",
	Long: `Write the current categories to the YAML seed file named by
categories.file. New ledgers start from that file.`,
	Args: cobra.NoArgs,
	RunE: saveSeedFunc,
}

func init() {
	Cmd.AddCommand(addCmd, renameCmd, deleteCmd, listCmd, saveSeedCmd)
}

func dispatch(cmd *cobra.Command, action state.Action, done string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if _, err := common.RequireUser(c); err != nil {
		return err
	}
	if _, err := c.Dispatch(action); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), done)
	return nil
}

func addFunc(cmd *cobra.Command, args []string) error {
	return dispatch(cmd, state.AddCategory{Label: args[0]}, "added category "+args[0])
}

func renameFunc(cmd *cobra.Command, args []string) error {
	return dispatch(cmd, state.RenameCategory{Value: args[0], Label: args[1]}, "renamed category "+args[0])
}

func deleteFunc(cmd *cobra.Command, args []string) error {
	return dispatch(cmd, state.DeleteCategory{Value: args[0]}, "deleted category "+args[0])
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
	return common.Render(cmd, c, report.CategoriesMarkdown(s.Categories()))
}

func saveSeedFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if _, err := common.RequireUser(c); err != nil {
		return err
	}
	s, err := c.State()
	if err != nil {
		return err
	}
	if err := c.GetCategoryStore().SaveCategories(s.Categories()); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "saved %d categories\n", len(s.Categories()))
	return nil
}
