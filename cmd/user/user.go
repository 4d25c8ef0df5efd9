// Package user lists the allow-list.
package user

import (
	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/report"

	"github.com/spf13/cobra"
)

// Cmd represents the user command
var Cmd = &cobra.Command{
	Use:   "user",
	Short: "Inspect the users allowed to record changes",
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List users and their roles",
	Args:  cobra.NoArgs,
	RunE:  listFunc,
}

func init() {
	Cmd.AddCommand(listCmd)
}

func listFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	users := c.GetAuthenticator().Users()
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.Name, string(u.Role)})
	}
	return common.Render(cmd, c, report.ListMarkdown("Users", []string{"user", "role"}, rows, "No users."))
}
