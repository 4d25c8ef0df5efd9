// Package backup exports and imports ledger snapshots.
package backup

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/ledgererror"
	"fjacquet/ledgerdash/internal/models"
	"fjacquet/ledgerdash/internal/report"
	"fjacquet/ledgerdash/internal/state"
	"fjacquet/ledgerdash/internal/validation"

	"github.com/spf13/cobra"
)

type exportOptions struct {
	output string
	auto   bool
}

var exportOpts exportOptions

// Cmd represents the backup command
var Cmd = &cobra.Command{
	Use:   "backup",
	Short: "Export or import a ledger snapshot",
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a JSON snapshot of the ledger",
	Long: `Write the transactions, persons, products and settings as one JSON
document. Without --output the file is named backup_<timestamp>.json in the
current directory; "-" writes to standard output. --auto exports the last
periodic snapshot taken while saving instead of the current state.`,
	Args: cobra.NoArgs,
	RunE: exportFunc,
}

var importCmd = &cobra.Command{
	Use:   "import <file.json>",
	Short: "Replace ledger collections from a JSON snapshot",
	Long: `Replace every collection present in the snapshot. Collections the file
does not carry are kept. Nothing is applied if any part of the file is
invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: importFunc,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOpts.output, "output", "o", "", "Output file, or - for standard output")
	exportCmd.Flags().BoolVar(&exportOpts.auto, "auto", false, "Export the last periodic snapshot")
	Cmd.AddCommand(exportCmd, importCmd)
}

func exportFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}

	var b models.Backup
	if exportOpts.auto {
		last, ok, err := c.GetRepository().LastBackup()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: no periodic snapshot yet", ledgererror.ErrNotFound)
		}
		b = last
	} else {
		s, err := c.State()
		if err != nil {
			return err
		}
		b = s.Snapshot()
		b.Timestamp = time.Now().UTC()
	}

	path := exportOpts.output
	switch path {
	case "":
		path = report.BackupFileName(time.Now())
	case "-":
		path = ""
	}
	w, done, err := common.OpenOutput(cmd, path)
	if err != nil {
		return err
	}
	if err := c.GetReportGenerator().WriteBackup(w, b); err != nil {
		_ = done()
		return err
	}
	if err := done(); err != nil {
		return err
	}
	if path != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote backup to %s\n", path)
	}
	return nil
}

func importFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if _, err := common.RequireUser(c); err != nil {
		return err
	}

	source := filepath.Clean(args[0])
	if err := validation.IsValidPath(source); err != nil {
		return &ledgererror.ImportError{Source: source, Err: err}
	}
	f, err := os.Open(source) // #nosec G304 -- path chosen by the caller
	if err != nil {
		return &ledgererror.ImportError{Source: source, Err: err}
	}
	defer func() { _ = f.Close() }()

	b, err := state.ParseBackup(source, f)
	if err != nil {
		return err
	}
	s, err := c.Dispatch(state.ImportBackup{Source: source, Backup: b})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %s: %d transactions, %d persons\n", source, len(s.Transactions), len(s.Persons))
	return nil
}
