// Package report prints filtered transaction reports.
package report

import (
	"fmt"

	"fjacquet/ledgerdash/cmd/common"
	"fjacquet/ledgerdash/cmd/root"
	"fjacquet/ledgerdash/internal/logging"
	"fjacquet/ledgerdash/internal/validation"

	"github.com/spf13/cobra"
)

type options struct {
	from   string
	to     string
	person string
	search string
	kind   string
	format string
	output string
	title  string
}

var opts options

// Cmd represents the report command
var Cmd = &cobra.Command{
	Use:   "report",
	Short: "Print a filtered transaction report",
	Long: `Print the transactions matching every given filter, newest first, with
per-type and grand totals. Formats: table (terminal), csv, html (print view)
and json.`,
	Example: `  ledgerdash report --from 2024-01-01 --to 2024-01-31 --person JACK
  ledgerdash report --type buy --format csv -o buys.csv
  ledgerdash report --search A-1024 --format html -o report.html`,
	Args: cobra.NoArgs,
	RunE: reportFunc,
}

func init() {
	Cmd.Flags().StringVar(&opts.from, "from", "", "Earliest date to include")
	Cmd.Flags().StringVar(&opts.to, "to", "", "Latest date to include; a day covers its whole length")
	Cmd.Flags().StringVarP(&opts.person, "person", "p", "", "Only records involving this person")
	Cmd.Flags().StringVarP(&opts.search, "search", "s", "", "Case-sensitive text found in a person, order or delivery number")
	Cmd.Flags().StringVarP(&opts.kind, "type", "t", "", "Only records of this type")
	Cmd.Flags().StringVarP(&opts.format, "format", "f", "table", "Output format: table, csv, html or json")
	Cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Write to this file instead of standard output")
	Cmd.Flags().StringVar(&opts.title, "title", "Report", "Title of table and html reports")
}

func reportFunc(cmd *cobra.Command, args []string) error {
	c, err := root.GetContainer()
	if err != nil {
		return err
	}
	if err := validation.IsValidOutputFormat(opts.format); err != nil {
		return err
	}
	filter, err := common.ParseFilter(opts.from, opts.to, opts.person, opts.search, opts.kind)
	if err != nil {
		return err
	}
	s, err := c.State()
	if err != nil {
		return err
	}

	rows := filter.Apply(s.Transactions)
	c.GetLogger().Debug("report filtered",
		logging.F(logging.FieldCount, len(rows)),
		logging.F("format", opts.format))

	w, done, err := common.OpenOutput(cmd, opts.output)
	if err != nil {
		return err
	}
	if err := c.GetReportGenerator().GenerateReport(w, rows, opts.format, opts.title); err != nil {
		_ = done()
		return err
	}
	if err := done(); err != nil {
		return fmt.Errorf("error closing output file: %w", err)
	}
	if opts.output != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %d records to %s\n", len(rows), opts.output)
	}
	return nil
}
