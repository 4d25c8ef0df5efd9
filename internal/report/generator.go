// Package report renders ledger views: CSV exports, the printable HTML
// report, terminal tables and JSON backups.
package report

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"time"

	"fjacquet/ledgerdash/internal/dateutils"
	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/logging"
	"fjacquet/ledgerdash/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Output formats
const (
	FormatTable = "table"
	FormatCSV   = "csv"
	FormatHTML  = "html"
	FormatJSON  = "json"
)

// ReportGenerator writes reports in the supported formats.
type ReportGenerator struct {
	logger     logging.Logger
	delimiter  rune
	dateLayout string
	renderer   *Renderer
}

// NewReportGenerator creates a generator. A zero delimiter means ',' and an
// empty layout means dateutils.DateLayoutDisplay.
func NewReportGenerator(logger logging.Logger, delimiter rune, dateLayout string) *ReportGenerator {
	if logger == nil {
		logger = logging.Nop()
	}
	if delimiter == 0 {
		delimiter = ','
	}
	if dateLayout == "" {
		dateLayout = dateutils.DateLayoutDisplay
	}
	return &ReportGenerator{
		logger:     logger.WithField(logging.FieldComponent, "ReportGenerator"),
		delimiter:  delimiter,
		dateLayout: dateLayout,
		renderer:   NewRenderer("", false),
	}
}

// WithRenderer sets the renderer used for table output.
func (g *ReportGenerator) WithRenderer(r *Renderer) *ReportGenerator {
	g.renderer = r
	return g
}

// DateLayout returns the layout used for dates.
func (g *ReportGenerator) DateLayout() string {
	return g.dateLayout
}

// GenerateReport writes ts to w in format.
func (g *ReportGenerator) GenerateReport(w io.Writer, ts models.Transactions, format, title string) error {
	switch format {
	case FormatTable, "":
		return g.WriteMarkdown(w, TransactionsMarkdown(title, ts, g.dateLayout))
	case FormatCSV:
		return g.WriteCSV(w, ts)
	case FormatHTML:
		return g.WriteHTML(w, title, TransactionsMarkdown(title, ts, g.dateLayout))
	case FormatJSON:
		return g.writeJSON(w, ts)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// WriteMarkdown renders md through the renderer.
func (g *ReportGenerator) WriteMarkdown(w io.Writer, md string) error {
	out, err := g.renderer.Render(md)
	if err != nil {
		g.logger.WithError(err).Error("Failed to render markdown")
		return err
	}
	_, err = io.WriteString(w, out)
	return err
}

func (g *ReportGenerator) csvWriter(w io.Writer) gocsv.CSVWriter {
	csvWriter := csv.NewWriter(w)
	csvWriter.Comma = g.delimiter
	return gocsv.NewSafeCSVWriter(csvWriter)
}

// WriteCSV writes one line per record.
func (g *ReportGenerator) WriteCSV(w io.Writer, ts models.Transactions) error {
	rows := BuildRows(ts, g.dateLayout)
	if err := gocsv.MarshalCSV(rows, g.csvWriter(w)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal transactions to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	g.logger.Debug("Wrote transactions CSV", logging.F(logging.FieldCount, len(rows)))
	return nil
}

// WriteOrderCSV writes the entries of one order.
func (g *ReportGenerator) WriteOrderCSV(w io.Writer, o ledger.Order, categories []models.Category) error {
	rows := BuildOrderRows(o, categories, g.dateLayout)
	if err := gocsv.MarshalCSV(rows, g.csvWriter(w)); err != nil {
		g.logger.WithError(err).Error("Failed to marshal order to CSV")
		return fmt.Errorf("error writing CSV data: %w", err)
	}
	g.logger.Debug("Wrote order CSV",
		logging.F("order", o.Number),
		logging.F(logging.FieldCount, len(rows)))
	return nil
}

const printStyle = `body{font-family:Tahoma,Arial,sans-serif;margin:2em;color:#222}
table{border-collapse:collapse;width:100%;margin-bottom:1.5em}
th,td{border:1px solid #999;padding:4px 8px;text-align:right;font-size:12px}
th{background:#eee}
@media print{body{margin:0}a{color:inherit;text-decoration:none}}`

// WriteHTML converts md to a standalone printable HTML document.
func (g *ReportGenerator) WriteHTML(w io.Writer, title, md string) error {
	var body bytes.Buffer
	converter := goldmark.New(goldmark.WithExtensions(extension.Table))
	if err := converter.Convert([]byte(md), &body); err != nil {
		g.logger.WithError(err).Error("Failed to convert report to HTML")
		return fmt.Errorf("failed to convert report to HTML: %w", err)
	}
	if title == "" {
		title = "Ledger report"
	}
	_, err := fmt.Fprintf(w, "<!DOCTYPE html>\n<html dir=\"rtl\">\n<head>\n<meta charset=\"utf-8\">\n<title>%s</title>\n<style>\n%s\n</style>\n</head>\n<body>\n%s</body>\n</html>\n",
		html.EscapeString(title), printStyle, body.String())
	return err
}

func (g *ReportGenerator) writeJSON(w io.Writer, ts models.Transactions) error {
	if ts == nil {
		ts = models.Transactions{}
	}
	data, err := json.MarshalIndent(ts, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}

// BackupFileName names an exported snapshot taken at t.
func BackupFileName(t time.Time) string {
	return "backup_" + dateutils.FileStamp(t) + ".json"
}

// WriteBackup writes b as indented JSON.
func (g *ReportGenerator) WriteBackup(w io.Writer, b models.Backup) error {
	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal backup")
		return fmt.Errorf("failed to marshal backup: %w", err)
	}
	_, err = w.Write(append(data, '\n'))
	return err
}
