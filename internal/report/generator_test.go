package report

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fjacquet/ledgerdash/internal/ledger"
	"fjacquet/ledgerdash/internal/logging"
	"fjacquet/ledgerdash/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 9, 30, 0, 0, time.UTC)
}

func sample() models.Transactions {
	rate := decimal.NewFromInt(60000)
	sum := decimal.NewFromInt(6000000)
	return models.Transactions{
		models.Receive{
			Header: models.Header{ID: "r1", Type: models.TypeReceive, User: "Amir", Date: day(1), Description: "cash | bank"},
			Person: "JACK", Amount: decimal.NewFromInt(100), Currency: models.USD, Rate: &rate, Sum: &sum,
		},
		models.Transfer{
			Header: models.Header{ID: "t1", Type: models.TypeTransfer, User: "Amir", Date: day(2)},
			From:   "JACK", To: "JD", Amount: decimal.NewFromInt(20), Currency: models.USD,
		},
		models.Buy{
			Header:      models.Header{ID: "b1", Type: models.TypeBuy, User: "Jack", Date: day(3), Description: "steel"},
			Person:      "JACK", Amount: decimal.RequireFromString("1234.5"), Currency: models.CNY,
			OrderNumber: "A-1", Category: "material", Status: models.StatusActive,
		},
		models.Delivery{
			Header:         models.Header{ID: "d1", Type: models.TypeDelivery, User: "Jack", Date: day(4)},
			DeliveryNumber: "P-9", BoxCount: 3, Weight: decimal.RequireFromString("12.5"), ReceiptNumber: "R1",
		},
	}
}

func newGenerator(delim rune) *ReportGenerator {
	return NewReportGenerator(logging.Nop(), delim, "2006-01-02").WithRenderer(NewRenderer("", true))
}

func TestBuildRows(t *testing.T) {
	rows := BuildRows(sample(), "2006-01-02")
	require.Len(t, rows, 4)

	assert.Equal(t, Row{
		ID: "r1", Type: "receive", User: "Amir", Party: "JACK", Amount: "100.00 $",
		Currency: "美元", Rate: "60,000", Date: "2024-01-01", Description: "cash | bank",
	}, rows[0])
	assert.Equal(t, "JACK → JD", rows[1].Party)
	assert.Equal(t, "1,234.50 ¥", rows[2].Amount)
	assert.Equal(t, "元", rows[2].Currency)
	assert.Equal(t, "P-9", rows[3].Party)
	assert.Equal(t, "12.5 kg", rows[3].Amount)
	assert.Empty(t, rows[3].Currency)
}

func TestBuildOrderRows_DanglingCategory(t *testing.T) {
	orders := ledger.Orders(sample(), "JACK")
	require.Len(t, orders, 1)

	rows := BuildOrderRows(orders[0], models.DefaultCategories(), "2006-01-02")
	require.Len(t, rows, 1)
	assert.Equal(t, "مواد اولیه", rows[0].Category)
	assert.Equal(t, "active", rows[0].Status)

	rows = BuildOrderRows(orders[0], nil, "2006-01-02")
	assert.Equal(t, "material", rows[0].Category)
}

func TestWriteCSV_Delimiter(t *testing.T) {
	tests := []struct {
		name   string
		delim  rune
		header string
	}{
		{name: "comma", delim: ',', header: "type,user,person,amount,currency,rate,date,description"},
		{name: "semicolon", delim: ';', header: "type;user;person;amount;currency;rate;date;description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, newGenerator(tt.delim).WriteCSV(&buf, sample()))

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			require.Len(t, lines, 5)
			assert.Equal(t, tt.header, lines[0])
			assert.Contains(t, lines[2], "JACK → JD")
		})
	}
}

func TestWriteOrderCSV(t *testing.T) {
	order, ok := ledger.FindOrder(sample(), "JACK", "A-1")
	require.True(t, ok)

	var buf bytes.Buffer
	require.NoError(t, newGenerator(',').WriteOrderCSV(&buf, order, models.DefaultCategories()))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "date,amount,category,description,status", lines[0])
	assert.Contains(t, lines[1], "steel")
}

func TestGenerateReport_Formats(t *testing.T) {
	g := newGenerator(',')

	var table bytes.Buffer
	require.NoError(t, g.GenerateReport(&table, sample(), FormatTable, "Report"))
	assert.Contains(t, table.String(), "# Report")
	assert.Contains(t, table.String(), `cash \| bank`)
	assert.Contains(t, table.String(), "## Summary (4 records)")

	var page bytes.Buffer
	require.NoError(t, g.GenerateReport(&page, sample(), FormatHTML, "<Report>"))
	assert.Contains(t, page.String(), "<title>&lt;Report&gt;</title>")
	assert.Contains(t, page.String(), "<table>")
	assert.Contains(t, page.String(), "@media print")

	var js bytes.Buffer
	require.NoError(t, g.GenerateReport(&js, sample(), FormatJSON, ""))
	var decoded models.Transactions
	require.NoError(t, json.Unmarshal(js.Bytes(), &decoded))
	assert.Len(t, decoded, 4)

	err := g.GenerateReport(&bytes.Buffer{}, sample(), "xml", "")
	assert.EqualError(t, err, "unsupported report format: xml")
}

func TestTransactionsMarkdown_Empty(t *testing.T) {
	md := TransactionsMarkdown("", nil, "")
	assert.Equal(t, "_No transactions._\n", md)
}

func TestDashboard(t *testing.T) {
	persons := []string{"JACK", "JD", "Khalil"}
	d := BuildDashboard(persons, sample(), models.USD)

	assert.Equal(t, 3, d.Persons)
	assert.Equal(t, 4, d.Transactions)
	assert.True(t, d.Totals[models.USD].Equal(decimal.NewFromInt(100)))
	assert.True(t, d.Totals[models.CNY].Equal(decimal.RequireFromString("-1234.5")))
	assert.True(t, d.AverageRates[models.USD].Equal(decimal.NewFromInt(60000)))
	assert.True(t, d.AverageRates[models.CNY].IsZero())

	md := d.Markdown()
	assert.Contains(t, md, "- persons: 3")
	assert.Contains(t, md, "- average 美元 rate: 60,000")
	assert.Contains(t, md, "- average 元 rate: n/a")
	assert.Contains(t, md, "**-1,234.50 ¥**")
	assert.Contains(t, md, "| Khalil |")
	assert.Less(t, strings.Index(md, "美元 rate"), strings.Index(md, "元 rate: n/a"))
}

func TestRenderer(t *testing.T) {
	raw := NewRenderer("", true)
	out, err := raw.Render("# Title")
	require.NoError(t, err)
	assert.Equal(t, "# Title", out)

	styled := NewRenderer("notty", false)
	out, err = styled.Render("# Title\n\nbody text")
	require.NoError(t, err)
	assert.Contains(t, out, "Title")
	assert.Contains(t, out, "body text")
}

func TestBackupFileName(t *testing.T) {
	at := time.Date(2024, 2, 3, 4, 5, 6, 0, time.UTC)
	assert.Equal(t, "backup_2024-02-03T04-05-06Z.json", BackupFileName(at))
}

func TestWriteBackup(t *testing.T) {
	ts := sample()
	persons := []string{"JACK"}
	b := models.Backup{
		Transactions: &ts,
		Persons:      &persons,
		Products:     json.RawMessage(`[]`),
		Settings:     &models.Settings{Categories: models.DefaultCategories()},
		Timestamp:    day(5),
	}

	var buf bytes.Buffer
	require.NoError(t, newGenerator(',').WriteBackup(&buf, b))
	assert.Contains(t, buf.String(), "\n  \"transactions\": [")

	var back models.Backup
	require.NoError(t, json.Unmarshal(buf.Bytes(), &back))
	require.NotNil(t, back.Transactions)
	assert.Len(t, *back.Transactions, 4)
	assert.Equal(t, []string{"JACK"}, *back.Persons)
}

func TestTransactionMarkdown(t *testing.T) {
	ts := sample()
	cats := models.DefaultCategories()

	buy := TransactionMarkdown(ts[2], cats, "2006-01-02")
	assert.Contains(t, buy, "# Transaction b1")
	assert.Contains(t, buy, "| order | A-1 |")
	assert.Contains(t, buy, "| category | مواد اولیه |")
	assert.Contains(t, buy, "| status | active |")

	receive := TransactionMarkdown(ts[0], cats, "2006-01-02")
	assert.Contains(t, receive, "| rate | 60,000 |")
	assert.Contains(t, receive, `| description | cash \| bank |`)

	delivery := TransactionMarkdown(ts[3], cats, "2006-01-02")
	assert.Contains(t, delivery, "| weight | 12.5 kg |")
}

func TestListMarkdown(t *testing.T) {
	assert.Equal(t, "# Users\n\n_No users._\n", ListMarkdown("Users", []string{"name"}, nil, "No users."))

	md := ListMarkdown("Users", []string{"name", "role"}, [][]string{{"Amir", "admin"}}, "")
	assert.Contains(t, md, "| name | role |")
	assert.Contains(t, md, "| Amir | admin |")
}
