package importer

import (
	"errors"
	"testing"

	"finboard/backend/models"

	"github.com/xuri/excelize/v2"
)

const statementCSV = `Bank Statement Export
Date,Description,Category,Amount,Type
2025-01-03,Client invoice,Sales,"$4,500.00",income
01/05/2025,Adobe,Software,(52.99),
2025-01-07,Coffee,,-12.5,
,Total,,4434.51,
bad-date,Lunch,Food,10,
2025-01-09,Refund,Misc,abc,
`

func TestParseCSV(t *testing.T) {
	res, err := Parse([]byte(statementCSV), "january.CSV", "")
	if err != nil {
		t.Fatal(err)
	}
	if res.Columns.HeaderRow != 1 || res.Columns.Amount != "Amount" || res.Columns.Note != "Description" {
		t.Fatalf("Columns = %+v", res.Columns)
	}

	want := []struct {
		line     int
		typ      models.TransactionType
		amount   float64
		category string
		date     string
	}{
		{3, models.Income, 4500, "Sales", "2025-01-03"},
		{4, models.Expense, 52.99, "Software", "2025-01-05"},
		{5, models.Expense, 12.5, Uncategorized, "2025-01-07"},
	}
	if len(res.Rows) != len(want) {
		t.Fatalf("got %d rows, want %d: %+v", len(res.Rows), len(want), res.Rows)
	}
	for i, w := range want {
		r := res.Rows[i]
		in := r.Input
		if r.Line != w.line || in.Type != w.typ || in.Amount != w.amount || in.Category != w.category || in.Date != w.date {
			t.Errorf("row %d = line %d %+v, want %+v", i, r.Line, in, w)
		}
		if in.Source != models.SourceImport {
			t.Errorf("row %d source = %q", i, in.Source)
		}
	}

	skipped := map[int]string{}
	for _, s := range res.Skipped {
		skipped[s.Row] = s.Reason
	}
	if skipped[6] != "summary row" {
		t.Errorf("row 6 reason = %q", skipped[6])
	}
	if skipped[7] != `unrecognised date "bad-date"` {
		t.Errorf("row 7 reason = %q", skipped[7])
	}
	if skipped[8] != `unrecognised amount "abc"` {
		t.Errorf("row 8 reason = %q", skipped[8])
	}
	if len(res.Skipped) != 3 {
		t.Errorf("skipped = %+v", res.Skipped)
	}
}

func TestParseDebitCreditColumns(t *testing.T) {
	csv := "Date,Details,Money Out,Money In,Balance\n" +
		"2025-03-01,Stripe payout,,1200,5200\n" +
		"2025-03-02,AWS,89.10,,5110.90\n"
	res, err := Parse([]byte(csv), "march.csv", models.Income)
	if err != nil {
		t.Fatal(err)
	}
	if res.Columns.Debit != "Money Out" || res.Columns.Credit != "Money In" || res.Columns.Amount != "" {
		t.Fatalf("Columns = %+v", res.Columns)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %+v skipped = %+v", res.Rows, res.Skipped)
	}
	if in := res.Rows[0].Input; in.Type != models.Income || in.Amount != 1200 || in.Note != "Stripe payout" {
		t.Errorf("credit row = %+v", in)
	}
	if in := res.Rows[1].Input; in.Type != models.Expense || in.Amount != 89.1 {
		t.Errorf("debit row = %+v", in)
	}
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows := [][]interface{}{
		{"Date", "Memo", "Amount"},
		{"2025-02-03", "Consulting retainer", 3000},
		{45689, "Workshop", 750.5},
	}
	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatal(err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	res, err := Parse(buf.Bytes(), "feb.xlsx", models.Income)
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Rows) != 2 {
		t.Fatalf("rows = %+v skipped = %+v", res.Rows, res.Skipped)
	}
	first, second := res.Rows[0].Input, res.Rows[1].Input
	if first.Type != models.Income || first.Amount != 3000 || first.Category != Uncategorized || first.Note != "Consulting retainer" {
		t.Errorf("first = %+v", first)
	}
	if second.Date != "2025-02-01" || second.Amount != 750.5 {
		t.Errorf("second = %+v", second)
	}
}

func TestParseErrors(t *testing.T) {
	if _, err := Parse([]byte("x"), "statement.pdf", ""); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("pdf: %v", err)
	}
	if _, err := Parse([]byte(""), "empty.csv", ""); !errors.Is(err, ErrEmptyFile) {
		t.Errorf("empty: %v", err)
	}
	if _, err := Parse([]byte("Date,Memo\n2025-01-01,hello\n"), "a.csv", ""); !errors.Is(err, ErrNoAmountColumn) {
		t.Errorf("no amount: %v", err)
	}
}

func TestToNumeric(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,234.50", 1234.5, true},
		{"$-12", -12, true},
		{"(40.00)", -40, true},
		{"USD 9", 9, true},
		{"n/a", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := toNumeric(tt.in)
		if ok != tt.ok || got != tt.want {
			t.Errorf("toNumeric(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestPickColumnPrefersExactMatch(t *testing.T) {
	headers := []string{"Transaction Amount", "Amount"}
	if got := pickColumn(headers, amountKeywords, map[string]bool{}); got != "Amount" {
		t.Fatalf("pickColumn = %q", got)
	}
	if got := pickColumn(headers, amountKeywords, map[string]bool{"Amount": true}); got != "Transaction Amount" {
		t.Fatalf("pickColumn with used = %q", got)
	}
}
