// Package importer turns uploaded bank or bookkeeping exports (.csv, .xlsx)
// into transaction inputs.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"finboard/backend/models"

	"github.com/xuri/excelize/v2"
)

const (
	headerScanRows = 5
	Uncategorized  = "Uncategorized"
	maxCategoryLen = 100
	maxNoteLen     = 500
)

var (
	ErrUnsupportedFormat = errors.New("unsupported file type, upload .csv or .xlsx")
	ErrNoAmountColumn    = errors.New("could not find an amount column")
	ErrEmptyFile         = errors.New("file has no rows")
)

// Columns records which header names were matched to which field. Empty
// means the file has no such column.
type Columns struct {
	HeaderRow int    `json:"headerRow"`
	Date      string `json:"date,omitempty"`
	Amount    string `json:"amount,omitempty"`
	Debit     string `json:"debit,omitempty"`
	Credit    string `json:"credit,omitempty"`
	Category  string `json:"category,omitempty"`
	Type      string `json:"type,omitempty"`
	Note      string `json:"note,omitempty"`
}

// Row is one parsed line with its 1-based position in the file.
type Row struct {
	Line  int
	Input models.TransactionInput
}

type Skipped struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

type Result struct {
	Columns Columns
	Rows    []Row
	Skipped []Skipped
}

// Parse reads a statement file. Rows without an explicit type take
// defaultType unless the amount is negative; an empty defaultType means
// expense.
func Parse(content []byte, filename string, defaultType models.TransactionType) (Result, error) {
	rows, err := ReadRows(content, strings.ToLower(filepath.Ext(filename)))
	if err != nil {
		return Result{}, err
	}
	if len(rows) == 0 {
		return Result{}, ErrEmptyFile
	}
	cols, err := DetectColumns(rows)
	if err != nil {
		return Result{}, err
	}
	if defaultType == "" {
		defaultType = models.Expense
	}

	headers := normalizeHeaders(rows, cols.HeaderRow)
	res := Result{Columns: cols, Rows: []Row{}, Skipped: []Skipped{}}
	for i := cols.HeaderRow + 1; i < len(rows); i++ {
		rec := record(rows[i], headers)
		if blank(rec) {
			continue
		}
		in, reason := cols.toInput(rec, defaultType)
		if reason != "" {
			res.Skipped = append(res.Skipped, Skipped{Row: i + 1, Reason: reason})
			continue
		}
		res.Rows = append(res.Rows, Row{Line: i + 1, Input: in})
	}
	return res, nil
}

// ReadRows loads every row of a CSV file or of the first sheet of a
// workbook.
func ReadRows(content []byte, ext string) ([][]string, error) {
	switch ext {
	case ".csv":
		r := csv.NewReader(bytes.NewReader(content))
		r.FieldsPerRecord = -1
		r.TrimLeadingSpace = true
		return r.ReadAll()
	case ".xlsx", ".xlsm":
		f, err := excelize.OpenReader(bytes.NewReader(content))
		if err != nil {
			return nil, err
		}
		defer f.Close()
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return [][]string{}, nil
		}
		rs, err := f.Rows(sheets[0])
		if err != nil {
			return nil, err
		}
		defer rs.Close()
		rows := [][]string{}
		for rs.Next() {
			r, err := rs.Columns()
			if err != nil {
				return nil, err
			}
			rows = append(rows, r)
		}
		return rows, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

var (
	dateKeywords     = []string{"date", "posted", "posting date", "transaction date", "value date", "booked"}
	amountKeywords   = []string{"amount", "amt", "net amount", "value", "sum", "total"}
	debitKeywords    = []string{"debit", "withdrawal", "withdrawals", "money out", "paid out"}
	creditKeywords   = []string{"credit", "deposit", "deposits", "money in", "paid in"}
	categoryKeywords = []string{"category", "class", "group", "account"}
	typeKeywords     = []string{"type", "transaction type", "dr/cr", "direction"}
	noteKeywords     = []string{"description", "memo", "note", "notes", "details", "narration", "payee", "merchant"}
)

// DetectColumns finds the header row among the first five rows (the one
// with the highest share of alphabetic cells, at least half; ties go to the
// wider row) and maps headers to fields by keyword.
func DetectColumns(rows [][]string) (Columns, error) {
	headerIdx := -1
	best, bestCount := -1.0, 0
	for i, r := range rows {
		if i >= headerScanRows {
			break
		}
		nonEmpty, alpha := 0, 0
		for _, v := range r {
			t := strings.TrimSpace(v)
			if t == "" {
				continue
			}
			nonEmpty++
			if hasLetter(t) {
				alpha++
			}
		}
		if nonEmpty == 0 {
			continue
		}
		score := float64(alpha) / float64(nonEmpty)
		if score >= 0.5 && (score > best || (score == best && nonEmpty > bestCount)) {
			best, bestCount = score, nonEmpty
			headerIdx = i
		}
	}
	if headerIdx == -1 {
		headerIdx = 0
	}

	headers := normalizeHeaders(rows, headerIdx)
	used := map[string]bool{}
	pick := func(keywords []string) string {
		h := pickColumn(headers, keywords, used)
		if h != "" {
			used[h] = true
		}
		return h
	}

	cols := Columns{HeaderRow: headerIdx}
	cols.Date = pick(dateKeywords)
	cols.Type = pick(typeKeywords)
	cols.Debit = pick(debitKeywords)
	cols.Credit = pick(creditKeywords)
	cols.Amount = pick(amountKeywords)
	cols.Category = pick(categoryKeywords)
	cols.Note = pick(noteKeywords)

	if cols.Amount == "" && cols.Debit == "" && cols.Credit == "" {
		return cols, ErrNoAmountColumn
	}
	return cols, nil
}

func (c Columns) toInput(rec map[string]string, defaultType models.TransactionType) (models.TransactionInput, string) {
	if looksLikeSummary(rec, c) {
		return models.TransactionInput{}, "summary row"
	}

	amount, typ, reason := c.amountAndType(rec, defaultType)
	if reason != "" {
		return models.TransactionInput{}, reason
	}

	var date string
	if c.Date != "" {
		raw := rec[c.Date]
		if raw == "" {
			return models.TransactionInput{}, "missing date"
		}
		d, err := parseDate(raw)
		if err != nil {
			return models.TransactionInput{}, fmt.Sprintf("unrecognised date %q", raw)
		}
		date = d.Format("2006-01-02")
	}

	category := truncate(rec[c.Category], maxCategoryLen)
	if category == "" {
		category = Uncategorized
	}

	return models.TransactionInput{
		Type:     typ,
		Amount:   amount,
		Category: category,
		Date:     date,
		Note:     truncate(rec[c.Note], maxNoteLen),
		Source:   models.SourceImport,
	}, ""
}

func (c Columns) amountAndType(rec map[string]string, defaultType models.TransactionType) (float64, models.TransactionType, string) {
	var amount float64
	typ := models.TransactionType("")

	switch {
	case c.Amount != "" && rec[c.Amount] != "":
		v, ok := toNumeric(rec[c.Amount])
		if !ok {
			return 0, "", fmt.Sprintf("unrecognised amount %q", rec[c.Amount])
		}
		amount = v
	case c.Credit != "" && rec[c.Credit] != "":
		v, ok := toNumeric(rec[c.Credit])
		if !ok {
			return 0, "", fmt.Sprintf("unrecognised amount %q", rec[c.Credit])
		}
		amount, typ = math.Abs(v), models.Income
	case c.Debit != "" && rec[c.Debit] != "":
		v, ok := toNumeric(rec[c.Debit])
		if !ok {
			return 0, "", fmt.Sprintf("unrecognised amount %q", rec[c.Debit])
		}
		amount, typ = math.Abs(v), models.Expense
	default:
		return 0, "", "missing amount"
	}

	if c.Type != "" {
		if t, ok := classifyType(rec[c.Type]); ok {
			typ = t
		}
	}
	if typ == "" {
		typ = defaultType
		if amount < 0 {
			typ = models.Expense
		}
	}

	amount = math.Round(math.Abs(amount)*100) / 100
	if amount == 0 {
		return 0, "", "amount is zero"
	}
	return amount, typ, ""
}

func classifyType(s string) (models.TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "income", "credit", "cr", "deposit", "in", "inflow", "revenue", "sale", "sales":
		return models.Income, true
	case "expense", "debit", "dr", "withdrawal", "out", "outflow", "payment", "purchase":
		return models.Expense, true
	}
	return "", false
}

var dateLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01/02/06",
	"1/2/06",
	"2006/01/02",
	"01-02-06",
	"02 Jan 2006",
	"2 Jan 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2006-01-02 15:04:05",
}

// parseDate accepts ISO dates, common US statement formats and Excel
// serial numbers.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := models.ParseDate(s); err == nil {
		return t, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised date %q", s)
}

// toNumeric strips currency symbols and grouping. Parentheses or a
// leading minus mean negative.
func toNumeric(s string) (float64, bool) {
	t := strings.TrimSpace(s)
	if t == "" {
		return 0, false
	}
	neg := strings.HasPrefix(t, "(") && strings.HasSuffix(t, ")")
	cleaned := make([]rune, 0, len(t))
	for _, ch := range t {
		if (ch >= '0' && ch <= '9') || ch == '.' || ch == '-' {
			cleaned = append(cleaned, ch)
		}
	}
	if len(cleaned) == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(cleaned), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if neg {
		f = -math.Abs(f)
	}
	return f, true
}

func hasLetter(s string) bool {
	for _, ch := range s {
		if (ch >= 'A' && ch <= 'Z') || (ch >= 'a' && ch <= 'z') {
			return true
		}
	}
	return false
}

func normalizeHeaders(rows [][]string, headerIdx int) []string {
	if headerIdx < 0 || headerIdx >= len(rows) {
		return nil
	}
	raw := rows[headerIdx]
	headers := make([]string, len(raw))
	for i, v := range raw {
		t := strings.TrimSpace(v)
		if t == "" {
			t = "Col" + strconv.Itoa(i)
		}
		headers[i] = t
	}
	return headers
}

// pickColumn prefers an exact header match over a substring match and
// never returns a header already in used.
func pickColumn(headers, keywords []string, used map[string]bool) string {
	for _, k := range keywords {
		for _, h := range headers {
			if !used[h] && strings.EqualFold(h, k) {
				return h
			}
		}
	}
	for _, k := range keywords {
		lk := strings.ToLower(k)
		for _, h := range headers {
			if !used[h] && strings.Contains(strings.ToLower(h), lk) {
				return h
			}
		}
	}
	return ""
}

func record(r []string, headers []string) map[string]string {
	m := make(map[string]string, len(headers))
	for j, h := range headers {
		if j < len(r) {
			m[h] = strings.TrimSpace(r[j])
		} else {
			m[h] = ""
		}
	}
	return m
}

func blank(rec map[string]string) bool {
	for _, v := range rec {
		if v != "" {
			return false
		}
	}
	return true
}

var totalRegex = regexp.MustCompile(`(?i)\b(grand\s*)?sub\s*total\b|\bgrand\s*total\b|\btotal\b|\bclosing balance\b|\bopening balance\b`)

// looksLikeSummary flags subtotal and balance lines, which carry no date.
func looksLikeSummary(rec map[string]string, c Columns) bool {
	if c.Date != "" && rec[c.Date] != "" {
		return false
	}
	for h, v := range rec {
		if h == c.Amount || h == c.Debit || h == c.Credit {
			continue
		}
		if totalRegex.MatchString(v) {
			return true
		}
	}
	return false
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) > n {
		r = r[:n]
	}
	return strings.TrimSpace(string(r))
}
