// Package ingest reads brokerage CSV exports into trades and cash flows.
//
// The dialect of a file is detected from its header row. Rows that describe
// something the counterfactual engines do not model (fees, withdrawals, share
// journals, ...) are counted as skipped and dropped, so that a file is only rejected
// when it lacks the columns its dialect requires.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/etnz/whatif"
	"github.com/etnz/whatif/date"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrUnknownFormat is returned when no dialect recognizes the header row.
var ErrUnknownFormat = errors.New("unknown csv format")

// MissingColumnsError reports the required columns absent from a file whose
// dialect was recognized.
type MissingColumnsError struct {
	Dialect Dialect
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s export is missing required columns: %s", e.Dialect, strings.Join(e.Columns, ", "))
}

// Import is the content of one export file.
type Import struct {
	Dialect   Dialect
	Trades    []whatif.Trade
	CashFlows []whatif.CashFlow
	// Skipped counts the data rows that were not turned into a trade or a cash flow.
	Skipped int
}

// ReadFile opens and reads the export file 'name'.
func ReadFile(name string) (*Import, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	imp, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return imp, nil
}

// Read reads a CSV export and detects its dialect from the header row.
func Read(r io.Reader) (*Import, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1 // exports carry preambles and disclaimers of any width
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	var header []string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			return nil, ErrUnknownFormat
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read csv header: %w", err)
		}
		if len(rec) > 1 {
			header = rec
			break
		}
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = columnName(name)
		if _, exists := cols[name]; !exists {
			cols[name] = i
		}
	}

	d := detect(cols)
	if d == nil {
		return nil, ErrUnknownFormat
	}
	var missing []string
	for _, name := range d.required {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingColumnsError{Dialect: d.name, Columns: missing}
	}

	imp := &Import{Dialect: d.name}
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("cannot read csv: %w", err)
		}
		if len(rec) < len(header) {
			imp.Skipped++
			continue
		}
		e, ok := d.parse(row{cols: cols, fields: rec})
		switch {
		case !ok:
			imp.Skipped++
		case e.trade != nil:
			e.trade.ID = uuid.NewString()
			imp.Trades = append(imp.Trades, *e.trade)
		case e.cashFlow != nil:
			e.cashFlow.ID = uuid.NewString()
			imp.CashFlows = append(imp.CashFlows, *e.cashFlow)
		}
	}
	return imp, nil
}

// columnName is the canonical form of a header cell: lower case, single spaced.
func columnName(s string) string {
	s = strings.TrimPrefix(s, "\ufeff")
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// row gives access to the fields of a record by column name.
type row struct {
	cols   map[string]int
	fields []string
}

// get returns the trimmed field of column 'name', or "" if there is no such column.
func (r row) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.fields) {
		return ""
	}
	return strings.TrimSpace(r.fields[i])
}

// entry is what a row turns into: exactly one of trade and cashFlow is set.
type entry struct {
	trade    *whatif.Trade
	cashFlow *whatif.CashFlow
}

func tradeEntry(side whatif.Side, ticker, day string, shares float64, price *float64) (entry, bool) {
	ticker = normalizeTicker(ticker)
	if ticker == "" || shares == 0 {
		return entry{}, false
	}
	if shares < 0 {
		shares = -shares
	}
	return entry{trade: &whatif.Trade{
		Ticker: ticker,
		Date:   day,
		Shares: shares,
		Price:  price,
		Side:   side,
	}}, true
}

// cashFlowEntry drops zero and negative amounts, such as dividend reversals.
func cashFlowEntry(typ whatif.CashFlowType, ticker, day string, amount float64) (entry, bool) {
	if amount <= 0 {
		return entry{}, false
	}
	return entry{cashFlow: &whatif.CashFlow{
		Date:   day,
		Amount: amount,
		Type:   typ,
		Ticker: normalizeTicker(ticker),
	}}, true
}

func normalizeTicker(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// parseDay returns the ISO-8601 form of a date written either as YYYY-MM-DD or as
// MM/DD/YYYY. Schwab's "MM/DD/YYYY as of MM/DD/YYYY" keeps the first date.
func parseDay(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if before, _, found := strings.Cut(s, " as of "); found {
		s = strings.TrimSpace(before)
	}
	if s == "" {
		return "", false
	}
	if strings.Contains(s, "/") {
		t, err := time.Parse("1/2/2006", s)
		if err != nil {
			return "", false
		}
		return date.New(t.Date()).String(), true
	}
	day, err := date.Normalize(s)
	if err != nil {
		return "", false
	}
	return day, true
}

// parseNumber reads amounts as brokers write them: "$1,234.50", "-3", "(12.00)".
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}
	s = strings.NewReplacer("$", "", ",", "", " ", "", "+", "").Replace(s)
	if s == "" || s == "--" {
		return 0, false
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, false
	}
	if negative {
		d = d.Neg()
	}
	return d.InexactFloat64(), true
}

// optionalPrice returns nil for an empty, unreadable or negative price. A price of
// zero is a real fill, as in the cash-less leg of a split.
func optionalPrice(s string) *float64 {
	p, ok := parseNumber(s)
	if !ok || p < 0 {
		return nil
	}
	return &p
}
