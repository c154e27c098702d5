package ingest

import (
	"strings"

	"github.com/etnz/whatif"
)

// Dialect names the brokerage export format of a file.
type Dialect string

const (
	Generic   Dialect = "generic"
	Schwab    Dialect = "schwab"
	Fidelity  Dialect = "fidelity"
	Robinhood Dialect = "robinhood"
)

// dialect describes how to recognize and read one export format.
type dialect struct {
	name Dialect
	// markers are the columns whose presence identifies the dialect.
	markers  []string
	required []string
	// parse turns a data row into an entry, or reports that the row is skipped.
	parse func(row) (entry, bool)
}

// dialects are probed in order, the most specific first.
var dialects = []dialect{
	{
		name:     Fidelity,
		markers:  []string{"run date"},
		required: []string{"run date", "action", "symbol", "quantity", "price ($)", "amount ($)"},
		parse:    parseFidelity,
	},
	{
		name:     Robinhood,
		markers:  []string{"trans code"},
		required: []string{"activity date", "instrument", "trans code", "quantity", "price", "amount"},
		parse:    parseRobinhood,
	},
	{
		name:     Schwab,
		markers:  []string{"action", "fees & comm"},
		required: []string{"date", "action", "symbol", "quantity", "price", "amount"},
		parse:    parseSchwab,
	},
	{
		name:     Generic,
		markers:  []string{"type"},
		required: []string{"date", "type"},
		parse:    parseGeneric,
	},
}

// detect returns the first dialect whose markers are all present in cols, or nil.
func detect(cols map[string]int) *dialect {
	for i := range dialects {
		d := &dialects[i]
		found := true
		for _, m := range d.markers {
			if _, ok := cols[m]; !ok {
				found = false
				break
			}
		}
		if found {
			return d
		}
	}
	return nil
}

// parseGeneric reads the generic dialect: date,type,ticker,shares,price,amount.
func parseGeneric(r row) (entry, bool) {
	day, ok := parseDay(r.get("date"))
	if !ok {
		return entry{}, false
	}
	typ := strings.ReplaceAll(strings.ToLower(r.get("type")), " ", "_")
	switch typ {
	case string(whatif.Buy), string(whatif.Sell):
		shares, ok := parseNumber(r.get("shares"))
		if !ok {
			return entry{}, false
		}
		return tradeEntry(whatif.Side(typ), r.get("ticker"), day, shares, optionalPrice(r.get("price")))
	case string(whatif.Deposit), string(whatif.Dividend), string(whatif.CapitalGain), string(whatif.Interest):
		amount, ok := parseNumber(r.get("amount"))
		if !ok {
			return entry{}, false
		}
		return cashFlowEntry(whatif.CashFlowType(typ), r.get("ticker"), day, amount)
	}
	return entry{}, false
}

// parseSchwab reads Schwab's transaction history export.
func parseSchwab(r row) (entry, bool) {
	day, ok := parseDay(r.get("date"))
	if !ok {
		return entry{}, false
	}
	symbol := r.get("symbol")
	amount, _ := parseNumber(r.get("amount"))

	switch strings.ToLower(r.get("action")) {
	case "buy", "reinvest shares":
		return schwabTrade(r, whatif.Buy, day)
	case "sell":
		return schwabTrade(r, whatif.Sell, day)
	case "qualified dividend", "cash dividend", "non-qualified div", "reinvest dividend", "special dividend", "pr yr cash div":
		return cashFlowEntry(whatif.Dividend, symbol, day, amount)
	case "long term cap gain", "short term cap gain", "cash in lieu":
		return cashFlowEntry(whatif.CapitalGain, symbol, day, amount)
	case "credit interest", "bank interest", "bond interest":
		return cashFlowEntry(whatif.Interest, symbol, day, amount)
	case "moneylink transfer", "moneylink deposit", "wire funds received", "funds received", "journal":
		// a journal with a symbol moves shares, and a negative transfer is a withdrawal
		if symbol != "" || amount <= 0 {
			return entry{}, false
		}
		return cashFlowEntry(whatif.Deposit, "", day, amount)
	}
	return entry{}, false
}

func schwabTrade(r row, side whatif.Side, day string) (entry, bool) {
	shares, ok := parseNumber(r.get("quantity"))
	if !ok {
		return entry{}, false
	}
	return tradeEntry(side, r.get("symbol"), day, shares, optionalPrice(r.get("price")))
}

// parseFidelity reads Fidelity's account history export, where the action is a
// free text description.
func parseFidelity(r row) (entry, bool) {
	day, ok := parseDay(r.get("run date"))
	if !ok {
		return entry{}, false
	}
	symbol := r.get("symbol")
	action := strings.ToUpper(r.get("action"))
	amount, _ := parseNumber(r.get("amount ($)"))

	has := func(words ...string) bool {
		for _, w := range words {
			if strings.Contains(action, w) {
				return true
			}
		}
		return false
	}

	switch {
	case has("YOU BOUGHT", "REINVESTMENT"):
		return fidelityTrade(r, whatif.Buy, day)
	case has("YOU SOLD"):
		return fidelityTrade(r, whatif.Sell, day)
	case has("DIVIDEND RECEIVED"):
		return cashFlowEntry(whatif.Dividend, symbol, day, amount)
	case has("LONG-TERM CAP GAIN", "SHORT-TERM CAP GAIN"):
		return cashFlowEntry(whatif.CapitalGain, symbol, day, amount)
	case has("INTEREST EARNED"):
		return cashFlowEntry(whatif.Interest, symbol, day, amount)
	case has("ELECTRONIC FUNDS TRANSFER RECEIVED", "CASH CONTRIBUTION", "DIRECT DEPOSIT", "TRANSFERRED FROM"):
		if amount <= 0 {
			return entry{}, false
		}
		return cashFlowEntry(whatif.Deposit, "", day, amount)
	}
	return entry{}, false
}

func fidelityTrade(r row, side whatif.Side, day string) (entry, bool) {
	shares, ok := parseNumber(r.get("quantity"))
	if !ok {
		return entry{}, false
	}
	return tradeEntry(side, r.get("symbol"), day, shares, optionalPrice(r.get("price ($)")))
}

// parseRobinhood reads Robinhood's activity report, keyed by transaction codes.
func parseRobinhood(r row) (entry, bool) {
	day, ok := parseDay(r.get("activity date"))
	if !ok {
		return entry{}, false
	}
	instrument := r.get("instrument")
	amount, _ := parseNumber(r.get("amount"))

	switch strings.ToUpper(r.get("trans code")) {
	case "BUY":
		return robinhoodTrade(r, whatif.Buy, day)
	case "SELL":
		return robinhoodTrade(r, whatif.Sell, day)
	case "CDIV", "MDIV":
		return cashFlowEntry(whatif.Dividend, instrument, day, amount)
	case "INT":
		return cashFlowEntry(whatif.Interest, "", day, amount)
	case "ACH", "RTP", "DCF":
		if amount <= 0 {
			return entry{}, false
		}
		return cashFlowEntry(whatif.Deposit, "", day, amount)
	}
	return entry{}, false
}

func robinhoodTrade(r row, side whatif.Side, day string) (entry, bool) {
	shares, ok := parseNumber(r.get("quantity"))
	if !ok {
		return entry{}, false
	}
	return tradeEntry(side, r.get("instrument"), day, shares, optionalPrice(r.get("price")))
}
