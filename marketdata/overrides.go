package marketdata

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/etnz/whatif"
)

// Overrides is a manual split table by ticker, for splits a provider misses or
// gets wrong. It is read from JSON:
//
//	{"AAPL": [{"date": "2020-08-31", "factor": 4}]}
type Overrides map[string][]whatif.StockSplit

// LoadOverrides reads an Overrides JSON file.
func LoadOverrides(name string) (Overrides, error) {
	content, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	var o Overrides
	if err := json.Unmarshal(content, &o); err != nil {
		return nil, fmt.Errorf("cannot parse split overrides %s: %w", name, err)
	}
	return o, nil
}

// Apply merges the overrides of ticker into splits. An override replaces the
// provider's split of the same day. The result is a new slice sorted by date, every
// split of it tagged with ticker.
func (o Overrides) Apply(ticker string, splits []whatif.StockSplit) []whatif.StockSplit {
	overrides := o[strings.ToUpper(ticker)]
	merged := make([]whatif.StockSplit, 0, len(splits)+len(overrides))
	for _, s := range splits {
		overridden := slices.ContainsFunc(overrides, func(x whatif.StockSplit) bool { return x.Date == s.Date })
		if !overridden {
			s.Ticker = ticker
			merged = append(merged, s)
		}
	}
	for _, s := range overrides {
		s.Ticker = ticker
		merged = append(merged, s)
	}
	slices.SortStableFunc(merged, func(a, b whatif.StockSplit) int { return strings.Compare(a.Date, b.Date) })
	return merged
}
