package whatif

import (
	"time"
	_ "time/tzdata" // the market time zone must resolve on hosts without a tz database

	"github.com/etnz/whatif/date"
)

// MarketTimeZone is the reference time zone of market days.
const MarketTimeZone = "America/New_York"

// MarketCloseHour is the hour, in MarketTimeZone, at which the day's closing price
// is published.
const MarketCloseHour = 16

var marketLocation = func() *time.Location {
	loc, err := time.LoadLocation(MarketTimeZone)
	if err != nil {
		return time.FixedZone("EST", -5*60*60)
	}
	return loc
}()

// DateRange returns the range of days to request from a market-data provider for
// trades, see DateRangeAt.
func DateRange(trades []Trade) date.Range { return DateRangeAt(trades, time.Now()) }

// DateRangeAt returns the range of days to request for trades at instant now.
//
// The range ends today in MarketTimeZone, or tomorrow once the market has closed so
// that a request issued after the close includes the day's closing price. It starts
// at the earliest trade date, or one year before its end when there is no trade.
func DateRangeAt(trades []Trade, now time.Time) date.Range {
	end := date.In(now, marketLocation)
	if now.In(marketLocation).Hour() >= MarketCloseHour {
		end = end.Add(1)
	}

	earliest := ""
	for _, t := range trades {
		if t.Date != "" && (earliest == "" || t.Date < earliest) {
			earliest = t.Date
		}
	}
	if earliest == "" {
		return date.NewRange(end.AddYear(-1), end)
	}
	from, err := date.Parse(earliest)
	if err != nil {
		return date.NewRange(end.AddYear(-1), end)
	}
	return date.NewRange(from, end)
}
