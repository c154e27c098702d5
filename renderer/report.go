package renderer

import "github.com/etnz/whatif"

// Options tunes the report.
type Options struct {
	Title string
	// Index is the ticker of the index the portfolio is compared with.
	Index string
	// Period describes the date range of the report, if not empty.
	Period string
	// Every samples the time series: one emitted day out of Every is shown, the
	// last one always is. Zero or one shows every day.
	Every int
}

// report is the data of the report template.
type report struct {
	Title     string
	Index     string
	Period    string
	Summary   whatif.SummaryData
	Breakdown []whatif.StockBreakdownData
	Series    []whatif.PortfolioDataPoint
}

// Report renders the summary, the per-ticker breakdown and the time series.
func Report(points []whatif.PortfolioDataPoint, breakdown []whatif.StockBreakdownData, summary whatif.SummaryData, opts Options) string {
	r := report{
		Title:     opts.Title,
		Index:     opts.Index,
		Period:    opts.Period,
		Summary:   summary,
		Breakdown: breakdown,
		Series:    sample(points, opts.Every),
	}
	if r.Index == "" {
		r.Index = "the index"
	}
	if r.Title == "" {
		r.Title = "What if you had bought " + r.Index + " instead?"
	}
	partials := map[string]string{
		"report_title":     "report_title.md",
		"report_summary":   "report_summary.md",
		"report_breakdown": "report_breakdown.md",
		"report_series":    "report_series.md",
	}
	return renderTemplate("report", "report.md", partials, r)
}

// sample keeps one point out of every, and the last one.
func sample(points []whatif.PortfolioDataPoint, every int) []whatif.PortfolioDataPoint {
	if every <= 1 {
		return points
	}
	sampled := make([]whatif.PortfolioDataPoint, 0, len(points)/every+1)
	for i, p := range points {
		if i%every == 0 || i == len(points)-1 {
			sampled = append(sampled, p)
		}
	}
	return sampled
}
