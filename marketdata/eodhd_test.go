package marketdata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/etnz/whatif"
	"github.com/etnz/whatif/date"
	"github.com/google/go-cmp/cmp"
)

func newEODHDServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/eod/AAPL.US", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("api_token"); got != "key" {
			t.Errorf("api_token = %q, want %q", got, "key")
		}
		if got := r.URL.Query().Get("from"); got != "2020-08-26" {
			t.Errorf("from = %q, want %q", got, "2020-08-26")
		}
		fmt.Fprint(w, `[
			{"date":"2020-08-27","open":505,"high":510,"low":498,"close":500,"adjusted_close":122.1,"volume":1},
			{"date":"2020-08-31","open":127.58,"high":131,"low":126,"close":129.04,"adjusted_close":126.8,"volume":1}
		]`)
	})
	mux.HandleFunc("/splits/AAPL.US", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"date":"2014-06-09","split":"7.000000/1.000000"},{"date":"2020-08-31","split":"4.000000/1.000000"}]`)
	})
	mux.HandleFunc("/eod/EMPTY.US", func(w http.ResponseWriter, r *http.Request) { fmt.Fprint(w, `[]`) })
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestEODHD_Prices(t *testing.T) {
	srv := newEODHDServer(t)
	e := NewEODHD("key", srv.Client())
	e.baseURL = srv.URL

	rng := date.NewRange(date.New(2020, 8, 26), date.New(2020, 9, 1))
	got, err := e.Prices(context.Background(), "aapl", rng)
	if err != nil {
		t.Fatalf("Prices() error = %v", err)
	}
	want := []whatif.StockPrice{
		{Date: "2020-08-27", Close: 125, High: px(127.5)},
		{Date: "2020-08-31", Close: 129.04, High: px(131)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Prices() mismatch (-want +got):\n%s", diff)
	}

	if _, err := e.Prices(context.Background(), "EMPTY", rng); err == nil {
		t.Error("Prices() of an empty series: want an error")
	}
	if _, err := e.Prices(context.Background(), "NONE", rng); err == nil {
		t.Error("Prices() of an unknown ticker: want an error")
	}
}

func TestEODHD_Splits(t *testing.T) {
	srv := newEODHDServer(t)
	e := NewEODHD("key", srv.Client())
	e.baseURL = srv.URL

	got, err := e.Splits(context.Background(), "AAPL", date.NewRange(date.New(2000, 1, 1), date.New(2025, 1, 1)))
	if err != nil {
		t.Fatalf("Splits() error = %v", err)
	}
	want := []whatif.StockSplit{
		{Date: "2014-06-09", Ticker: "AAPL", Factor: 7},
		{Date: "2020-08-31", Ticker: "AAPL", Factor: 4},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Splits() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRatio(t *testing.T) {
	tests := []struct {
		in      string
		want    float64
		wantErr bool
	}{
		{"4.000000/1.000000", 4, false},
		{"1/2", 0.5, false},
		{"3/2", 1.5, false},
		{"4", 0, true},
		{"a/1", 0, true},
		{"0/1", 0, true},
	}
	for _, tt := range tests {
		got, err := parseRatio(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("parseRatio(%q) = %v, %v, want %v (error: %v)", tt.in, got, err, tt.want, tt.wantErr)
		}
	}
}

func TestEODHDTicker(t *testing.T) {
	tests := map[string]string{
		"AAPL":     "AAPL.US",
		" msft ":   "MSFT.US",
		"BRK.B":    "BRK-B.US",
		"VOD.LSE":  "VOD.LSE",
		"SAP.XETR": "SAP.XETR",
	}
	for in, want := range tests {
		if got := eodhdTicker(in); got != want {
			t.Errorf("eodhdTicker(%q) = %q, want %q", in, got, want)
		}
	}
}
