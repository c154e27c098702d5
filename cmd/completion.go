package cmd

import (
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

var (
	predictCSV   = predict.Files("*.csv")
	predictIndex = predict.Set{"SPY", "QQQ", "VTI", "DIA", "IWM"}
)

// ledgerCompletion completes the flags of ledgerFlags.
func ledgerCompletion(extra map[string]complete.Predictor) map[string]complete.Predictor {
	flags := map[string]complete.Predictor{
		"t":         predictCSV,
		"index":     predictIndex,
		"overrides": predict.Files("*.json"),
		"j":         predict.Nothing,
	}
	for k, v := range extra {
		flags[k] = v
	}
	return flags
}

// Completion describes the command line for shell completion.
func Completion() *complete.Command {
	return &complete.Command{
		Flags: map[string]complete.Predictor{"v": predict.Nothing},
		Sub: map[string]*complete.Command{
			"report": {Flags: ledgerCompletion(map[string]complete.Predictor{
				"json":  predict.Nothing,
				"every": predict.Nothing,
			})},
			"series": {Flags: ledgerCompletion(map[string]complete.Predictor{
				"format": predict.Set{"csv", "json"},
			})},
			"range": {Flags: map[string]complete.Predictor{
				"t":    predictCSV,
				"json": predict.Nothing,
			}},
			"merge": {
				Flags: map[string]complete.Predictor{"o": predictCSV},
				Args:  predictCSV,
			},
			"help":     {},
			"commands": {},
			"flags":    {},
		},
	}
}
