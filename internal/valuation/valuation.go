// Package valuation scores fundamental ratios into a categorical
// assessment. Each rule fires only when its ratio is disclosed.
package valuation

import (
	"smartinvest/internal/types"
)

// Assessment thresholds on the accumulated score.
const (
	undervaluedAt = 2
	overvaluedAt  = -2
)

// Score applies the ratio rule set and returns the summary. A fault
// during scoring degrades to an "unknown" assessment with a single
// insufficient-data signal; it never propagates.
func Score(f types.Fundamentals) (summary types.ValuationSummary) {
	defer func() {
		if r := recover(); r != nil {
			summary = types.ValuationSummary{
				Assessment: types.ValueUnknown,
				Score:      0,
				Signals:    []string{"Insufficient data for valuation analysis"},
			}
		}
	}()

	score := 0
	signals := []string{}

	if pe := f.TrailingPE; pe != nil {
		if *pe < 15 {
			signals = append(signals, "Low P/E suggests undervaluation")
			score++
		} else if *pe > 25 {
			signals = append(signals, "High P/E suggests overvaluation")
			score--
		}
	}

	if pb := f.PriceToBook; pb != nil {
		if *pb < 1.5 {
			signals = append(signals, "Low P/B suggests good value")
			score++
		} else if *pb > 3 {
			signals = append(signals, "High P/B suggests premium valuation")
			score--
		}
	}

	if roe := f.ReturnOnEquity; roe != nil {
		if *roe > 0.15 {
			signals = append(signals, "Strong return on equity")
			score++
		} else if *roe < 0.10 {
			signals = append(signals, "Weak return on equity")
			score--
		}
	}

	assessment := types.FairlyValued
	if score >= undervaluedAt {
		assessment = types.Undervalued
	} else if score <= overvaluedAt {
		assessment = types.Overvalued
	}

	return types.ValuationSummary{
		Assessment: assessment,
		Score:      score,
		Signals:    signals,
	}
}
