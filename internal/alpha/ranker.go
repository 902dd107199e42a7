// Package alpha ranks symbols by a momentum/volatility composite score and
// selects the top candidates for one analysis date.
package alpha

import (
	"sort"
	"time"

	"github.com/XanthanL/ashare-quant/internal/factor"
	"github.com/XanthanL/ashare-quant/pkg/types"
)

// Candidate is one ranked symbol in a selection.
type Candidate struct {
	Symbol       string
	Momentum20   float64
	Volatility20 float64
	Score        float64
}

// Selection is the ordered result of one ranking call. Candidates holds at
// most the requested top-k symbols, best (lowest) score first. An empty
// Candidates slice is a normal outcome when no analysis date qualifies.
type Selection struct {
	AnalysisDate time.Time
	Candidates   []Candidate
}

// Empty reports whether the selection holds no candidates.
func (s Selection) Empty() bool {
	return len(s.Candidates) == 0
}

// Symbols returns the selected symbols in rank order.
func (s Selection) Symbols() []string {
	out := make([]string, len(s.Candidates))
	for i, c := range s.Candidates {
		out[i] = c.Symbol
	}
	return out
}

// Contains reports whether symbol is part of the selection.
func (s Selection) Contains(symbol string) bool {
	for _, c := range s.Candidates {
		if c.Symbol == symbol {
			return true
		}
	}
	return false
}

// Select ranks the factor panel as of asOf and returns the topK
// lowest-scoring symbols.
//
// Rows dated after asOf are ignored, so passing excess data never leaks
// future information into the result. The analysis date is the latest date
// on or before asOf with at least one fully defined row; if none exists the
// selection is empty. Momentum is ranked descending, volatility ascending,
// ties receive the average of their rank positions, and the composite score
// is the equal-weighted mean of the two ranks. Final ordering ties are
// broken by the panel's original row order, which makes the result
// deterministic for identical inputs.
func Select(fp *factor.Panel, topK int, asOf time.Time) Selection {
	if fp == nil || topK <= 0 {
		return Selection{}
	}
	asOf = types.Day(asOf)

	var analysisDate time.Time
	for _, row := range fp.Rows {
		if row.Date.After(asOf) || !row.Defined() {
			continue
		}
		if row.Date.After(analysisDate) {
			analysisDate = row.Date
		}
	}
	if analysisDate.IsZero() {
		return Selection{}
	}

	var candidates []Candidate
	for _, row := range fp.Rows {
		if !row.Date.Equal(analysisDate) || !row.Defined() {
			continue
		}
		candidates = append(candidates, Candidate{
			Symbol:       row.Symbol,
			Momentum20:   row.Momentum20,
			Volatility20: row.Volatility20,
		})
	}

	momentums := make([]float64, len(candidates))
	vols := make([]float64, len(candidates))
	for i, c := range candidates {
		momentums[i] = c.Momentum20
		vols[i] = c.Volatility20
	}
	momRanks := averageRanks(momentums, false)
	volRanks := averageRanks(vols, true)
	for i := range candidates {
		candidates[i].Score = 0.5*momRanks[i] + 0.5*volRanks[i]
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score < candidates[j].Score
	})
	if len(candidates) > topK {
		candidates = candidates[:topK]
	}
	return Selection{AnalysisDate: analysisDate, Candidates: candidates}
}

// averageRanks assigns 1-based rank positions to vals, ascending or
// descending, with tied values sharing the average of their positions.
func averageRanks(vals []float64, ascending bool) []float64 {
	idx := make([]int, len(vals))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		if ascending {
			return vals[idx[a]] < vals[idx[b]]
		}
		return vals[idx[a]] > vals[idx[b]]
	})

	ranks := make([]float64, len(vals))
	for i := 0; i < len(idx); {
		j := i
		for j+1 < len(idx) && vals[idx[j+1]] == vals[idx[i]] {
			j++
		}
		avg := (float64(i+1) + float64(j+1)) / 2
		for k := i; k <= j; k++ {
			ranks[idx[k]] = avg
		}
		i = j + 1
	}
	return ranks
}
