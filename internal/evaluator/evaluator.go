// Package evaluator walks one individual's graph-program over every
// record in a dataset's safe range and accumulates the per-depth
// statistics the quality predicate needs.
//
// The attribute/lag chain a start node walks through is independent of
// the data: g_next always targets a judgement node, so depth d's node
// is fixed by the genes alone, regardless of which branch (Yes/No/
// missing) any particular record takes. The chain is therefore
// precomputed once per (individual, start node) and then replayed
// against every record, instead of re-walking the gene graph per
// record.
package evaluator

import (
	"math"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
)

// step is one precomputed link in a start node's judgement chain.
type step struct {
	attr int // 0-based attribute column index
	lag  int
}

// Cell is the per-(start node, depth) accumulator.
type Cell struct {
	MatchCount int
	EvalCount  int

	SumX1   float64
	SumX1Sq float64
	// SumX2/SumX2Sq are populated only when the run uses the dual
	// future-horizon (Dialect B).
	SumX2   float64
	SumX2Sq float64

	MatchedIndices []int

	// Attr/Lag label this depth's judgement node; meaningless at
	// depth 0.
	Attr int
	Lag  int
}

// Mean1 returns sum_x1/match_count, or 0 if there is no match.
func (c *Cell) Mean1() float64 {
	if c.MatchCount == 0 {
		return 0
	}
	return c.SumX1 / float64(c.MatchCount)
}

// Mean2 is the t+2 analogue of Mean1.
func (c *Cell) Mean2() float64 {
	if c.MatchCount == 0 {
		return 0
	}
	return c.SumX2 / float64(c.MatchCount)
}

// Sigma1 is the clamped one-pass standard deviation of x_{t+1} across
// matched records.
func (c *Cell) Sigma1() float64 {
	return sigma(c.SumX1, c.SumX1Sq, c.MatchCount)
}

// Sigma2 is the t+2 analogue of Sigma1.
func (c *Cell) Sigma2() float64 {
	return sigma(c.SumX2, c.SumX2Sq, c.MatchCount)
}

func sigma(sum, sumSq float64, n int) float64 {
	if n == 0 {
		return 0
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return math.Sqrt(variance)
}

// Result holds every start node's depth-indexed cells for one
// individual's single-generation evaluation.
type Result struct {
	Cells [][]Cell // Cells[k][depth], depth in [0, MaxDepth]
}

// NegativeCount is the effective denominator support_rate divides by:
// records on which the depth-j path had a defined outcome.
func (r *Result) NegativeCount(k, depth int) int {
	return r.Cells[k][0].MatchCount - r.Cells[k][depth].EvalCount + r.Cells[k][depth].MatchCount
}

// Evaluate runs every start node's traversal over ds's safe range for
// one individual. dualHorizon also accumulates t+2 statistics
// (Dialect B).
func Evaluate(ds *domain.Dataset, ind *domain.Individual, startNodes, maxDepth int, dualHorizon bool) *Result {
	res := &Result{Cells: make([][]Cell, startNodes)}

	for k := 0; k < startNodes; k++ {
		chain := precomputeChain(ind, k, maxDepth)
		cells := make([]Cell, maxDepth+1)
		for d := 1; d <= maxDepth; d++ {
			cells[d].Attr = chain[d-1].attr + 1 // 1-based attribute id
			cells[d].Lag = chain[d-1].lag
		}

	recordLoop:
		for i := ds.SafeLo; i < ds.SafeHi; i++ {
			cells[0].MatchCount++
			cells[0].EvalCount++

			effective := true
			for d := 1; d <= maxDepth; d++ {
				st := chain[d-1]
				j := i - st.lag
				if j < 0 {
					continue recordLoop
				}

				switch ds.Attributes[j][st.attr] {
				case domain.AttrTrue:
					cells[d].EvalCount++
					if effective {
						accumulate(&cells[d], ds, i, dualHorizon)
					}
					// Yes branch: keep walking the chain.
				case domain.AttrFalse:
					continue recordLoop
				default: // domain.AttrMissing
					cells[d].EvalCount++
					effective = false
					// Masked, but the walk continues.
				}
			}
		}

		res.Cells[k] = cells
	}

	return res
}

func accumulate(cell *Cell, ds *domain.Dataset, i int, dualHorizon bool) {
	cell.MatchCount++
	x1 := ds.FutureTarget(i, 1)
	cell.SumX1 += x1
	cell.SumX1Sq += x1 * x1
	if dualHorizon {
		x2 := ds.FutureTarget(i, 2)
		cell.SumX2 += x2
		cell.SumX2Sq += x2 * x2
	}
	cell.MatchedIndices = append(cell.MatchedIndices, i)
}

// precomputeChain follows g_next from start node k for maxDepth steps.
// g_next always targets a judgement node (the gene-graph invariant),
// so this never needs to check node kind or guard against leaving the
// judgement-node range.
func precomputeChain(ind *domain.Individual, k, maxDepth int) []step {
	chain := make([]step, maxDepth)
	v := ind.Next[k]
	for d := 0; d < maxDepth; d++ {
		chain[d] = step{attr: ind.Attr[v], lag: ind.Lag[v]}
		v = ind.Next[v]
	}
	return chain
}
