package evaluator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
)

// buildIndividual constructs a single-start-node individual whose
// sole judgement node tests attribute 0 at the given lag.
func buildIndividual(lag int) *domain.Individual {
	ind := domain.NewIndividual(1, 1)
	ind.Next[0] = 1 // start node 0 -> judgement node 1
	ind.Attr[1] = 0
	ind.Lag[1] = lag
	ind.Next[1] = 1 // self-loop, irrelevant beyond depth 1
	return ind
}

// alternatingDataset builds the simplest possible signal: N=100, K=1, attribute
// alternates 1,0,1,0..., target is 1.0 when attribute is 1 else -1.0.
func alternatingDataset(maxLag, futureSpan int) *domain.Dataset {
	n := 100
	ds := &domain.Dataset{
		AttributeNames: []string{"attribute1"},
		MaxLag:         maxLag,
		FutureSpan:     futureSpan,
	}
	for i := 0; i < n; i++ {
		state := domain.AttrFalse
		x := -1.0
		if i%2 == 0 {
			state = domain.AttrTrue
			x = 1.0
		}
		ds.Attributes = append(ds.Attributes, []domain.AttrState{state})
		ds.Target = append(ds.Target, x)
		ds.Timestamps = append(ds.Timestamps, domain.Timestamp{})
	}
	ds.SafeLo = maxLag
	ds.SafeHi = n - futureSpan
	return ds
}

func TestEvaluate_TrivialSingleAttributePass(t *testing.T) {
	ds := alternatingDataset(0, 1)
	ind := buildIndividual(0)

	result := Evaluate(ds, ind, 1, 1, false)

	cell := result.Cells[0][1]
	// Every even i in [0,99) has attribute=1 and x_{i+1} = -1.0 (since
	// i+1 is odd -> attribute=0 -> x=-1.0). i ranges over [0, 99).
	require.Greater(t, cell.MatchCount, 0)
	assert.Equal(t, 50, cell.MatchCount)
	assert.InDelta(t, -1.0, cell.Mean1(), 1e-9)
	assert.InDelta(t, 0.0, cell.Sigma1(), 1e-9)
}

func TestEvaluate_LaggedDetection(t *testing.T) {
	// Construct a dataset where attribute_i=1 deterministically implies
	// x_{i+1} = +1, regardless of lag applied (lag=0 here; the
	// histogram-bias scenario itself lives in the evolve package).
	n := 100
	ds := &domain.Dataset{AttributeNames: []string{"attribute1"}, MaxLag: 2, FutureSpan: 1}
	for i := 0; i < n; i++ {
		state := domain.AttrFalse
		if i%2 == 0 {
			state = domain.AttrTrue
		}
		ds.Attributes = append(ds.Attributes, []domain.AttrState{state})
		x := -1.0
		if i > 0 && i%2 == 1 {
			// x_i is the "future" value for the preceding even index.
			x = 1.0
		}
		ds.Target = append(ds.Target, x)
		ds.Timestamps = append(ds.Timestamps, domain.Timestamp{})
	}
	ds.SafeLo = ds.MaxLag
	ds.SafeHi = n - ds.FutureSpan

	ind := buildIndividual(0)
	result := Evaluate(ds, ind, 1, 1, false)

	cell := result.Cells[0][1]
	require.Greater(t, cell.MatchCount, 0)
	assert.InDelta(t, 1.0, cell.Mean1(), 1e-9)
	assert.InDelta(t, 0.0, cell.Sigma1(), 1e-9)
}

func TestEvaluate_MissingValueIsMaskedNotRejected(t *testing.T) {
	ds := &domain.Dataset{AttributeNames: []string{"a"}, MaxLag: 0, FutureSpan: 1}
	ds.Attributes = [][]domain.AttrState{
		{domain.AttrMissing}, {domain.AttrTrue}, {domain.AttrTrue},
	}
	ds.Target = []float64{0, 1, 1}
	ds.Timestamps = make([]domain.Timestamp, 3)
	ds.SafeLo, ds.SafeHi = 0, 2

	ind := buildIndividual(0)
	result := Evaluate(ds, ind, 1, 1, false)

	cell := result.Cells[0][1]
	// i=0 is missing: eval_count increments, match_count does not.
	// i=1 is true and effective: both increment.
	assert.Equal(t, 2, cell.EvalCount)
	assert.Equal(t, 1, cell.MatchCount)
}

func TestEvaluate_LagBelowZeroTerminatesPath(t *testing.T) {
	ds := alternatingDataset(2, 1)
	// Widen the range below MaxLag so i=0 and i=1 push j=i-2 below zero.
	ds.SafeLo = 0
	ind := buildIndividual(2)

	result := Evaluate(ds, ind, 1, 1, false)

	// Depth-0 cell still counts every record in the range.
	assert.Equal(t, ds.SafeHi-ds.SafeLo, result.Cells[0][0].MatchCount)
	// i=0 and i=1 stop before depth 1; of i in [2,99) the 49 even ones
	// read a true attribute at j=i-2.
	assert.Equal(t, 49, result.Cells[0][1].EvalCount)
}
