package quality

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/config"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.SigmaMax = 0.1
	cfg.SupportMin = 0.4
	cfg.ConcentrationMin = 0.5
	cfg.DeviationBound = 0.005
	cfg.MinAttributes = 1
	return cfg
}

func TestEvaluateA_AcceptsLowSigmaHighSupport(t *testing.T) {
	cfg := testConfig()
	stats := PathStats{
		NumAttributes: 1,
		MatchCount:    50,
		NegativeCount: 100,
		Sigma1:        0.0,
	}

	out := EvaluateA(stats, cfg)
	assert.True(t, out.Accept)
	assert.InDelta(t, 0.5, out.SupportRate, 1e-9)
	assert.True(t, out.HighSupportFlag)
	assert.True(t, out.LowVarianceFlag)
}

func TestEvaluateA_RejectsHighSigma(t *testing.T) {
	cfg := testConfig()
	stats := PathStats{NumAttributes: 1, MatchCount: 50, NegativeCount: 100, Sigma1: 5.0}

	out := EvaluateA(stats, cfg)
	assert.False(t, out.Accept)
}

func TestEvaluateA_ZeroDenominatorRejects(t *testing.T) {
	cfg := testConfig()
	stats := PathStats{NumAttributes: 1, MatchCount: 0, NegativeCount: 0}

	out := EvaluateA(stats, cfg)
	assert.False(t, out.Accept)
}

// buildDatasetForQuadrants builds a quadrant-concentration scenario: N records,
// where each key i of points gets its (x1, x2) pair at Target[i+1] and Target[i+2].
func buildDatasetForQuadrants(n int, points map[int][2]float64) *domain.Dataset {
	ds := &domain.Dataset{AttributeNames: []string{"a"}, FutureSpan: 2}
	ds.Target = make([]float64, n)
	ds.Attributes = make([][]domain.AttrState, n)
	ds.Timestamps = make([]domain.Timestamp, n)
	for i := range ds.Target {
		ds.Attributes[i] = []domain.AttrState{domain.AttrFalse}
	}
	for i, p := range points {
		ds.Target[i+1] = p[0]
		ds.Target[i+2] = p[1]
	}
	ds.SafeLo, ds.SafeHi = 0, n-2
	return ds
}

func TestEvaluateB_AcceptsConcentratedQuadrant(t *testing.T) {
	cfg := testConfig()
	cfg.DualHorizon = true
	cfg.SupportMin = 0 // isolate quadrant/deviation behavior from the fixed N-FUTURE_SPAN support check

	points := map[int][2]float64{}
	matched := make([]int, 0, 40)
	idx := 0
	for n := 0; n < 30; n++ {
		points[idx] = [2]float64{0.01, 0.01}
		matched = append(matched, idx)
		idx += 5
	}
	for n := 0; n < 5; n++ {
		points[idx] = [2]float64{0.01, -0.002}
		matched = append(matched, idx)
		idx += 5
	}
	for n := 0; n < 5; n++ {
		points[idx] = [2]float64{-0.003, 0.01}
		matched = append(matched, idx)
		idx += 5
	}

	ds := buildDatasetForQuadrants(idx+3, points)
	stats := PathStats{NumAttributes: 1, MatchCount: len(matched), MatchedIndices: matched}

	out := EvaluateB(ds, stats, cfg)
	require := assert.New(t)
	require.True(out.Accept)
	require.Equal(domain.QuadrantPP, out.DominantQuadrant)
	require.InDelta(0.75, out.Concentration, 1e-9)
}

func TestEvaluateB_RejectsOnDeviationBoundViolation(t *testing.T) {
	cfg := testConfig()
	cfg.DualHorizon = true
	cfg.SupportMin = 0

	points := map[int][2]float64{}
	matched := make([]int, 0, 40)
	idx := 0
	for n := 0; n < 29; n++ {
		points[idx] = [2]float64{0.01, 0.01}
		matched = append(matched, idx)
		idx += 5
	}
	// one Q1 point pushed far into the forbidden region on x2.
	points[idx] = [2]float64{0.01, -0.01}
	matched = append(matched, idx)
	idx += 5
	for n := 0; n < 5; n++ {
		points[idx] = [2]float64{0.01, -0.002}
		matched = append(matched, idx)
		idx += 5
	}
	for n := 0; n < 5; n++ {
		points[idx] = [2]float64{-0.003, 0.01}
		matched = append(matched, idx)
		idx += 5
	}

	ds := buildDatasetForQuadrants(idx+3, points)
	stats := PathStats{NumAttributes: 1, MatchCount: len(matched), MatchedIndices: matched}

	out := EvaluateB(ds, stats, cfg)
	assert.False(t, out.Accept)
}
