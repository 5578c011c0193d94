package quality

import (
	"github.com/sugasuzu/ts-itemsb-sub003/internal/config"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
)

// PathStats is everything the predicates need out of one evaluated
// (individual, start node, depth) cell plus its canonical key.
type PathStats struct {
	NumAttributes int
	MatchCount    int
	NegativeCount int // effective denominator derived by the evaluator

	Mean1, Sigma1 float64
	Mean2, Sigma2 float64

	MatchedIndices []int
}

// Outcome is the predicate's verdict: whether to accept, and (on
// accept) the stat fields a Rule record needs beyond its canonical
// key, which the caller already has.
type Outcome struct {
	Accept bool

	SupportRate          float64
	EffectiveDenominator int
	HighSupportFlag      bool
	LowVarianceFlag      bool

	DominantQuadrant domain.Quadrant
	Concentration    float64
}

// EvaluateA applies the dispersion+support predicate (Dialect A).
func EvaluateA(stats PathStats, cfg config.Config) Outcome {
	if stats.NumAttributes < cfg.MinAttributes {
		return Outcome{}
	}
	if stats.NegativeCount <= 0 {
		return Outcome{}
	}

	supportRate := float64(stats.MatchCount) / float64(stats.NegativeCount)

	accept := stats.Sigma1 <= cfg.SigmaMax && supportRate >= cfg.SupportMin
	out := Outcome{
		Accept:               accept,
		SupportRate:          supportRate,
		EffectiveDenominator: stats.NegativeCount,
	}
	if accept {
		out.HighSupportFlag = supportRate >= cfg.SupportMin+cfg.HighSupportBonus
		out.LowVarianceFlag = stats.Sigma1 <= cfg.SigmaMax-cfg.LowVarianceBonus
	}
	return out
}

// EvaluateB applies the quadrant-concentration predicate (Dialect
// B). ds is needed to re-derive x1/x2 at each matched index and to
// compute the support denominator, which here is the fixed record
// count N-FUTURE_SPAN rather than the path's own effective count.
func EvaluateB(ds *domain.Dataset, stats PathStats, cfg config.Config) Outcome {
	if stats.NumAttributes < cfg.MinAttributes {
		return Outcome{}
	}
	total := len(stats.MatchedIndices)
	if total == 0 {
		return Outcome{}
	}

	var counts [domain.QuadrantPN + 1]int
	points := make([][2]float64, total)
	for idx, i := range stats.MatchedIndices {
		x1 := ds.FutureTarget(i, 1)
		x2 := ds.FutureTarget(i, 2)
		points[idx] = [2]float64{x1, x2}
		counts[quadrantOf(x1, x2)]++
	}

	// Argmax in fixed quadrant order, so a tie resolves the same way
	// on every run.
	dominant, dominantCount := domain.QuadrantPP, counts[domain.QuadrantPP]
	for _, q := range []domain.Quadrant{domain.QuadrantNP, domain.QuadrantNN, domain.QuadrantPN} {
		if counts[q] > dominantCount {
			dominant, dominantCount = q, counts[q]
		}
	}

	concentration := float64(dominantCount) / float64(total)
	if concentration < cfg.ConcentrationMin {
		return Outcome{}
	}

	for _, p := range points {
		if violatesDeviation(dominant, p[0], p[1], cfg.DeviationBound) {
			return Outcome{}
		}
	}

	effectiveDenominator := ds.NumRecords() - cfg.FutureSpan()
	if effectiveDenominator <= 0 {
		return Outcome{}
	}
	supportRate := float64(stats.MatchCount) / float64(effectiveDenominator)
	if supportRate < cfg.SupportMin {
		return Outcome{}
	}

	return Outcome{
		Accept:               true,
		SupportRate:          supportRate,
		EffectiveDenominator: effectiveDenominator,
		HighSupportFlag:      supportRate >= cfg.SupportMin+cfg.HighSupportBonus,
		LowVarianceFlag:      stats.Sigma1 <= cfg.SigmaMax-cfg.LowVarianceBonus,
		DominantQuadrant:     dominant,
		Concentration:        concentration,
	}
}

// quadrantOf classifies (x1, x2) zero-inclusive on the positive side.
func quadrantOf(x1, x2 float64) domain.Quadrant {
	switch {
	case x1 >= 0 && x2 >= 0:
		return domain.QuadrantPP
	case x1 < 0 && x2 >= 0:
		return domain.QuadrantNP
	case x1 < 0 && x2 < 0:
		return domain.QuadrantNN
	default: // x1 >= 0 && x2 < 0
		return domain.QuadrantPN
	}
}

// violatesDeviation checks whether (x1, x2) falls further into the
// forbidden half-plane than delta allows, for the given dominant
// quadrant.
func violatesDeviation(dominant domain.Quadrant, x1, x2, delta float64) bool {
	switch dominant {
	case domain.QuadrantPP:
		return x1 < -delta || x2 < -delta
	case domain.QuadrantNP:
		return x1 > delta || x2 < -delta
	case domain.QuadrantNN:
		return x1 > delta || x2 > delta
	case domain.QuadrantPN:
		return x1 < -delta || x2 > delta
	default:
		return false
	}
}
