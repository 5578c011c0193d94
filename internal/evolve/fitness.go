// Package evolve implements the evolutionary driver: fitness scoring,
// ranking, elite triplication, crossover, the mutation schedule, and
// the per-generation orchestration tying the evaluator, quality
// predicate, histograms, and rule pool together.
package evolve

import "github.com/sugasuzu/ts-itemsb-sub003/internal/config"

// Contribution is the base fitness contribution of one processed
// candidate path: base = n·w_n + s·w_s + w_σ/(σ+ε).
func Contribution(n int, supportRate, sigma float64, cfg config.Config) float64 {
	return float64(n)*cfg.WeightAttrCount + supportRate*cfg.WeightSupport + cfg.WeightSigma/(sigma+cfg.SigmaEpsilon)
}

// DialectBBonus is the concentration bonus Dialect B rules add on top
// of Contribution. The quadratic term turns steep once concentration
// crosses 0.45.
func DialectBBonus(concentration float64, cfg config.Config) float64 {
	base := concentration * cfg.WeightConcentration
	if concentration < 0.45 {
		return base
	}
	t := (concentration - 0.45) * 20
	return base + t*t*10000
}
