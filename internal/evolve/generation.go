package evolve

import (
	"fmt"
	"math/rand"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/config"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/evaluator"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/histogram"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/pool"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/quality"
)

// Stats summarizes one generation for the progress reporter.
type Stats struct {
	Generation        int
	AcceptedTotal     int
	HighSupportCount  int
	LowVarianceCount  int
	MeanFitness       float64
	PoolFull          bool
}

// RunGeneration evaluates every individual, extracts and scores
// candidate paths against store, then ranks, elite-triplicates,
// crosses over, and mutates the population in place, and finally
// advances the usage histograms.
func RunGeneration(generation int, ds *domain.Dataset, pop *domain.Population, cfg config.Config, store pool.RuleStore, attrHist, lagHist *histogram.Table, rng *rand.Rand, newRuleID func() string) (Stats, error) {
	// Fitness re-seeds to -i*epsilon at the top of every generation:
	// the triplicated elite blocks enter with byte-identical genes, and
	// only a fresh index-based seed keeps their ranks distinct after
	// they re-earn identical contributions.
	pop.SeedFitness(cfg.TieBreakEpsilon)

	for _, ind := range pop.Individuals {
		if store.Full() {
			break
		}

		result := evaluator.Evaluate(ds, ind, cfg.StartNodes, cfg.MaxDepth, cfg.DualHorizon)

		for k := 0; k < cfg.StartNodes; k++ {
			if store.Full() {
				break
			}
			if err := extractStartNode(ds, ind, result, k, cfg, store, attrHist, lagHist, newRuleID); err != nil {
				return Stats{}, err
			}
		}
	}

	stats := Stats{
		Generation:       generation,
		AcceptedTotal:    store.Len(),
		HighSupportCount: store.HighSupportCount(),
		LowVarianceCount: store.LowVarianceCount(),
		MeanFitness:      meanFitness(pop),
		PoolFull:         store.Full(),
	}

	Rank(pop)
	EliteTriplicate(pop)
	Crossover(pop, cfg.StartNodes, cfg.JudgementNodes, cfg, rng)
	Mutate(pop, cfg.StartNodes, cfg.JudgementNodes, cfg, attrHist, lagHist, rng)

	attrHist.Advance()
	lagHist.Advance()

	return stats, nil
}

func extractStartNode(ds *domain.Dataset, ind *domain.Individual, result *evaluator.Result, k int, cfg config.Config, store pool.RuleStore, attrHist, lagHist *histogram.Table, newRuleID func() string) error {
	cells := result.Cells[k]

	attrChain := make([]int, cfg.MaxDepth)
	lagChain := make([]int, cfg.MaxDepth)
	for d := 1; d <= cfg.MaxDepth; d++ {
		attrChain[d-1] = cells[d].Attr
		lagChain[d-1] = cells[d].Lag
	}

	for depth := 1; depth <= cfg.MaxDepth; depth++ {
		cell := &cells[depth]
		if cell.MatchCount == 0 {
			continue
		}

		canonical, lags, numAttrs, err := quality.Canonicalize(attrChain, lagChain, depth)
		if err != nil {
			continue
		}

		stats := quality.PathStats{
			NumAttributes:  numAttrs,
			MatchCount:     cell.MatchCount,
			NegativeCount:  result.NegativeCount(k, depth),
			Mean1:          cell.Mean1(),
			Sigma1:         cell.Sigma1(),
			Mean2:          cell.Mean2(),
			Sigma2:         cell.Sigma2(),
			MatchedIndices: cell.MatchedIndices,
		}

		var outcome quality.Outcome
		if cfg.Dialect == domain.DialectB {
			outcome = quality.EvaluateB(ds, stats, cfg)
		} else {
			outcome = quality.EvaluateA(stats, cfg)
		}
		if !outcome.Accept {
			continue
		}

		base := Contribution(numAttrs, outcome.SupportRate, cell.Sigma1(), cfg)
		if cfg.Dialect == domain.DialectB {
			base += DialectBBonus(outcome.Concentration, cfg)
		}

		rule := &domain.Rule{
			ID:                   newRuleID(),
			Canonical:            canonical,
			Lags:                 lags,
			NumAttributes:        numAttrs,
			Dialect:              cfg.Dialect,
			Mean1:                cell.Mean1(),
			Sigma1:               cell.Sigma1(),
			SupportCount:         cell.MatchCount,
			EffectiveDenominator: outcome.EffectiveDenominator,
			HighSupportFlag:      outcome.HighSupportFlag,
			LowVarianceFlag:      outcome.LowVarianceFlag,
			DominantQuadrant:     outcome.DominantQuadrant,
			Concentration:        outcome.Concentration,
		}
		if cfg.Dialect == domain.DialectB {
			rule.Mean2 = cell.Mean2()
			rule.Sigma2 = cell.Sigma2()
			rule.Summary = quality.Summarize(ds, cell.MatchedIndices)
			rule.MatchedIndices = append([]int(nil), cell.MatchedIndices...)
		}

		added, duplicate, err := store.Add(rule)
		if err != nil {
			return fmt.Errorf("adding rule to pool: %w", err)
		}

		switch {
		case added:
			ind.Fitness += base + cfg.WeightNovelty
			flagged := outcome.HighSupportFlag || outcome.LowVarianceFlag
			for _, a := range rule.SortedAttributes() {
				attrHist.Increment(a-1, 1)
			}
			for _, lag := range lags {
				amount := 1
				if flagged {
					amount += cfg.RefreshBonus
				}
				lagHist.Increment(lag, amount)
			}
		case duplicate:
			ind.Fitness += base
		}
	}

	return nil
}

func meanFitness(pop *domain.Population) float64 {
	if len(pop.Individuals) == 0 {
		return 0
	}
	sum := 0.0
	for _, ind := range pop.Individuals {
		sum += ind.Fitness
	}
	return sum / float64(len(pop.Individuals))
}
