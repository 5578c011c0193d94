// Package trial runs the outermost loop: N sequential,
// independent trials, each breeding and evaluating its own population
// against a shared dataset and a single deterministic random stream.
package trial

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/config"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/evolve"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/histogram"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/logger"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/output"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/pool"
)

// Result is one trial's outcome.
type Result struct {
	TrialID     string
	Rules       []*domain.Rule
	Generations int
}

// StoreFactory builds a fresh rule pool for trial index t (0-based).
// Each trial gets its own pool, spanning all of its generations; the
// caller is responsible for any cumulative bookkeeping across trials.
type StoreFactory func(t int) (pool.RuleStore, error)

// Run executes cfg.TrialCount trials in sequence against a single
// shared *rand.Rand, so the reproducibility contract's draw order stays intact
// across trial boundaries. Trials are never parallelized, per the
// Non-goal against distributing the search.
func Run(ds *domain.Dataset, cfg config.Config, log *logger.Logger, mgr *output.Manager, newStore StoreFactory) ([]Result, error) {
	rng := rand.New(rand.NewSource(cfg.Seed))
	results := make([]Result, 0, cfg.TrialCount)

	for t := 0; t < cfg.TrialCount; t++ {
		trialID := fmt.Sprintf("%d-%s", cfg.TrialStartID+t, uuid.NewString())

		store, err := newStore(t)
		if err != nil {
			return nil, fmt.Errorf("opening rule pool for trial %s: %w", trialID, err)
		}

		result, err := runOne(trialID, ds, cfg, log, mgr, store, rng)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}

	return results, nil
}

func runOne(trialID string, ds *domain.Dataset, cfg config.Config, log *logger.Logger, mgr *output.Manager, store pool.RuleStore, rng *rand.Rand) (Result, error) {
	pop := domain.NewPopulation(cfg.Population, cfg.StartNodes, cfg.JudgementNodes)
	pop.SeedFitness(cfg.TieBreakEpsilon)
	evolve.SeedPopulation(pop, cfg.StartNodes, cfg.JudgementNodes, ds.NumAttributes(), cfg.MaxLag, rng)

	attrHist := histogram.New(ds.NumAttributes(), cfg.HistoryLength, cfg.HistogramRefreshPeriod)
	lagHist := histogram.New(cfg.MaxLag+1, cfg.HistoryLength, cfg.HistogramRefreshPeriod)

	generationsRun := 0
	for g := 0; g < cfg.Generations; g++ {
		stats, err := evolve.RunGeneration(g, ds, pop, cfg, store, attrHist, lagHist, rng, uuid.NewString)
		if err != nil {
			return Result{}, fmt.Errorf("trial %s generation %d: %w", trialID, g, err)
		}
		generationsRun++

		if mgr != nil {
			mgr.Notify(trialID, stats)
		}

		if stats.PoolFull {
			log.Info("rule pool reached capacity, ending trial", "trial_id", trialID, "generation", g)
			break
		}
	}

	log.Info("trial complete", "trial_id", trialID, "generations", generationsRun, "accepted_rules", store.Len())

	return Result{TrialID: trialID, Rules: store.All(), Generations: generationsRun}, nil
}
