package evolve

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/config"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/histogram"
)

func TestRank_AssignsDistinctRanksByDescendingFitness(t *testing.T) {
	pop := domain.NewPopulation(3, 2, 2)
	pop.Individuals[0].Fitness = 10
	pop.Individuals[1].Fitness = 30
	pop.Individuals[2].Fitness = 20

	Rank(pop)

	assert.Equal(t, 2, pop.Individuals[0].Rank)
	assert.Equal(t, 0, pop.Individuals[1].Rank)
	assert.Equal(t, 1, pop.Individuals[2].Rank)
}

func TestEliteTriplicate_TopBlockIsUnmutatedEliteReplicatedThreeTimes(t *testing.T) {
	pop := domain.NewPopulation(6, 2, 2)
	for i, ind := range pop.Individuals {
		ind.Attr[0] = i // distinguish individuals by a marker gene
		ind.Fitness = float64(6 - i)
	}
	Rank(pop)

	EliteTriplicate(pop)

	// Top 2 (e=6/3=2) individuals were index 0 and 1 (highest fitness).
	for block := 0; block < 3; block++ {
		assert.Equal(t, 0, pop.Individuals[block*2].Attr[0])
		assert.Equal(t, 1, pop.Individuals[block*2+1].Attr[0])
	}
}

func TestEliteTriplicate_EliteInBackHalfCopiesFaithfully(t *testing.T) {
	pop := domain.NewPopulation(6, 2, 2)
	for i, ind := range pop.Individuals {
		ind.Attr[0] = i // distinguish individuals by a marker gene
		ind.Fitness = float64(i)
	}
	Rank(pop)

	EliteTriplicate(pop)

	// The fittest individuals started at indices 5 and 4, positions the
	// block copies overwrite; every block must still receive the pair
	// intact, not a half-clobbered duplicate.
	for block := 0; block < 3; block++ {
		assert.Equal(t, 5, pop.Individuals[block*2].Attr[0])
		assert.Equal(t, 4, pop.Individuals[block*2+1].Attr[0])
	}
}

func TestCrossover_SwapsGenesAtChosenPosition(t *testing.T) {
	pop := domain.NewPopulation(6, 2, 2)
	a, b := pop.Individuals[0], pop.Individuals[3]
	a.Attr[2], b.Attr[2] = 1, 2

	cfg := config.Default()
	cfg.CrossoverCount = 1
	rng := rand.New(rand.NewSource(1))

	Crossover(pop, 2, 2, cfg, rng)

	assert.True(t, a.Attr[2] == 2 || a.Attr[2] == 1)
	// One of the two swapped, or the random position wasn't index 2;
	// either way genes must still only contain the original values.
	assert.Contains(t, []int{1, 2}, a.Attr[2])
	assert.Contains(t, []int{1, 2}, b.Attr[2])
}

func TestMutate_StartNodeBlockAppliesToEveryIndividual(t *testing.T) {
	pop := domain.NewPopulation(3, 2, 2)
	cfg := config.Default()
	cfg.RateStartNode = 1 // always mutate
	cfg.RateJudgeNext = 1_000_000
	cfg.RateLag = 1_000_000
	cfg.RateAttr = 1_000_000

	attrHist := histogram.New(4, 5, 5)
	lagHist := histogram.New(4, 5, 5)
	rng := rand.New(rand.NewSource(1))

	Mutate(pop, 2, 2, cfg, attrHist, lagHist, rng)

	for _, ind := range pop.Individuals {
		for k := 0; k < 2; k++ {
			assert.GreaterOrEqual(t, ind.Next[k], 2)
			assert.Less(t, ind.Next[k], 4)
		}
	}
}
