package evolve

import (
	"math/rand"
	"sort"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/config"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/histogram"
)

// SeedPopulation assigns uniformly random genes to every individual,
// the way a trial's population is born.
func SeedPopulation(pop *domain.Population, startNodes, judgementNodes, numAttributes, maxLag int, rng *rand.Rand) {
	total := startNodes + judgementNodes
	for _, ind := range pop.Individuals {
		for v := 0; v < total; v++ {
			ind.Next[v] = startNodes + rng.Intn(judgementNodes)
			ind.Attr[v] = rng.Intn(numAttributes)
			ind.Lag[v] = rng.Intn(maxLag + 1)
		}
	}
}

// Rank computes rank[i] := |{ j : f[j] > f[i] }| for every individual.
// Fitness ties are broken deterministically by the population
// birth seed (−i·ε), so ranks are distinct with probability 1.
func Rank(pop *domain.Population) {
	n := len(pop.Individuals)
	for i := 0; i < n; i++ {
		r := 0
		for j := 0; j < n; j++ {
			if pop.Individuals[j].Fitness > pop.Individuals[i].Fitness {
				r++
			}
		}
		pop.Individuals[i].Rank = r
	}
}

// sortedByRank returns individuals ordered by ascending rank (fittest
// first), without mutating pop.Individuals' order.
func sortedByRank(pop *domain.Population) []*domain.Individual {
	out := make([]*domain.Individual, len(pop.Individuals))
	copy(out, pop.Individuals)
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out
}

// EliteTriplicate overwrites the population with three blocks derived
// from the top E=M/3 individuals: positions 0..E-1, E..2E-1, and
// 2E..3E-1 each receive an independent copy in rank order. This is
// the only mechanism that carries good individuals to the next
// generation.
func EliteTriplicate(pop *domain.Population) {
	m := len(pop.Individuals)
	e := m / 3
	if e == 0 {
		return
	}

	// Snapshot the elite into fresh buffers before writing anything:
	// a survivor can sit anywhere in pop.Individuals, and an in-place
	// copy would clobber it before a later block reads it.
	elite := make([]*domain.Individual, e)
	for i, src := range sortedByRank(pop)[:e] {
		elite[i] = src.Clone()
	}

	for block := 0; block < 3; block++ {
		for i := 0; i < e; i++ {
			dst := pop.Individuals[block*e+i]
			dst.CopyFrom(elite[i])
			dst.Fitness = elite[i].Fitness
			dst.Rank = elite[i].Rank
		}
	}
}

// Crossover performs uniform crossover: cfg.CrossoverCount times in
// total, pick a random i in [0, M/6) and a random judgement node
// position, and swap all three gene arrays between individuals i and
// i+M/6 at that position.
func Crossover(pop *domain.Population, startNodes, judgementNodes int, cfg config.Config, rng *rand.Rand) {
	m := len(pop.Individuals)
	span := m / 6
	if span == 0 {
		return
	}

	for n := 0; n < cfg.CrossoverCount; n++ {
		i := rng.Intn(span)
		a := pop.Individuals[i]
		b := pop.Individuals[i+span]
		v := startNodes + rng.Intn(judgementNodes)

		a.Attr[v], b.Attr[v] = b.Attr[v], a.Attr[v]
		a.Next[v], b.Next[v] = b.Next[v], a.Next[v]
		a.Lag[v], b.Lag[v] = b.Lag[v], a.Lag[v]
	}
}

// Mutate applies the three-block mutation schedule: start-node
// edge reassignment applies to every individual; judgement-node edge
// and lag mutation apply to the middle and final thirds; attribute
// mutation applies only to the final third.
func Mutate(pop *domain.Population, startNodes, judgementNodes int, cfg config.Config, attrHist, lagHist *histogram.Table, rng *rand.Rand) {
	m := len(pop.Individuals)
	thirdBoundary := m / 3
	twoThirdsBoundary := 2 * m / 3

	for idx, ind := range pop.Individuals {
		for k := 0; k < startNodes; k++ {
			if rng.Intn(cfg.RateStartNode) == 0 {
				ind.Next[k] = startNodes + rng.Intn(judgementNodes)
			}
		}

		if idx < thirdBoundary {
			continue
		}

		for v := startNodes; v < startNodes+judgementNodes; v++ {
			if rng.Intn(cfg.RateJudgeNext) == 0 {
				ind.Next[v] = startNodes + rng.Intn(judgementNodes)
			}
			if rng.Intn(cfg.RateLag) == 0 {
				ind.Lag[v] = lagHist.Sample(rng)
			}
			if idx >= twoThirdsBoundary && rng.Intn(cfg.RateAttr) == 0 {
				ind.Attr[v] = attrHist.Sample(rng)
			}
		}
	}
}
