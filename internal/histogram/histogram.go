// Package histogram implements the rolling attribute/lag usage tables
// that bias the mutation samplers: a ring of H
// generations' worth of per-bin counts, periodically reseeded so no
// bin can permanently collapse to zero.
package histogram

import "math/rand"

// Table is one rolling usage histogram (attribute usage, or lag
// usage) over a fixed number of bins.
type Table struct {
	size          int
	history       [][]int // history[0] is the generation currently accumulating
	refreshPeriod int
	generation    int
}

// New allocates a Table with the given bin count, ring depth (H), and
// reseed period (R_period).
func New(size, historyLength, refreshPeriod int) *Table {
	t := &Table{
		size:          size,
		history:       make([][]int, historyLength),
		refreshPeriod: refreshPeriod,
	}
	for h := range t.history {
		t.history[h] = make([]int, size)
	}
	return t
}

// Increment adds amount to bin's count in the generation currently
// accumulating.
func (t *Table) Increment(bin, amount int) {
	t.history[0][bin] += amount
}

// Advance closes out the current generation: history shifts down by
// one slot, and a fresh slot opens at history[0]. Every refreshPeriod
// generations the fresh slot is seeded to 1 in every bin instead of 0,
// so a bin that has gone unused for a full ring can still be drawn.
func (t *Table) Advance() {
	for h := len(t.history) - 1; h > 0; h-- {
		t.history[h] = t.history[h-1]
	}

	fresh := make([]int, t.size)
	t.generation++
	if t.generation%t.refreshPeriod == 0 {
		for x := range fresh {
			fresh[x] = 1
		}
	}
	t.history[0] = fresh
}

// Totals sums each bin's count across the whole ring.
func (t *Table) Totals() []int {
	totals := make([]int, t.size)
	for _, row := range t.history {
		for x, v := range row {
			totals[x] += v
		}
	}
	return totals
}

// Sample draws a bin biased by rolling usage, falling back to uniform
// when the ring's total is zero.
func (t *Table) Sample(rng *rand.Rand) int {
	totals := t.Totals()

	sum := 0
	for _, v := range totals {
		sum += v
	}
	if sum == 0 {
		return rng.Intn(t.size)
	}

	r := rng.Intn(sum)
	running := 0
	for x, v := range totals {
		running += v
		if r < running {
			return x
		}
	}
	return t.size - 1 // unreachable if totals sum correctly
}
