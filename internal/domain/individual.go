package domain

// Individual is a fixed directed graph program: P start nodes followed
// by J judgement nodes, three parallel gene vectors of length P+J.
// Indices [0,StartNodes) are start nodes; [StartNodes,
// StartNodes+JudgementNodes) are judgement nodes.
type Individual struct {
	// Attr[v] is the attribute index a judgement node tests; meaningless
	// for start-node indices.
	Attr []int
	// Next[v] is always a judgement-node index: the edge target.
	Next []int
	// Lag[v] is the time lag a judgement node applies, in [0, MaxLag].
	Lag []int

	// Fitness accumulates contributions from every accepted/duplicate
	// path extracted from this individual during a generation.
	Fitness float64
	// Rank is the individual's position after ranking; rank 0 is
	// the fittest.
	Rank int
}

// NewIndividual allocates an individual's gene vectors. Genes are left
// zeroed; callers seed them (randomly, at population birth) separately.
func NewIndividual(startNodes, judgementNodes int) *Individual {
	n := startNodes + judgementNodes
	return &Individual{
		Attr: make([]int, n),
		Next: make([]int, n),
		Lag:  make([]int, n),
	}
}

// CopyFrom overwrites the receiver's gene vectors with src's, without
// aliasing src's backing arrays.
func (ind *Individual) CopyFrom(src *Individual) {
	copy(ind.Attr, src.Attr)
	copy(ind.Next, src.Next)
	copy(ind.Lag, src.Lag)
}

// Clone returns a deep copy of the individual, fitness and rank
// included, with freshly allocated gene vectors.
func (ind *Individual) Clone() *Individual {
	return &Individual{
		Attr:    append([]int(nil), ind.Attr...),
		Next:    append([]int(nil), ind.Next...),
		Lag:     append([]int(nil), ind.Lag...),
		Fitness: ind.Fitness,
		Rank:    ind.Rank,
	}
}

// Population is an ordered set of individuals bred and evaluated
// together within one generation.
type Population struct {
	Individuals []*Individual
}

// NewPopulation allocates size individuals with the given topology.
func NewPopulation(size, startNodes, judgementNodes int) *Population {
	pop := &Population{Individuals: make([]*Individual, size)}
	for i := range pop.Individuals {
		pop.Individuals[i] = NewIndividual(startNodes, judgementNodes)
	}
	return pop
}

// SeedFitness resets every individual's fitness to the deterministic
// tie-break seed -i*epsilon, stable ordering at population birth.
func (p *Population) SeedFitness(epsilon float64) {
	for i, ind := range p.Individuals {
		ind.Fitness = -float64(i) * epsilon
		ind.Rank = 0
	}
}
