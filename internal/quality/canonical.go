// Package quality canonicalizes extracted paths into de-duplicatable
// rule keys and applies the two acceptance dialects (dispersion+
// support, and quadrant-concentration) as a tagged variant rather than
// subclassed rule types.
package quality

import (
	"fmt"
	"sort"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
)

// Canonicalize turns a traversal prefix of length depth into a sorted,
// zero-padded 8-wide attribute key plus the lag observed at each
// attribute's first occurrence in the chain. attrChain/lagChain are
// 1-indexed by depth (index 0 is depth 1).
func Canonicalize(attrChain, lagChain []int, depth int) (canonical [domain.CanonicalWidth]int, lags map[int]int, numAttributes int, err error) {
	lags = make(map[int]int)
	order := make([]int, 0, depth)

	for d := 0; d < depth; d++ {
		attr := attrChain[d]
		if _, seen := lags[attr]; !seen {
			lags[attr] = lagChain[d]
			order = append(order, attr)
		}
	}

	numAttributes = len(order)
	if numAttributes == 0 {
		return canonical, lags, 0, fmt.Errorf("empty attribute path")
	}
	if numAttributes > domain.CanonicalWidth {
		return canonical, lags, numAttributes, fmt.Errorf("path has %d distinct attributes, exceeds canonical width %d", numAttributes, domain.CanonicalWidth)
	}

	sort.Ints(order)
	copy(canonical[:], order)
	return canonical, lags, numAttributes, nil
}

// Key renders the canonical array as a comparable string, used by the
// pool's de-duplication index.
func Key(canonical [domain.CanonicalWidth]int) string {
	return fmt.Sprintf("%v", canonical)
}
