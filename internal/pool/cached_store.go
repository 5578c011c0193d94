package pool

import (
	"context"
	"fmt"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/cache"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/quality"
)

// CachedStore wraps a RuleStore with a cache.KeyCache consulted before
// every insert, so a long-running -serve deployment doesn't re-accept
// (and re-score) a canonical rule a prior process already found: the
// in-process RuleStore's dedup index is trial-local and does not
// survive a restart, but the cache does.
type CachedStore struct {
	RuleStore
	cache cache.KeyCache
	ctx   context.Context
}

// NewCachedStore wraps store with kc. ctx bounds every cache round
// trip the hot Add path makes.
func NewCachedStore(ctx context.Context, store RuleStore, kc cache.KeyCache) *CachedStore {
	return &CachedStore{RuleStore: store, cache: kc, ctx: ctx}
}

func (s *CachedStore) Add(rule *domain.Rule) (added bool, duplicate bool, err error) {
	key := quality.Key(rule.Canonical)

	seen, err := s.cache.Seen(s.ctx, key)
	if err != nil {
		return false, false, fmt.Errorf("checking rule cache: %w", err)
	}
	if seen {
		return false, true, nil
	}

	added, duplicate, err = s.RuleStore.Add(rule)
	if err != nil || !added {
		return added, duplicate, err
	}

	if err := s.cache.Mark(s.ctx, key); err != nil {
		return false, false, fmt.Errorf("marking rule cache: %w", err)
	}
	return true, false, nil
}
