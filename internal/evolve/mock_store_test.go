package evolve

import (
	"github.com/stretchr/testify/mock"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
)

// mockRuleStore lets a test dictate RuleStore.Add's outcome without
// exercising a real in-memory or SQLite-backed store.
type mockRuleStore struct {
	mock.Mock
}

func (m *mockRuleStore) Add(rule *domain.Rule) (added bool, duplicate bool, err error) {
	args := m.Called(rule)
	return args.Bool(0), args.Bool(1), args.Error(2)
}

func (m *mockRuleStore) Full() bool { return m.Called().Bool(0) }
func (m *mockRuleStore) Len() int   { return m.Called().Int(0) }

func (m *mockRuleStore) All() []*domain.Rule {
	args := m.Called()
	rules, _ := args.Get(0).([]*domain.Rule)
	return rules
}

func (m *mockRuleStore) HighSupportCount() int { return m.Called().Int(0) }
func (m *mockRuleStore) LowVarianceCount() int { return m.Called().Int(0) }
