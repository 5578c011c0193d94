// Package output adapts generation/trial results to the external
// contracts: per-generation progress rows, the rule-pool CSV, and
// the Dialect B per-rule verification CSV. Progress reporting
// follows an observer/manager pattern: any number of observers can
// register, and a failing observer never blocks or breaks the others.
package output

import (
	"sync"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/evolve"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/logger"
)

// ProgressObserver receives one notification per generation.
type ProgressObserver interface {
	OnGeneration(trialID string, stats evolve.Stats)
}

// Manager fans a generation's stats out to every registered observer.
type Manager struct {
	mu        sync.Mutex
	observers []ProgressObserver
	log       *logger.Logger
}

// NewManager builds an empty Manager. log is used to report a panic
// recovered from a misbehaving observer; it is never otherwise fatal.
func NewManager(log *logger.Logger) *Manager {
	return &Manager{log: log}
}

// Register adds an observer. Safe to call concurrently with Notify; a
// Notify already in progress does not reach the new observer.
func (m *Manager) Register(o ProgressObserver) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observers = append(m.observers, o)
}

// Notify calls every observer in registration order. A panicking
// observer is recovered and logged so one bad reporter can't abort a
// trial.
func (m *Manager) Notify(trialID string, stats evolve.Stats) {
	m.mu.Lock()
	observers := make([]ProgressObserver, len(m.observers))
	copy(observers, m.observers)
	m.mu.Unlock()

	for _, o := range observers {
		m.notifyOne(o, trialID, stats)
	}
}

func (m *Manager) notifyOne(o ProgressObserver, trialID string, stats evolve.Stats) {
	defer func() {
		if r := recover(); r != nil {
			m.log.Error("progress observer panicked", "trial_id", trialID, "recovered", r)
		}
	}()
	o.OnGeneration(trialID, stats)
}
