package trial

import (
	"fmt"

	"github.com/robfig/cron/v3"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/config"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/logger"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/output"
)

// RecurringScheduler re-invokes Run on a cron schedule, for a
// long-running -serve deployment that periodically re-mines rules.
// Every run uses the dataset passed to AddTrial; records added to the
// input file after that are not picked up.
type RecurringScheduler struct {
	cron *cron.Cron
	log  *logger.Logger
}

// NewRecurringScheduler builds a scheduler using seconds-resolution
// cron expressions.
func NewRecurringScheduler(log *logger.Logger) *RecurringScheduler {
	return &RecurringScheduler{
		cron: cron.New(cron.WithSeconds()),
		log:  log,
	}
}

// AddTrial registers a cron expression that runs a fresh Run() call
// against ds/cfg each time it fires.
func (s *RecurringScheduler) AddTrial(expr string, ds *domain.Dataset, cfg config.Config, mgr *output.Manager, newStore StoreFactory) error {
	_, err := s.cron.AddFunc(expr, func() {
		results, err := Run(ds, cfg, s.log, mgr, newStore)
		if err != nil {
			s.log.Error("scheduled trial run failed", "error", err)
			return
		}
		for _, r := range results {
			s.log.Info("scheduled trial finished", "trial_id", r.TrialID, "accepted_rules", len(r.Rules))
		}
	})
	if err != nil {
		return fmt.Errorf("registering cron schedule %q: %w", expr, err)
	}
	return nil
}

// Start begins firing registered schedules in the background.
func (s *RecurringScheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler and waits for any in-flight run to finish.
func (s *RecurringScheduler) Stop() {
	<-s.cron.Stop().Done()
}
