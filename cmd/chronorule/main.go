// Command chronorule discovers temporal association rules in a
// time-series dataset by evolving populations of graph programs
// against it, then writes the accepted rule pool and per-generation
// progress to the configured output files.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/cache"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/config"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/dataset"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/logger"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/output"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/pool"
	"github.com/sugasuzu/ts-itemsb-sub003/internal/trial"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	inputPath := flag.String("input", "data.csv", "path to the input dataset CSV")
	outputDir := flag.String("output-dir", ".", "directory rule-pool and progress files are written to")
	serve := flag.Bool("serve", false, "run as a long-lived process that re-mines rules on a cron schedule")
	cronExpr := flag.String("cron", "0 0 * * * *", "cron expression (seconds resolution) used in -serve mode")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %q: %w", *outputDir, err)
	}

	ds, err := dataset.Load(*inputPath, cfg.MaxLag, cfg.FutureSpan())
	if err != nil {
		return fmt.Errorf("loading dataset %q: %w", *inputPath, err)
	}
	log.Info("dataset loaded", "records", ds.NumRecords(), "attributes", ds.NumAttributes())

	progressFile, err := os.Create(filepath.Join(*outputDir, "progress.csv"))
	if err != nil {
		return fmt.Errorf("creating progress file: %w", err)
	}
	defer progressFile.Close()

	mgr := output.NewManager(log)
	mgr.Register(output.NewProgressCSVWriter(progressFile))

	keyCache, err := newKeyCache(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("building rule key cache: %w", err)
	}
	defer keyCache.Close()

	newStore := func(t int) (pool.RuleStore, error) {
		path := filepath.Join(*outputDir, fmt.Sprintf("rules-trial-%d.db", cfg.TrialStartID+t))
		store, err := pool.OpenSQLiteStore(context.Background(), path, cfg.RuleCapacity)
		if err != nil {
			return nil, err
		}
		return pool.NewCachedStore(context.Background(), store, keyCache), nil
	}

	if *serve {
		return runServe(ds, cfg, log, mgr, newStore, *cronExpr)
	}

	return runOnce(ds, cfg, log, mgr, newStore, *outputDir)
}

// newKeyCache builds the rule-key cache that lets a -serve deployment
// recognize, across restarts, a canonical rule a prior process already
// accepted (internal/cache's stated purpose). It defaults to an
// in-process set and only reaches for Redis when configured.
func newKeyCache(ctx context.Context, cfg config.Config) (cache.KeyCache, error) {
	if cfg.RedisURL == "" {
		return cache.NewMemoryCache(), nil
	}
	return cache.NewRedisCache(ctx, cfg.RedisURL, "chronorule:rule:")
}

func runOnce(ds *domain.Dataset, cfg config.Config, log *logger.Logger, mgr *output.Manager, newStore trial.StoreFactory, outputDir string) error {
	results, err := trial.Run(ds, cfg, log, mgr, newStore)
	if err != nil {
		return fmt.Errorf("running trials: %w", err)
	}

	for _, r := range results {
		if err := writeRulePool(outputDir, r, ds, cfg); err != nil {
			return err
		}
		if cfg.Dialect == domain.DialectB {
			if err := writeVerificationFiles(outputDir, r, ds); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeVerificationFiles renders the Dialect B per-rule verification
// CSV for every rule a trial accepted.
func writeVerificationFiles(outputDir string, r trial.Result, ds *domain.Dataset) error {
	for _, rule := range r.Rules {
		path := filepath.Join(outputDir, fmt.Sprintf("verification-%s-%s.csv", r.TrialID, rule.ID))
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("creating verification file %q: %w", path, err)
		}
		err = output.WriteVerification(f, ds, rule, rule.MatchedIndices)
		closeErr := f.Close()
		if err != nil {
			return fmt.Errorf("writing verification file %q: %w", path, err)
		}
		if closeErr != nil {
			return fmt.Errorf("closing verification file %q: %w", path, closeErr)
		}
	}
	return nil
}

func runServe(ds *domain.Dataset, cfg config.Config, log *logger.Logger, mgr *output.Manager, newStore trial.StoreFactory, cronExpr string) error {
	sched := trial.NewRecurringScheduler(log)
	if err := sched.AddTrial(cronExpr, ds, cfg, mgr, newStore); err != nil {
		return fmt.Errorf("scheduling recurring trial: %w", err)
	}
	sched.Start()
	defer sched.Stop()

	log.Info("serving on cron schedule", "expr", cronExpr)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	<-ctx.Done()

	log.Info("shutting down")
	return nil
}

func writeRulePool(outputDir string, r trial.Result, ds *domain.Dataset, cfg config.Config) error {
	path := filepath.Join(outputDir, fmt.Sprintf("rulepool-%s.csv", r.TrialID))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating rule pool file %q: %w", path, err)
	}
	defer f.Close()

	if err := output.WriteRulePool(f, r.Rules, ds.AttributeNames, cfg.Dialect); err != nil {
		return fmt.Errorf("writing rule pool %q: %w", path, err)
	}
	return nil
}
