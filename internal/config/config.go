// Package config loads and validates the search's configuration
// surface: dimensional parameters, quality thresholds, mutation rates,
// and trial control. Nothing is hard-coded; every knob is overridable
// through CHRONORULE_-prefixed environment variables layered on top of
// an optional .env file.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
)

// Config is the full configuration surface of the search.
type Config struct {
	// Dimensional.
	StartNodes     int `validate:"gt=0"`
	JudgementNodes int `validate:"gt=0"`
	MaxDepth       int `validate:"gt=0"`
	Population     int `validate:"gt=0"`
	MaxLag         int `validate:"gte=0"`
	// DualHorizon switches FUTURE_SPAN semantics: false evaluates only
	// x_{t+1} (Dialect A); true also accumulates x_{t+2} (Dialect B).
	DualHorizon            bool
	RuleCapacity           int `validate:"gt=2"`
	HistoryLength          int `validate:"gt=0"`
	HistogramRefreshPeriod int `validate:"gt=0"`
	CrossoverCount         int `validate:"gte=0"`

	// Quality thresholds.
	Dialect          domain.Dialect
	SigmaMax         float64 `validate:"gte=0"`
	SupportMin       float64 `validate:"gte=0,lte=1"`
	ConcentrationMin float64 `validate:"gte=0,lte=1"`
	DeviationBound   float64 `validate:"gte=0"`
	HighSupportBonus float64 `validate:"gte=0"`
	LowVarianceBonus float64 `validate:"gte=0"`
	MinAttributes    int     `validate:"gte=1,lte=8"`

	// Fitness weights.
	WeightAttrCount     float64
	WeightSupport       float64
	WeightSigma         float64
	WeightConcentration float64
	WeightNovelty       float64
	SigmaEpsilon        float64 `validate:"gt=0"`
	TieBreakEpsilon     float64 `validate:"gt=0"`
	// RefreshBonus is the extra lag-usage weight an accepted rule adds
	// when it carries the high-support or low-variance flag.
	RefreshBonus int `validate:"gte=0"`

	// Mutation rates, each expressed as 1/d.
	RateStartNode  int `validate:"gt=0"`
	RateJudgeNext  int `validate:"gt=0"`
	RateLag        int `validate:"gt=0"`
	RateAttr       int `validate:"gt=0"`

	// Trial control.
	TrialCount   int `validate:"gt=0"`
	TrialStartID int `validate:"gte=0"`
	Generations  int `validate:"gt=0"`
	Seed         int64

	// Logging.
	LogLevel  string
	LogFormat string

	// Cache/persistence (ambient, optional).
	RedisURL   string
	PoolDBPath string
}

// Horizons returns the future-offset spans the evaluator accumulates
// statistics over: {1} for Dialect A, {1, 2} for Dialect B.
func (c Config) Horizons() []int {
	if c.DualHorizon {
		return []int{1, 2}
	}
	return []int{1}
}

// FutureSpan is the single horizon used to derive the dataset's safe
// range (I_hi = N - FUTURE_SPAN). For dual-horizon runs the
// wider span (t+2) governs the safe range.
func (c Config) FutureSpan() int {
	if c.DualHorizon {
		return 2
	}
	return 1
}

// Default returns the typical dimensional/threshold defaults.
func Default() Config {
	return Config{
		StartNodes:             10,
		JudgementNodes:         100,
		MaxDepth:               7,
		Population:             300, // divisible by 6, so the selection block math stays exact
		MaxLag:                 3,
		DualHorizon:            false,
		RuleCapacity:           200,
		HistoryLength:          5,
		HistogramRefreshPeriod: 5,
		CrossoverCount:         20,

		Dialect:          domain.DialectA,
		SigmaMax:         0.1,
		SupportMin:       0.4,
		ConcentrationMin: 0.5,
		DeviationBound:   0.005,
		HighSupportBonus: 0.02,
		LowVarianceBonus: 1.0,
		MinAttributes:    2,

		WeightAttrCount:     1,
		WeightSupport:       10,
		WeightSigma:         4,
		WeightConcentration: 100,
		WeightNovelty:       20,
		SigmaEpsilon:        0.1,
		TieBreakEpsilon:     1e-5,
		RefreshBonus:        1,

		RateStartNode: 1,
		RateJudgeNext: 6,
		RateLag:       6,
		RateAttr:      6,

		TrialCount:   1,
		TrialStartID: 0,
		Generations:  50,
		Seed:         42,

		LogLevel:  "info",
		LogFormat: "text",

		RedisURL:   "",
		PoolDBPath: "rules.db",
	}
}

// Load reads an optional .env file, then environment variables on top
// of Default(), and validates the result.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()

	cfg.StartNodes = getEnvAsInt("CHRONORULE_START_NODES", cfg.StartNodes)
	cfg.JudgementNodes = getEnvAsInt("CHRONORULE_JUDGEMENT_NODES", cfg.JudgementNodes)
	cfg.MaxDepth = getEnvAsInt("CHRONORULE_MAX_DEPTH", cfg.MaxDepth)
	cfg.Population = getEnvAsInt("CHRONORULE_POPULATION", cfg.Population)
	cfg.MaxLag = getEnvAsInt("CHRONORULE_MAX_LAG", cfg.MaxLag)
	cfg.DualHorizon = getEnvAsBool("CHRONORULE_DUAL_HORIZON", cfg.DualHorizon)
	cfg.RuleCapacity = getEnvAsInt("CHRONORULE_RULE_CAPACITY", cfg.RuleCapacity)
	cfg.HistoryLength = getEnvAsInt("CHRONORULE_HISTORY_LENGTH", cfg.HistoryLength)
	cfg.HistogramRefreshPeriod = getEnvAsInt("CHRONORULE_HISTOGRAM_REFRESH_PERIOD", cfg.HistogramRefreshPeriod)
	cfg.CrossoverCount = getEnvAsInt("CHRONORULE_CROSSOVER_COUNT", cfg.CrossoverCount)

	if getEnv("CHRONORULE_DIALECT", "A") == "B" {
		cfg.Dialect = domain.DialectB
		cfg.DualHorizon = true
	}

	cfg.SigmaMax = getEnvAsFloat("CHRONORULE_SIGMA_MAX", cfg.SigmaMax)
	cfg.SupportMin = getEnvAsFloat("CHRONORULE_SUPPORT_MIN", cfg.SupportMin)
	cfg.ConcentrationMin = getEnvAsFloat("CHRONORULE_CONCENTRATION_MIN", cfg.ConcentrationMin)
	cfg.DeviationBound = getEnvAsFloat("CHRONORULE_DEVIATION_BOUND", cfg.DeviationBound)
	cfg.HighSupportBonus = getEnvAsFloat("CHRONORULE_HIGH_SUPPORT_BONUS", cfg.HighSupportBonus)
	cfg.LowVarianceBonus = getEnvAsFloat("CHRONORULE_LOW_VARIANCE_BONUS", cfg.LowVarianceBonus)
	cfg.MinAttributes = getEnvAsInt("CHRONORULE_MIN_ATTRIBUTES", cfg.MinAttributes)
	cfg.RefreshBonus = getEnvAsInt("CHRONORULE_REFRESH_BONUS", cfg.RefreshBonus)

	cfg.RateStartNode = getEnvAsInt("CHRONORULE_RATE_START_NODE", cfg.RateStartNode)
	cfg.RateJudgeNext = getEnvAsInt("CHRONORULE_RATE_JUDGE_NEXT", cfg.RateJudgeNext)
	cfg.RateLag = getEnvAsInt("CHRONORULE_RATE_LAG", cfg.RateLag)
	cfg.RateAttr = getEnvAsInt("CHRONORULE_RATE_ATTR", cfg.RateAttr)

	cfg.TrialCount = getEnvAsInt("CHRONORULE_TRIAL_COUNT", cfg.TrialCount)
	cfg.TrialStartID = getEnvAsInt("CHRONORULE_TRIAL_START_ID", cfg.TrialStartID)
	cfg.Generations = getEnvAsInt("CHRONORULE_GENERATIONS", cfg.Generations)
	cfg.Seed = int64(getEnvAsInt("CHRONORULE_SEED", int(cfg.Seed)))

	cfg.LogLevel = getEnv("CHRONORULE_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("CHRONORULE_LOG_FORMAT", cfg.LogFormat)
	cfg.RedisURL = getEnv("CHRONORULE_REDIS_URL", cfg.RedisURL)
	cfg.PoolDBPath = getEnv("CHRONORULE_POOL_DB_PATH", cfg.PoolDBPath)

	if err := validate.Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

var validate = validator.New()

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvAsFloat(key string, fallback float64) float64 {
	if v, ok := os.LookupEnv(key); ok {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

