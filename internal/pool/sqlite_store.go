package pool

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	_ "modernc.org/sqlite"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
)

// ruleRow is the bun-mapped persistence shape of domain.Rule. Canonical
// and Lags are flattened to strings since sqlite has no array column.
type ruleRow struct {
	bun.BaseModel `bun:"table:rules,alias:r"`

	ID            string `bun:",pk"`
	Canonical     string
	Lags          string
	NumAttributes int
	Dialect       int

	Mean1  float64
	Sigma1 float64
	Mean2  float64
	Sigma2 float64

	SupportCount         int
	EffectiveDenominator int
	HighSupportFlag      bool
	LowVarianceFlag      bool

	DominantQuadrant int
	Concentration    float64
}

// SQLiteStore durably persists accepted rules via bun over an embedded
// sqlite file, while keeping an in-memory MemoryStore for the hot-path
// dedup/capacity checks the generation loop needs on every acceptance.
type SQLiteStore struct {
	mem *MemoryStore
	db  *bun.DB
}

// OpenSQLiteStore opens (creating if absent) a sqlite-backed rule
// pool at path, capped at rMax-2 accepted rules.
func OpenSQLiteStore(ctx context.Context, path string, rMax int) (*SQLiteStore, error) {
	sqldb, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening rule pool database %q: %w", path, err)
	}

	db := bun.NewDB(sqldb, sqlitedialect.New())
	if _, err := db.NewCreateTable().Model((*ruleRow)(nil)).IfNotExists().Exec(ctx); err != nil {
		return nil, fmt.Errorf("creating rules table: %w", err)
	}

	return &SQLiteStore{mem: NewMemoryStore(rMax), db: db}, nil
}

func (s *SQLiteStore) Add(rule *domain.Rule) (added bool, duplicate bool, err error) {
	added, duplicate, err = s.mem.Add(rule)
	if err != nil || !added {
		return added, duplicate, err
	}

	row := toRow(rule)
	if _, err := s.db.NewInsert().Model(&row).Exec(context.Background()); err != nil {
		return false, false, fmt.Errorf("persisting rule %s: %w", rule.ID, err)
	}
	return true, false, nil
}

func (s *SQLiteStore) Full() bool            { return s.mem.Full() }
func (s *SQLiteStore) Len() int              { return s.mem.Len() }
func (s *SQLiteStore) All() []*domain.Rule   { return s.mem.All() }
func (s *SQLiteStore) HighSupportCount() int { return s.mem.HighSupportCount() }
func (s *SQLiteStore) LowVarianceCount() int { return s.mem.LowVarianceCount() }

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func toRow(r *domain.Rule) ruleRow {
	attrs := r.SortedAttributes()
	tokens := make([]string, len(attrs))
	lagTokens := make([]string, len(attrs))
	for i, a := range attrs {
		tokens[i] = strconv.Itoa(a)
		lagTokens[i] = fmt.Sprintf("%d:%d", a, r.Lags[a])
	}

	return ruleRow{
		ID:                   r.ID,
		Canonical:            strings.Join(tokens, ","),
		Lags:                 strings.Join(lagTokens, ","),
		NumAttributes:        r.NumAttributes,
		Dialect:              int(r.Dialect),
		Mean1:                r.Mean1,
		Sigma1:               r.Sigma1,
		Mean2:                r.Mean2,
		Sigma2:               r.Sigma2,
		SupportCount:         r.SupportCount,
		EffectiveDenominator: r.EffectiveDenominator,
		HighSupportFlag:      r.HighSupportFlag,
		LowVarianceFlag:      r.LowVarianceFlag,
		DominantQuadrant:     int(r.DominantQuadrant),
		Concentration:        r.Concentration,
	}
}
