// Package dataset loads the CSV record matrix the search runs over and
// turns it into a domain.Dataset: trinary attribute columns, a
// continuous target column, and parsed timestamps.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
)

// columns the loader treats as reserved: the target value and the
// record timestamp. Every other header becomes an attribute.
const (
	targetColumn    = "X"
	timestampColumn = "T"
)

// Sentinel errors for the input-malformed class of failure: fatal
// before any trial starts, surfaced to the caller verbatim.
var (
	ErrMissingTargetColumn    = errors.New("dataset missing required X column")
	ErrMissingTimestampColumn = errors.New("dataset missing required T/timestamp column")
	ErrNoAttributeColumns     = errors.New("dataset has no attribute columns besides X/T")
)

// Load reads path as CSV and builds a Dataset. maxLag and futureSpan
// are the run's configured values; they determine the safe evaluated
// range [SafeLo, SafeHi).
func Load(path string, maxLag, futureSpan int) (*domain.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening dataset %q: %w", path, err)
	}
	defer f.Close()

	return Read(f, maxLag, futureSpan)
}

// Read parses r as CSV. Exported separately from Load so tests can
// feed an in-memory reader.
func Read(r io.Reader, maxLag, futureSpan int) (*domain.Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}

	targetIdx, timestampIdx := -1, -1
	attrNames := make([]string, 0, len(header))
	attrIdx := make([]int, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(h)
		switch {
		case h == targetColumn:
			targetIdx = i
		case h == timestampColumn || strings.EqualFold(h, "timestamp"):
			timestampIdx = i
		default:
			attrNames = append(attrNames, h)
			attrIdx = append(attrIdx, i)
		}
	}
	if targetIdx == -1 {
		return nil, ErrMissingTargetColumn
	}
	if timestampIdx == -1 {
		return nil, ErrMissingTimestampColumn
	}
	if len(attrNames) == 0 {
		return nil, ErrNoAttributeColumns
	}

	ds := &domain.Dataset{
		AttributeNames: attrNames,
		MaxLag:         maxLag,
		FutureSpan:     futureSpan,
	}

	ordinalBase := -1
	row := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading row %d: %w", row, err)
		}
		row++

		x, err := strconv.ParseFloat(strings.TrimSpace(rec[targetIdx]), 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing %q column %q: %w", row, targetColumn, rec[targetIdx], err)
		}

		ts, err := parseTimestamp(strings.TrimSpace(rec[timestampIdx]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parsing %q column %q: %w", row, timestampColumn, rec[timestampIdx], err)
		}
		if ordinalBase == -1 {
			ordinalBase = ts.Ordinal
		}
		ts.Ordinal -= ordinalBase

		attrs := make([]domain.AttrState, len(attrIdx))
		for k, idx := range attrIdx {
			state, err := parseAttrState(strings.TrimSpace(rec[idx]))
			if err != nil {
				return nil, fmt.Errorf("row %d: parsing attribute %q value %q: %w", row, attrNames[k], rec[idx], err)
			}
			attrs[k] = state
		}

		ds.Target = append(ds.Target, x)
		ds.Timestamps = append(ds.Timestamps, ts)
		ds.Attributes = append(ds.Attributes, attrs)
	}

	n := ds.NumRecords()
	ds.SafeLo = maxLag
	ds.SafeHi = n - futureSpan
	if ds.SafeHi < ds.SafeLo {
		ds.SafeHi = ds.SafeLo
	}

	return ds, nil
}

// parseAttrState accepts 1/0/-1 and the more readable true/false/na
// spellings.
func parseAttrState(s string) (domain.AttrState, error) {
	switch strings.ToLower(s) {
	case "1", "true", "yes", "y":
		return domain.AttrTrue, nil
	case "0", "false", "no", "n":
		return domain.AttrFalse, nil
	case "-1", "na", "n/a", "missing", "":
		return domain.AttrMissing, nil
	default:
		return 0, fmt.Errorf("unrecognized trinary value %q", s)
	}
}

// parseTimestamp parses a YYYY-MM-DD date and derives quarter, weekday
// (ISO 1=Monday..7=Sunday), and an ordinal day number monotone with
// real time.
func parseTimestamp(s string) (domain.Timestamp, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return domain.Timestamp{}, err
	}

	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}

	return domain.Timestamp{
		Year:    t.Year(),
		Month:   int(t.Month()),
		Day:     t.Day(),
		Quarter: (int(t.Month())-1)/3 + 1,
		Weekday: weekday,
		Ordinal: int(t.Unix() / 86400),
	}, nil
}
