package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
)

// WriteVerification renders the Dialect B per-rule verification CSV:
// one row per record in the dataset, with the record's timestamp, x
// value, the rule's mean/sigma, a matched flag, and the record's own
// month/quarter/weekday. matchedIndices is a snapshot taken at
// acceptance time, not the evaluator's reused per-generation buffer.
func WriteVerification(w io.Writer, ds *domain.Dataset, rule *domain.Rule, matchedIndices []int) error {
	matched := make(map[int]bool, len(matchedIndices))
	for _, i := range matchedIndices {
		matched[i] = true
	}

	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"timestamp", "x", "mean", "sigma", "matched", "month", "quarter", "weekday"}); err != nil {
		return fmt.Errorf("writing verification header: %w", err)
	}

	for i := 0; i < ds.NumRecords(); i++ {
		ts := ds.Timestamps[i]
		row := []string{
			formatTimestamp(ts),
			formatFloat(ds.Target[i]),
			formatFloat(rule.Mean1),
			formatFloat(rule.Sigma1),
			strconv.FormatBool(matched[i]),
			strconv.Itoa(ts.Month),
			strconv.Itoa(ts.Quarter),
			strconv.Itoa(ts.Weekday),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing verification row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
