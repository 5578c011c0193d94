package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
)

// WriteRulePool renders rules to w as the rule-pool output contract:
// 8 attribute-with-lag tokens (NAME(t-ℓ) or 0 pad), mean(s),
// sigma(s), support_count, effective denominator, flags,
// num_attributes, and for Dialect B rules the dominant
// month/quarter/weekday and the start/end timestamps.
func WriteRulePool(w io.Writer, rules []*domain.Rule, attrNames []string, dialect domain.Dialect) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"attr1", "attr2", "attr3", "attr4", "attr5", "attr6", "attr7", "attr8",
		"mean1", "sigma1",
	}
	if dialect == domain.DialectB {
		header = append(header, "mean2", "sigma2")
	}
	header = append(header,
		"support_count", "effective_denominator",
		"high_support_flag", "low_variance_flag", "num_attributes",
	)
	if dialect == domain.DialectB {
		header = append(header,
			"dominant_month", "dominant_quarter", "dominant_weekday",
			"start_timestamp", "end_timestamp", "span_days",
		)
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing rule pool header: %w", err)
	}

	for _, r := range rules {
		row := make([]string, 0, len(header))
		for _, attr := range r.Canonical {
			if attr == 0 {
				row = append(row, "0")
				continue
			}
			name := fmt.Sprintf("attr%d", attr)
			if attr-1 < len(attrNames) {
				name = attrNames[attr-1]
			}
			row = append(row, fmt.Sprintf("%s(t-%d)", name, r.Lags[attr]))
		}

		row = append(row, formatFloat(r.Mean1), formatFloat(r.Sigma1))
		if dialect == domain.DialectB {
			row = append(row, formatFloat(r.Mean2), formatFloat(r.Sigma2))
		}
		row = append(row,
			strconv.Itoa(r.SupportCount),
			strconv.Itoa(r.EffectiveDenominator),
			strconv.FormatBool(r.HighSupportFlag),
			strconv.FormatBool(r.LowVarianceFlag),
			strconv.Itoa(r.NumAttributes),
		)
		if dialect == domain.DialectB && r.Summary != nil {
			row = append(row,
				strconv.Itoa(r.Summary.DominantMonth),
				strconv.Itoa(r.Summary.DominantQuarter),
				strconv.Itoa(r.Summary.DominantWeekday),
				formatTimestamp(r.Summary.StartTimestamp),
				formatTimestamp(r.Summary.EndTimestamp),
				strconv.Itoa(r.Summary.SpanDays),
			)
		} else if dialect == domain.DialectB {
			row = append(row, "", "", "", "", "", "")
		}

		if err := cw.Write(row); err != nil {
			return fmt.Errorf("writing rule %s: %w", r.ID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}

func formatTimestamp(ts domain.Timestamp) string {
	return fmt.Sprintf("%04d-%02d-%02d", ts.Year, ts.Month, ts.Day)
}
