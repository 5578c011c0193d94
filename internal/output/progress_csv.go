package output

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/evolve"
)

// ProgressCSVWriter implements ProgressObserver by appending one row
// per generation: trial id, generation, cumulative accepted rule
// count, high-support count, low-variance count, mean fitness.
type ProgressCSVWriter struct {
	w             *csv.Writer
	headerWritten bool
}

// NewProgressCSVWriter wraps w; the header row is written on the
// first OnGeneration call.
func NewProgressCSVWriter(w io.Writer) *ProgressCSVWriter {
	return &ProgressCSVWriter{w: csv.NewWriter(w)}
}

func (p *ProgressCSVWriter) OnGeneration(trialID string, stats evolve.Stats) {
	if !p.headerWritten {
		_ = p.w.Write([]string{"trial_id", "generation", "accepted_total", "high_support_count", "low_variance_count", "mean_fitness"})
		p.headerWritten = true
	}

	_ = p.w.Write([]string{
		trialID,
		strconv.Itoa(stats.Generation),
		strconv.Itoa(stats.AcceptedTotal),
		strconv.Itoa(stats.HighSupportCount),
		strconv.Itoa(stats.LowVarianceCount),
		strconv.FormatFloat(stats.MeanFitness, 'g', -1, 64),
	})
	p.w.Flush()
}
