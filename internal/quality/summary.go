package quality

import (
	"math"

	"github.com/sugasuzu/ts-itemsb-sub003/internal/domain"
)

// Summarize computes the Dialect B temporal-pattern attachment
// from a rule's matched indices. It never affects acceptance.
func Summarize(ds *domain.Dataset, matchedIndices []int) *domain.TemporalSummary {
	s := &domain.TemporalSummary{}
	if len(matchedIndices) == 0 {
		return s
	}

	var monthSum, monthSumSq [12]float64
	var quarterSum, quarterSumSq [4]float64
	var weekdaySum, weekdaySumSq [7]float64

	minOrdinal, maxOrdinal := math.MaxInt64, math.MinInt64
	var startTS, endTS domain.Timestamp

	for _, i := range matchedIndices {
		x1 := ds.FutureTarget(i, 1)
		ts := ds.Timestamps[i]

		mi := ts.Month - 1
		monthSum[mi] += x1
		monthSumSq[mi] += x1 * x1
		s.MonthCount[mi]++

		qi := ts.Quarter - 1
		quarterSum[qi] += x1
		quarterSumSq[qi] += x1 * x1
		s.QuarterCount[qi]++

		wi := ts.Weekday - 1
		weekdaySum[wi] += x1
		weekdaySumSq[wi] += x1 * x1
		s.WeekdayCount[wi]++

		if ts.Ordinal < minOrdinal {
			minOrdinal = ts.Ordinal
			startTS = ts
		}
		if ts.Ordinal > maxOrdinal {
			maxOrdinal = ts.Ordinal
			endTS = ts
		}
	}

	for m := 0; m < 12; m++ {
		s.MonthMean[m], s.MonthVar[m] = meanVar(monthSum[m], monthSumSq[m], s.MonthCount[m])
	}
	for q := 0; q < 4; q++ {
		s.QuarterMean[q], s.QuarterVar[q] = meanVar(quarterSum[q], quarterSumSq[q], s.QuarterCount[q])
	}
	for w := 0; w < 7; w++ {
		s.WeekdayMean[w], s.WeekdayVar[w] = meanVar(weekdaySum[w], weekdaySumSq[w], s.WeekdayCount[w])
	}

	s.DominantMonth = argmax(s.MonthCount[:]) + 1
	s.DominantQuarter = argmax(s.QuarterCount[:]) + 1
	s.DominantWeekday = argmax(s.WeekdayCount[:]) + 1

	s.StartTimestamp = startTS
	s.EndTimestamp = endTS
	s.SpanDays = maxOrdinal - minOrdinal

	return s
}

func meanVar(sum, sumSq float64, n int) (float64, float64) {
	if n == 0 {
		return 0, 0
	}
	mean := sum / float64(n)
	variance := sumSq/float64(n) - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, variance
}

func argmax(counts []int) int {
	best, bestIdx := -1, 0
	for i, c := range counts {
		if c > best {
			best, bestIdx = c, i
		}
	}
	return bestIdx
}
