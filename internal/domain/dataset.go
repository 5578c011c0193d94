// Package domain holds the plain value types shared by every stage of
// the search: the dataset loaded once per run, the graph-program
// individuals bred generation over generation, and the rules they
// discover.
package domain

// AttrState is the trinary reading of an attribute cell.
type AttrState int8

const (
	// AttrFalse marks an attribute that did not fire on a record.
	AttrFalse AttrState = 0
	// AttrTrue marks an attribute that fired on a record.
	AttrTrue AttrState = 1
	// AttrMissing marks a record where the attribute reading is absent.
	AttrMissing AttrState = -1
)

// Timestamp is the parsed calendar form of one record's time column.
type Timestamp struct {
	Year    int
	Month   int
	Day     int
	Quarter int
	// Weekday is 1 (Monday) through 7 (Sunday).
	Weekday int
	// Ordinal is a day number monotone with real time, used for
	// start/end span calculations in the Dialect B temporal summary.
	Ordinal int
}

// Dataset is the immutable, shared-by-every-reader record matrix the
// evaluator walks. Rows are records in ascending time order.
type Dataset struct {
	AttributeNames []string
	// Attributes is N rows by K columns, trinary valued.
	Attributes [][]AttrState
	// Target is the continuous column X.
	Target []float64
	// Timestamps is the parsed T column.
	Timestamps []Timestamp

	MaxLag     int
	FutureSpan int

	// SafeLo/SafeHi bound the evaluated index range: [SafeLo, SafeHi).
	SafeLo int
	SafeHi int
}

// NumRecords returns N, the row count.
func (d *Dataset) NumRecords() int {
	return len(d.Target)
}

// NumAttributes returns K, the column count.
func (d *Dataset) NumAttributes() int {
	return len(d.AttributeNames)
}

// FutureTarget returns X at i+span, the future value a matched path's
// statistics accumulate against.
func (d *Dataset) FutureTarget(i, span int) float64 {
	return d.Target[i+span]
}
