package pipeline

import (
	"errors"

	"picklist/internal"
)

// ErrNoDataRows is returned when a document yields no usable picking
// rows at all, so the caller can surface "nothing to process" instead
// of a silent empty output.
var ErrNoDataRows = errors.New("no picking rows found in document")

// ErrNotPickingList is returned when the first page of a PDF does not
// look like a picking list at all, so an unrelated document fails early
// with a clear message.
var ErrNotPickingList = errors.New("document does not look like a picking list")

// Result is the outcome of one pipeline invocation over a raw row
// stream: the canonical sorted record set plus the per-row issues and
// aggregate counts.
type Result struct {
	Records []internal.Record
	Issues  []internal.RowIssue
	Summary internal.RunSummary
}

// Run executes the map -> filter -> consolidate -> sort pipeline. It is
// a pure function of its input rows; every invocation works on its own
// state, so concurrent runs over independent documents need no
// synchronization.
func Run(rows []internal.RawRow) (Result, error) {
	mapped := MapRows(rows)
	kept, markerFound := FilterRows(mapped)

	issues := make([]internal.RowIssue, 0)
	mappedCount := 0
	for _, row := range kept {
		if row.Issue != nil {
			issues = append(issues, *row.Issue)
		}
		if row.Record != nil {
			mappedCount++
		}
	}

	records := Consolidate(kept)
	SortRecords(records)

	res := Result{
		Records: records,
		Issues:  issues,
		Summary: internal.RunSummary{
			Extracted:    len(rows),
			Mapped:       mappedCount,
			Skipped:      len(issues),
			Consolidated: len(records),
			Duplicates:   mappedCount - len(records),
			MarkerFound:  markerFound,
		},
	}
	if len(records) == 0 {
		return res, ErrNoDataRows
	}
	return res, nil
}
