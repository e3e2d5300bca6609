package pipeline

import (
	"sort"

	"picklist/internal"
)

// Consolidate merges records sharing an OldCode into one record each.
// The first occurrence of a code fixes every field; later occurrences
// only add their Quantity. Output preserves first-seen order; records
// are new instances, the inputs are never mutated.
func Consolidate(rows []MappedRow) []internal.Record {
	byCode := map[string]int{}
	out := make([]internal.Record, 0, len(rows))

	for _, row := range rows {
		if row.Record == nil {
			continue
		}
		rec := *row.Record
		if idx, seen := byCode[rec.OldCode]; seen {
			out[idx].Quantity += rec.Quantity
			continue
		}
		byCode[rec.OldCode] = len(out)
		out = append(out, rec)
	}

	return out
}

// SortRecords orders consolidated records lexicographically by OldCode.
// The sort is stable; codes are unique after consolidation, so ties can
// only occur on unconsolidated input.
func SortRecords(records []internal.Record) {
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].OldCode < records[j].OldCode
	})
}
