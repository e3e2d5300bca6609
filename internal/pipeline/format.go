package pipeline

import (
	"picklist/internal"
	"picklist/internal/util"
)

// maxArticleLen is the display cutoff for the article description.
const maxArticleLen = 50

// FormatRecords prepares sorted records for the renderer: line numbers
// renumbered 1..n and articles cut to maxArticleLen runes. Operates on
// copies; the canonical records stay untouched for re-export.
func FormatRecords(records []internal.Record) []internal.ExportRow {
	out := make([]internal.ExportRow, 0, len(records))
	for i, rec := range records {
		out = append(out, internal.ExportRow{
			Line:      i + 1,
			OldCode:   rec.OldCode,
			Article:   util.Truncate(rec.Article, maxArticleLen),
			Stock:     rec.Stock,
			Quantity:  rec.Quantity,
			Warehouse: rec.Warehouse,
			Done:      rec.Done,
		})
	}
	return out
}
