package pipeline

import (
	"strings"

	"picklist/internal"
)

// markerText signals the structural end of the picking-list section and
// the start of the per-client packing list that follows it in the same
// document. Matched case-insensitively: the only structural separator
// the extraction backends can surface is this footer label, so a wrong
// match here silently corrupts output.
const markerText = "PREPARO:"

// IsMarkerRow reports whether any cell of the row contains the
// end-of-section marker.
func IsMarkerRow(row internal.RawRow) bool {
	for _, cell := range row.Cells {
		if strings.Contains(strings.ToUpper(cell), markerText) {
			return true
		}
	}
	return false
}

type boundaryState int

const (
	sectionPicking boundaryState = iota
	sectionDone
)

// BoundaryFilter truncates a mapped row stream at the first marker row.
// The marker row and every row after it, regardless of page, are
// excluded. A stream with no marker passes through untouched; that is
// the defined fallback, not an error.
type BoundaryFilter struct {
	state boundaryState
}

// Found reports whether the filter has seen the marker.
func (f *BoundaryFilter) Found() bool { return f.state == sectionDone }

// Keep advances the state machine by one row and reports whether the
// row belongs to the picking-list section.
func (f *BoundaryFilter) Keep(row MappedRow) bool {
	if f.state == sectionDone {
		return false
	}
	if IsMarkerRow(row.Raw) {
		f.state = sectionDone
		return false
	}
	return true
}

// FilterRows returns the prefix of rows preceding the first marker row
// and whether a marker was seen.
func FilterRows(rows []MappedRow) ([]MappedRow, bool) {
	f := &BoundaryFilter{}
	out := make([]MappedRow, 0, len(rows))
	for _, row := range rows {
		if f.Keep(row) {
			out = append(out, row)
		}
	}
	return out, f.Found()
}
