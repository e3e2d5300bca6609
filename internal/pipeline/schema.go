package pipeline

import (
	"strconv"
	"strings"

	"picklist/internal"
	"picklist/internal/util"
)

// MappedRow pairs a raw row with its mapped record. Record is nil for
// non-data rows (header repeats, malformed rows, marker rows); Issue is
// set when the row was dropped or degraded for a reportable reason.
type MappedRow struct {
	Raw    internal.RawRow
	Record *internal.Record
	Issue  *internal.RowIssue
}

// Header labels that recur at the top of every page of the source
// document. Compared after NormalizeLabel, so accent and case variants
// collapse.
var headerLabels = map[string]struct{}{
	"linea":       {},
	"ln":          {},
	"codigo":      {},
	"cod":         {},
	"codviejo":    {},
	"codigoviejo": {},
	"articulo":    {},
}

// MapRow maps one raw row onto a Record. It is a pure function: the
// returned MappedRow carries either a Record, or an Issue explaining why
// the row is not a data row, or neither (silently ignorable rows such as
// repeated page headers and marker rows).
func MapRow(row internal.RawRow) MappedRow {
	out := MappedRow{Raw: row}

	if IsMarkerRow(row) {
		return out
	}
	if len(row.Cells) != internal.ColumnCount {
		if isBlankRow(row.Cells) {
			return out
		}
		out.Issue = &internal.RowIssue{Kind: internal.IssueCellCount, Raw: strings.Join(row.Cells, " | ")}
		return out
	}
	if isHeaderRepeat(row.Cells) {
		return out
	}

	lineNo, _ := strconv.Atoi(util.NormalizeSpaces(row.Cells[internal.ColLinea]))
	rec := internal.Record{
		LineNo:    lineNo,
		Code:      util.NormalizeSpaces(row.Cells[internal.ColCodigo]),
		OldCode:   util.NormalizeSpaces(row.Cells[internal.ColCodigoViejo]),
		Article:   util.NormalizeSpaces(row.Cells[internal.ColArticulo]),
		Warehouse: util.NormalizeSpaces(row.Cells[internal.ColAlmacen]),
		Done:      util.ParseDone(row.Cells[internal.ColListo]),
	}

	if rec.OldCode == "" {
		out.Issue = &internal.RowIssue{LineNo: lineNo, Kind: internal.IssueEmptyCode, Raw: strings.Join(row.Cells, " | ")}
		return out
	}

	if qty, ok := util.ParseNumber(row.Cells[internal.ColCantidad]); ok {
		rec.Quantity = qty
	} else {
		// Unparseable quantity contributes zero but the row still
		// counts for representative-value selection.
		out.Issue = &internal.RowIssue{LineNo: lineNo, Kind: internal.IssueBadQty, Raw: strings.Join(row.Cells, " | ")}
	}
	if stock, ok := util.ParseNumber(row.Cells[internal.ColStock]); ok {
		rec.Stock = stock
	}

	out.Record = &rec
	return out
}

// MapRows maps a raw row stream, keeping original order.
func MapRows(rows []internal.RawRow) []MappedRow {
	out := make([]MappedRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, MapRow(row))
	}
	return out
}

func isHeaderRepeat(cells []string) bool {
	_, codeIsLabel := headerLabels[util.NormalizeLabel(cells[internal.ColCodigo])]
	_, oldIsLabel := headerLabels[util.NormalizeLabel(cells[internal.ColCodigoViejo])]
	return codeIsLabel || oldIsLabel
}

func isBlankRow(cells []string) bool {
	for _, c := range cells {
		if util.NormalizeSpaces(c) != "" {
			return false
		}
	}
	return true
}
