package pipeline

import (
	"testing"

	"picklist/internal"
)

func dataRow(cells ...string) internal.RawRow {
	return internal.RawRow{Source: internal.SourceXLSX, Cells: cells}
}

func TestMapRowData(t *testing.T) {
	row := dataRow("12", "CI0001", "100", "Bacha de acero", "2,00", "1.250", "DEP", "")
	mapped := MapRow(row)
	if mapped.Record == nil {
		t.Fatalf("expected record, issue=%+v", mapped.Issue)
	}
	rec := mapped.Record
	if rec.LineNo != 12 || rec.Code != "CI0001" || rec.OldCode != "100" {
		t.Fatalf("bad identity fields: %+v", rec)
	}
	if rec.Quantity != 2 || rec.Stock != 1250 || rec.Warehouse != "DEP" || rec.Done {
		t.Fatalf("bad value fields: %+v", rec)
	}
}

func TestMapRowHeaderRepeat(t *testing.T) {
	row := dataRow("Línea", "Código", "Cod Viejo", "Artículo", "Cantidad", "Stock", "Almacén", "Listo")
	mapped := MapRow(row)
	if mapped.Record != nil || mapped.Issue != nil {
		t.Fatalf("header repeat should be silently dropped: %+v", mapped)
	}
}

func TestMapRowWrongCellCount(t *testing.T) {
	mapped := MapRow(dataRow("1", "CI0001", "100"))
	if mapped.Record != nil {
		t.Fatal("short row should not map")
	}
	if mapped.Issue == nil || mapped.Issue.Kind != internal.IssueCellCount {
		t.Fatalf("expected cell_count issue, got %+v", mapped.Issue)
	}
}

func TestMapRowBlankRowIgnored(t *testing.T) {
	mapped := MapRow(dataRow("", ""))
	if mapped.Record != nil || mapped.Issue != nil {
		t.Fatalf("blank row should be silently dropped: %+v", mapped)
	}
}

func TestMapRowEmptyOldCode(t *testing.T) {
	mapped := MapRow(dataRow("3", "CI0002", "", "Griferia", "1,00", "4", "DEP", ""))
	if mapped.Record != nil {
		t.Fatal("row without old code cannot be a data row")
	}
	if mapped.Issue == nil || mapped.Issue.Kind != internal.IssueEmptyCode {
		t.Fatalf("expected empty_old_code issue, got %+v", mapped.Issue)
	}
}

func TestMapRowBadQuantity(t *testing.T) {
	mapped := MapRow(dataRow("4", "CI0003", "200", "Griferia", "n/a", "4", "DEP", ""))
	if mapped.Record == nil {
		t.Fatal("bad quantity should degrade, not drop")
	}
	if mapped.Record.Quantity != 0 {
		t.Fatalf("quantity=%v want 0", mapped.Record.Quantity)
	}
	if mapped.Issue == nil || mapped.Issue.Kind != internal.IssueBadQty {
		t.Fatalf("expected bad_quantity issue, got %+v", mapped.Issue)
	}
}
