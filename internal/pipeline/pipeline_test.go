package pipeline

import (
	"errors"
	"testing"

	"picklist/internal"
)

func rawData(lineNo, code, oldCode, article, qty, stock string) internal.RawRow {
	return internal.RawRow{Source: internal.SourcePDF, Cells: []string{lineNo, code, oldCode, article, qty, stock, "DEP", ""}}
}

func TestRunFullPipeline(t *testing.T) {
	rows := []internal.RawRow{
		{Cells: []string{"Línea", "Código", "Cod Viejo", "Artículo", "Cantidad", "Stock", "Almacén", "Listo"}},
		rawData("1", "CI0001", "B12", "Bacha", "2,00", "5"),
		rawData("2", "CI0002", "A3", "Griferia", "1,00", "4"),
		rawData("3", "CI0001", "B12", "Bacha", "3,00", "9"),
		rawData("4", "CI0003", "A10", "Sifon", "1,50", "2"),
		rawData("5", "CI0004", "", "Sin codigo viejo", "9,00", "1"),
		{Cells: []string{"PREPARO: packing list"}},
		rawData("6", "CI0005", "Z99", "Posterior al marcador", "7,00", "3"),
	}

	result, err := Run(rows)
	if err != nil {
		t.Fatal(err)
	}

	wantOrder := []string{"A10", "A3", "B12"}
	if len(result.Records) != len(wantOrder) {
		t.Fatalf("records=%d want %d", len(result.Records), len(wantOrder))
	}
	for i, w := range wantOrder {
		if result.Records[i].OldCode != w {
			t.Fatalf("pos %d: got %q want %q", i, result.Records[i].OldCode, w)
		}
	}

	// B12 appears twice: quantities add, first stock kept.
	b12 := result.Records[2]
	if b12.Quantity != 5 || b12.Stock != 5 {
		t.Fatalf("b12=%+v", b12)
	}

	// Z99 comes after the marker and must be absent.
	for _, rec := range result.Records {
		if rec.OldCode == "Z99" {
			t.Fatal("row after marker leaked into output")
		}
	}

	if !result.Summary.MarkerFound {
		t.Fatal("marker not reported")
	}
	if result.Summary.Duplicates != 1 {
		t.Fatalf("duplicates=%d want 1", result.Summary.Duplicates)
	}
	if len(result.Issues) != 1 || result.Issues[0].Kind != internal.IssueEmptyCode {
		t.Fatalf("issues=%+v", result.Issues)
	}
}

func TestRunNoMarkerProcessesEverything(t *testing.T) {
	rows := []internal.RawRow{
		rawData("1", "CI0001", "100", "Bacha", "2,00", "5"),
		rawData("2", "CI0002", "200", "Griferia", "1,00", "4"),
	}

	result, err := Run(rows)
	if err != nil {
		t.Fatal(err)
	}
	if result.Summary.MarkerFound {
		t.Fatal("marker reported on marker-free input")
	}
	if len(result.Records) != 2 {
		t.Fatalf("records=%d want 2", len(result.Records))
	}
}

func TestRunEmptyInput(t *testing.T) {
	_, err := Run(nil)
	if !errors.Is(err, ErrNoDataRows) {
		t.Fatalf("err=%v want ErrNoDataRows", err)
	}
}

func TestRunQuantityConservation(t *testing.T) {
	rows := []internal.RawRow{
		rawData("1", "CI0001", "100", "Bacha", "2,50", "5"),
		rawData("2", "CI0002", "200", "Griferia", "1,00", "4"),
		rawData("3", "CI0003", "100", "Bacha", "0,50", "9"),
	}

	result, err := Run(rows)
	if err != nil {
		t.Fatal(err)
	}

	inputTotal := 2.5 + 1.0 + 0.5
	outputTotal := 0.0
	for _, rec := range result.Records {
		outputTotal += rec.Quantity
	}
	if outputTotal != inputTotal {
		t.Fatalf("output total=%v want %v", outputTotal, inputTotal)
	}
}
