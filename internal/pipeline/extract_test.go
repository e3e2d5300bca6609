package pipeline

import (
	"testing"

	"picklist/internal"
)

func TestParsePDFLineData(t *testing.T) {
	line := "12 CI00123 ABC123Bacha de acero inoxidable 3,00 1.250 DEP"
	row, ok := parsePDFLine(line)
	if !ok {
		t.Fatal("data line not parsed")
	}
	want := []string{"12", "CI00123", "ABC123", "Bacha de acero inoxidable", "3,00", "1.250", "DEP", ""}
	if len(row.Cells) != len(want) {
		t.Fatalf("cells=%v", row.Cells)
	}
	for i, w := range want {
		if row.Cells[i] != w {
			t.Fatalf("cell %d: got %q want %q", i, row.Cells[i], w)
		}
	}
}

func TestParsePDFLineMarker(t *testing.T) {
	row, ok := parsePDFLine("PREPARO: ______ COMIENZO: ______")
	if !ok {
		t.Fatal("marker line must flow through to the boundary filter")
	}
	if !IsMarkerRow(row) {
		t.Fatalf("marker row not recognized: %+v", row)
	}
}

func TestParsePDFLineNoise(t *testing.T) {
	noise := []string{
		"PICKING LIST",
		"N°: 12345",
		"FECHA: 01/08/2026",
		"HORA: 09:30:00",
		"CONTROLO: ______",
		"Página 2 de 5",
		"COD VIEJO ARTICULO",
		"texto suelto sin formato de fila",
		"",
	}
	for _, line := range noise {
		if _, ok := parsePDFLine(line); ok {
			t.Fatalf("noise line parsed as row: %q", line)
		}
	}
}

func TestDetectPickingList(t *testing.T) {
	positive := DetectPickingList("PICKING LIST N°: 1\nCOD VIEJO ARTICULO CANTIDAD", 12)
	if !positive.IsPickingList {
		t.Fatalf("picking list rejected: %+v", positive)
	}
	negative := DetectPickingList("FACTURA A 0001-00001234", 0)
	if negative.IsPickingList {
		t.Fatalf("unrelated document accepted: %+v", negative)
	}
}

func TestIsPackingPage(t *testing.T) {
	text := "Codigo Cliente LN Articulo Liberado"
	if !isPackingPage(text) {
		t.Fatal("packing page not detected")
	}
	if isPackingPage("PICKING LIST N°: 1") {
		t.Fatal("picking page misdetected as packing")
	}
}

func TestParseDocumentHeader(t *testing.T) {
	text := "PICKING LIST\nN°: 4821\nFECHA: 01/08/2026 HORA: 09:30:15\nEstado: COMPLETO\n"
	h := parseDocumentHeader(text)
	if h.Numero != "4821" || h.Fecha != "01/08/2026" || h.Hora != "09:30:15" || h.Estado != "COMPLETO" {
		t.Fatalf("header=%+v", h)
	}
}

func TestExtractHTML(t *testing.T) {
	html := `<html><body><table>
<tr><th>Línea</th><th>Código</th><th>Cod Viejo</th><th>Artículo</th><th>Cantidad</th><th>Stock</th><th>Almacén</th><th>Listo</th></tr>
<tr><td>1</td><td>CI0001</td><td>200</td><td>Bacha acero</td><td>2,00</td><td>5</td><td>DEP</td><td></td></tr>
<tr><td>2</td><td>CI0002</td><td>100</td><td>Griferia FV</td><td>3,00</td><td>9</td><td>DEP</td><td>x</td></tr>
</table></body></html>`

	ext, err := ExtractHTML([]byte(html))
	if err != nil {
		t.Fatal(err)
	}
	if len(ext.Rows) != 3 {
		t.Fatalf("rows=%d want 3 (header + 2 data)", len(ext.Rows))
	}
	for _, row := range ext.Rows {
		if len(row.Cells) != internal.ColumnCount {
			t.Fatalf("cells=%d want %d", len(row.Cells), internal.ColumnCount)
		}
		if row.Source != internal.SourceHTML {
			t.Fatalf("source=%s", row.Source)
		}
	}
}
