package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"picklist/internal/config"
	"picklist/internal/storage"
)

const fixtureHTML = `<html><body><table>
<tr><th>Línea</th><th>Código</th><th>Cod Viejo</th><th>Artículo</th><th>Cantidad</th><th>Stock</th><th>Almacén</th><th>Listo</th></tr>
<tr><td>1</td><td>CI0001</td><td>B12</td><td>Bacha de acero</td><td>2,00</td><td>5</td><td>DEP</td><td></td></tr>
<tr><td>2</td><td>CI0002</td><td>A3</td><td>Griferia FV</td><td>1,00</td><td>4</td><td>DEP</td><td></td></tr>
<tr><td>3</td><td>CI0001</td><td>B12</td><td>Bacha de acero</td><td>3,00</td><td>9</td><td>DEP</td><td></td></tr>
<tr><td colspan="8">PREPARO: ______</td></tr>
<tr><td>4</td><td>CI0009</td><td>Z99</td><td>Packing</td><td>7,00</td><td>1</td><td>DEP</td><td></td></tr>
</table></body></html>`

func TestSmokeDocumentToXLSX(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cfg, _ := config.Load()
	intake := NewIntakeService(db, filepath.Join(tmp, "raw"))
	doc, err := intake.Store("picking.html", "html", []byte(fixtureHTML))
	if err != nil {
		t.Fatal(err)
	}

	proc := NewProcessingService(db, cfg)
	res, err := proc.ProcessDocument(doc)
	if err != nil {
		t.Fatal(err)
	}
	if res.Summary.Consolidated != 2 {
		t.Fatalf("consolidated=%d want 2", res.Summary.Consolidated)
	}
	if !res.Summary.MarkerFound {
		t.Fatal("marker not detected")
	}

	rows, header, err := proc.ExportRows(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("export rows=%d want 2", len(rows))
	}
	if rows[0].OldCode != "A3" || rows[1].OldCode != "B12" {
		t.Fatalf("export order: %q, %q", rows[0].OldCode, rows[1].OldCode)
	}
	if rows[1].Quantity != 5 {
		t.Fatalf("b12 quantity=%v want 5", rows[1].Quantity)
	}

	out := filepath.Join(tmp, "result.xlsx")
	if err := RenderXLSXToFile(rows, header, out); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Fatal(err)
	}
}

func TestSmokeReprocessReplacesResults(t *testing.T) {
	tmp := t.TempDir()
	db, err := storage.Open(filepath.Join(tmp, "app.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer db.Close()

	cfg, _ := config.Load()
	intake := NewIntakeService(db, filepath.Join(tmp, "raw"))
	doc, err := intake.Store("picking.html", "html", []byte(fixtureHTML))
	if err != nil {
		t.Fatal(err)
	}

	proc := NewProcessingService(db, cfg)
	if _, err := proc.ProcessDocument(doc); err != nil {
		t.Fatal(err)
	}
	if _, err := proc.ProcessDocument(doc); err != nil {
		t.Fatal(err)
	}

	records, err := db.GetRecords(doc.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("records=%d want 2 after reprocess", len(records))
	}
}
