package pipeline

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"picklist/internal"
	"picklist/internal/util"
)

var exportHeaders = []string{"#", "COD VIEJO", "ARTÍCULO", "STOCK", "CANT", "REAL", "✓"}

// exportWidths lays the columns out roughly as the printed list does:
// narrow line number, wide article, blank REAL and check columns for
// manual fill on the floor.
var exportWidths = []float64{5, 14, 52, 9, 7, 10, 5}

// RenderXLSX lays out the processed picking list as a workbook and
// returns it as downloadable bytes. The core supplies rows and column
// widths only; REAL and the check column stay empty.
func RenderXLSX(rows []internal.ExportRow, header internal.DocumentHeader) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	title := fmt.Sprintf("PICKING LIST N° %s", orDash(header.Numero))
	_ = f.SetCellValue(sheet, "A1", title)
	_ = f.SetCellValue(sheet, "A2", fmt.Sprintf("Fecha: %s | Hora: %s | Estado: %s",
		orNow(header.Fecha, "02/01/2006"), orNow(header.Hora, "15:04:05"), orDefault(header.Estado, "COMPLETO")))
	_ = f.SetCellValue(sheet, "A3", "Ordenado por Código Viejo - Duplicados consolidados")

	const headerRow = 5
	for i, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, headerRow)
		_ = f.SetCellValue(sheet, cell, h)
	}
	for i, width := range exportWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(sheet, col, col, width)
	}

	for i, row := range rows {
		r := headerRow + 1 + i
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}
		set(1, row.Line)
		set(2, row.OldCode)
		set(3, row.Article)
		set(4, util.FormatStock(row.Stock))
		set(5, util.FormatQuantity(row.Quantity))
		// REAL and check column left blank for manual fill.
	}

	footer := headerRow + len(rows) + 3
	cell, _ := excelize.CoordinatesToCellName(1, footer)
	_ = f.SetCellValue(sheet, cell, "PREPARO: ______________________  COMIENZO: ______________________")
	cell, _ = excelize.CoordinatesToCellName(1, footer+2)
	_ = f.SetCellValue(sheet, cell, "CONTROLÓ: ______________________  FINALIZADO: ______________________")

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// RenderXLSXToFile writes the rendered workbook to disk, creating the
// output directory when needed.
func RenderXLSXToFile(rows []internal.ExportRow, header internal.DocumentHeader, outputPath string) error {
	blob, err := RenderXLSX(rows, header)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(outputPath, blob, 0o644)
}

func orDash(v string) string {
	if v == "" {
		return "-"
	}
	return v
}

func orNow(v, layout string) string {
	if v == "" {
		return time.Now().Format(layout)
	}
	return v
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
