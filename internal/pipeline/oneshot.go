package pipeline

import (
	"fmt"
	"os"
)

// ExtractFromInput runs the extraction backend matching the declared
// input type over a file on disk.
func ExtractFromInput(inputType, path string) (Extraction, error) {
	blob, err := os.ReadFile(path)
	if err != nil {
		return Extraction{}, err
	}
	return ExtractFromBytes(inputType, blob)
}

// ExtractFromBytes dispatches in-memory content to an extraction
// backend by declared type.
func ExtractFromBytes(inputType string, blob []byte) (Extraction, error) {
	switch inputType {
	case "pdf":
		return ExtractPDF(blob)
	case "xlsx":
		return ExtractXLSX(blob)
	case "html":
		return ExtractHTML(blob)
	case "eml":
		return ExtractEmailRaw(blob)
	default:
		return Extraction{}, fmt.Errorf("unsupported input type: %s", inputType)
	}
}
