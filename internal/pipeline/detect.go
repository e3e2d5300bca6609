package pipeline

import (
	"regexp"
	"strings"

	"picklist/internal"
)

type DetectResult struct {
	IsPickingList bool
	Score         float64
	Reason        string
}

var detectKeywords = []string{"picking list", "cod viejo", "articulo", "artículo", "almacen", "almacén", "cantidad"}

// DetectPickingList scores the first-page text of a document for
// picking-list structure. Used as a sanity gate before running the
// pipeline, so an unrelated PDF fails with a clear message instead of
// an empty result.
func DetectPickingList(text string, rowCount int) DetectResult {
	lower := strings.ToLower(text)

	score := 0.0
	for _, kw := range detectKeywords {
		if strings.Contains(lower, kw) {
			score += 0.15
		}
	}
	if rowCount >= 5 {
		score += 0.4
	} else if rowCount >= 1 {
		score += 0.25
	}
	if score > 1 {
		score = 1
	}

	ok := score >= 0.4
	reason := "rules_negative"
	if ok {
		reason = "rules_positive"
	}
	return DetectResult{IsPickingList: ok, Score: score, Reason: reason}
}

var (
	reNumero = regexp.MustCompile(`N[°º]:\s*(\d+)`)
	reFecha  = regexp.MustCompile(`FECHA:\s*(\d{2}/\d{2}/\d{4})`)
	reHora   = regexp.MustCompile(`HORA:\s*(\d{2}:\d{2}:\d{2})`)
	reEstado = regexp.MustCompile(`Estado:\s*(\w+)`)
)

// parseDocumentHeader lifts the run metadata (number, date, time,
// state) off the first page's text.
func parseDocumentHeader(text string) internal.DocumentHeader {
	var h internal.DocumentHeader
	if m := reNumero.FindStringSubmatch(text); m != nil {
		h.Numero = m[1]
	}
	if m := reFecha.FindStringSubmatch(text); m != nil {
		h.Fecha = m[1]
	}
	if m := reHora.FindStringSubmatch(text); m != nil {
		h.Hora = m[1]
	}
	if m := reEstado.FindStringSubmatch(text); m != nil {
		h.Estado = m[1]
	}
	return h
}
