package util

import (
	"regexp"
	"strings"
)

var (
	reSpaces    = regexp.MustCompile(`\s+`)
	reTitleCase = regexp.MustCompile(`[A-Z][a-záéíóúñü]`)
	reSoftBreak = regexp.MustCompile(`[\s*"]`)
	reNonLabel  = regexp.MustCompile(`[^a-z]`)
)

// NormalizeSpaces collapses runs of whitespace and trims the result.
func NormalizeSpaces(input string) string {
	return strings.TrimSpace(reSpaces.ReplaceAllString(strings.ReplaceAll(input, "\u00A0", " "), " "))
}

// SplitOldCodeArticle separates the legacy code prefix from the article
// description in a combined cell. Codes are upper-case/numeric; the
// article starts at the first TitleCase word ("CI12345Bacha..." ->
// "CI12345", "Bacha..."). When no such boundary exists the first
// space, asterisk or quote is used; otherwise the whole value is the
// code.
func SplitOldCodeArticle(resto string) (oldCode, article string) {
	if resto == "" {
		return "", ""
	}
	if loc := reTitleCase.FindStringIndex(resto); loc != nil && loc[0] > 0 {
		return strings.TrimSpace(resto[:loc[0]]), resto[loc[0]:]
	}
	if loc := reSoftBreak.FindStringIndex(resto); loc != nil {
		return strings.TrimSpace(resto[:loc[0]]), strings.TrimSpace(resto[loc[0]:])
	}
	return strings.TrimSpace(resto), ""
}

// NormalizeLabel lowercases a header cell and strips accents/punctuation
// so repeated per-page header rows compare stably ("Código Viejo" ->
// "codigoviejo").
func NormalizeLabel(input string) string {
	s := strings.ToLower(strings.TrimSpace(input))
	repl := strings.NewReplacer("á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n", "°", "", "º", "")
	s = repl.Replace(s)
	return reNonLabel.ReplaceAllString(s, "")
}

// Truncate cuts s to at most max runes. No ellipsis; idempotent.
func Truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}
