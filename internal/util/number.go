package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	dotThousands   = regexp.MustCompile(`^-?\d{1,3}(?:\.\d{3})+$`)
	commaThousands = regexp.MustCompile(`^-?\d{1,3}(?:,\d{3})+$`)
)

// ParseNumber parses a locale-formatted numeric cell. The source system
// prints quantities with a comma decimal ("3,00") and stock with dot
// thousands separators ("1.234"), but exports re-saved through a
// spreadsheet may carry either convention, so both are accepted.
func ParseNumber(input string) (float64, bool) {
	token := strings.TrimSpace(strings.ReplaceAll(input, "\u00A0", " "))
	token = strings.ReplaceAll(token, " ", "")
	if token == "" {
		return 0, false
	}

	switch {
	case dotThousands.MatchString(token):
		token = strings.ReplaceAll(token, ".", "")
	case commaThousands.MatchString(token):
		token = strings.ReplaceAll(token, ",", "")
	case strings.Contains(token, ",") && strings.Contains(token, "."):
		// "1.234,56" -> dot groups, comma decimal
		if strings.LastIndex(token, ",") > strings.LastIndex(token, ".") {
			token = strings.ReplaceAll(token, ".", "")
			token = strings.ReplaceAll(token, ",", ".")
		} else {
			token = strings.ReplaceAll(token, ",", "")
		}
	case strings.Contains(token, ","):
		token = strings.ReplaceAll(token, ",", ".")
	}

	parsed, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0, false
	}
	return parsed, true
}

// ParseDone interprets a checkbox-style cell value.
func ParseDone(input string) bool {
	switch strings.ToLower(strings.TrimSpace(input)) {
	case "x", "si", "sí", "s", "ok", "1", "true", "✓", "✔":
		return true
	}
	return false
}

// FormatQuantity prints whole quantities without decimals and fractional
// ones with two, matching the rendered document.
func FormatQuantity(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FormatStock rounds stock to a whole number for display.
func FormatStock(v float64) string {
	if v == float64(int64(v)) {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', 0, 64)
}
