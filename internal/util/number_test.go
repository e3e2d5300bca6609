package util

import "testing"

func TestParseNumber(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  float64
	}{
		{name: "comma decimal", input: "3,00", want: 3},
		{name: "comma decimal fraction", input: "1,5", want: 1.5},
		{name: "dot decimal", input: "1.5", want: 1.5},
		{name: "dot thousands", input: "1.250", want: 1250},
		{name: "comma thousands", input: "1,250", want: 1250},
		{name: "mixed separators", input: "1.234,56", want: 1234.56},
		{name: "mixed separators us", input: "1,234.56", want: 1234.56},
		{name: "negative stock", input: "-12", want: -12},
		{name: "space thousands", input: "1 000", want: 1000},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := ParseNumber(tc.input)
			if !ok {
				t.Fatalf("ParseNumber(%q) not ok", tc.input)
			}
			if got != tc.want {
				t.Fatalf("got %v want %v", got, tc.want)
			}
		})
	}
}

func TestParseNumberRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "  ", "abc", "12abc"} {
		if _, ok := ParseNumber(input); ok {
			t.Fatalf("ParseNumber(%q) unexpectedly ok", input)
		}
	}
}

func TestParseDone(t *testing.T) {
	if !ParseDone("X") || !ParseDone("sí") || !ParseDone("✓") {
		t.Fatal("expected checked values to parse as done")
	}
	if ParseDone("") || ParseDone("no") {
		t.Fatal("expected unchecked values to parse as not done")
	}
}

func TestFormatQuantity(t *testing.T) {
	if got := FormatQuantity(5); got != "5" {
		t.Fatalf("got %q", got)
	}
	if got := FormatQuantity(2.5); got != "2.50" {
		t.Fatalf("got %q", got)
	}
}
