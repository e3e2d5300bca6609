package pipeline

import (
	"strings"
	"testing"

	"picklist/internal"
)

func TestFormatRecordsTruncatesArticle(t *testing.T) {
	long := strings.Repeat("x", 80)
	records := []internal.Record{{OldCode: "100", Article: long, Quantity: 1}}

	rows := FormatRecords(records)
	if len(rows) != 1 {
		t.Fatalf("len=%d", len(rows))
	}
	if rows[0].Article != long[:50] {
		t.Fatalf("article=%q want first 50 chars", rows[0].Article)
	}
	if records[0].Article != long {
		t.Fatal("canonical record mutated by formatting")
	}
}

func TestFormatRecordsIdempotent(t *testing.T) {
	records := []internal.Record{{OldCode: "100", Article: "corto", Quantity: 1}}
	once := FormatRecords(records)

	again := FormatRecords([]internal.Record{{OldCode: once[0].OldCode, Article: once[0].Article, Quantity: once[0].Quantity}})
	if again[0].Article != once[0].Article {
		t.Fatal("formatting an already-formatted article changed it")
	}
}

func TestFormatRecordsRenumbers(t *testing.T) {
	records := []internal.Record{
		{LineNo: 42, OldCode: "A10"},
		{LineNo: 7, OldCode: "A3"},
	}

	rows := FormatRecords(records)
	if rows[0].Line != 1 || rows[1].Line != 2 {
		t.Fatalf("lines=%d,%d want 1,2", rows[0].Line, rows[1].Line)
	}
}
