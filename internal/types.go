package internal

// RowSource identifies the extraction backend a raw row came from.
type RowSource string

const (
	SourcePDF  RowSource = "pdf"
	SourceXLSX RowSource = "xlsx"
	SourceHTML RowSource = "html_table"
	SourceEML  RowSource = "eml"
)

// Fixed column order of the picking-list table.
const (
	ColLinea = iota
	ColCodigo
	ColCodigoViejo
	ColArticulo
	ColCantidad
	ColStock
	ColAlmacen
	ColListo
	ColumnCount
)

// RawRow is one extracted table row: positional cell strings, not yet
// semantically typed. Discarded after schema mapping.
type RawRow struct {
	Page   int
	Source RowSource
	Cells  []string
}

// Record is the canonical picking-list entity. OldCode is the
// consolidation and sort key; Quantity is additive across duplicates,
// the remaining fields are representative (taken from the first
// contributing row).
type Record struct {
	LineNo    int
	Code      string
	OldCode   string
	Article   string
	Quantity  float64
	Stock     float64
	Warehouse string
	Done      bool
}

// IssueKind classifies a recoverable per-row problem.
type IssueKind string

const (
	IssueCellCount IssueKind = "cell_count"
	IssueEmptyCode IssueKind = "empty_old_code"
	IssueBadQty    IssueKind = "bad_quantity"
)

// RowIssue records a row the pipeline skipped or degraded instead of
// aborting the batch.
type RowIssue struct {
	LineNo int       `json:"lineNo"`
	Kind   IssueKind `json:"kind"`
	Raw    string    `json:"raw"`
}

// DocumentHeader carries the page-1 metadata of the source document.
type DocumentHeader struct {
	Numero string
	Fecha  string
	Hora   string
	Estado string
}

// RunSummary is the aggregate outcome of one pipeline invocation.
type RunSummary struct {
	Extracted    int  `json:"extracted"`
	Mapped       int  `json:"mapped"`
	Skipped      int  `json:"skipped"`
	Consolidated int  `json:"consolidated"`
	Duplicates   int  `json:"duplicates"`
	MarkerFound  bool `json:"markerFound"`
	// PackingPage is 0 when no packing section page was detected.
	PackingPage int `json:"packingPage,omitempty"`
}

// DocumentRow mirrors the documents table.
type DocumentRow struct {
	ID        int
	Filename  string
	Kind      string
	Hash      string
	Status    string
	RawRef    string
	CreatedAt string
	UpdatedAt string
}

// ExportRow is one rendered line of the output document: records after
// consolidation, sorting and formatting, renumbered 1..n.
type ExportRow struct {
	Line      int
	OldCode   string
	Article   string
	Stock     float64
	Quantity  float64
	Warehouse string
	Done      bool
}
