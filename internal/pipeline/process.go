package pipeline

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"time"

	"picklist/internal"
	"picklist/internal/config"
	"picklist/internal/storage"
)

type ProcessingService struct {
	db  *storage.DB
	cfg config.Config
}

func NewProcessingService(db *storage.DB, cfg config.Config) *ProcessingService {
	return &ProcessingService{db: db, cfg: cfg}
}

type ProcessResult struct {
	DocumentID int
	Header     internal.DocumentHeader
	Summary    internal.RunSummary
	Issues     []internal.RowIssue
}

// ProcessDocument runs the full pipeline over a stored document and
// persists the consolidated record set, replacing any previous run.
func (s *ProcessingService) ProcessDocument(doc internal.DocumentRow) (ProcessResult, error) {
	start := time.Now()
	raw, err := os.ReadFile(doc.RawRef)
	if err != nil {
		return ProcessResult{}, fmt.Errorf("read source document: %w", err)
	}

	ext, err := ExtractFromBytes(doc.Kind, raw)
	if err != nil {
		_ = s.db.UpdateDocumentStatus(doc.ID, "failed")
		return ProcessResult{}, fmt.Errorf("extract rows: %w", err)
	}
	if doc.Kind == "pdf" && !ext.Detect.IsPickingList {
		_ = s.db.UpdateDocumentStatus(doc.ID, "failed")
		return ProcessResult{}, fmt.Errorf("%w (score %.2f)", ErrNotPickingList, ext.Detect.Score)
	}

	if err := s.db.ClearDocumentResults(doc.ID); err != nil {
		return ProcessResult{}, err
	}

	result, err := Run(ext.Rows)
	result.Summary.PackingPage = ext.PackingPage
	if err != nil {
		_ = s.db.UpdateDocumentStatus(doc.ID, "failed")
		s.recordRun(doc.ID, start, result.Summary)
		return ProcessResult{DocumentID: doc.ID, Summary: result.Summary}, err
	}

	if err := s.db.InsertRecords(doc.ID, result.Records); err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.InsertIssues(doc.ID, result.Issues); err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.SetDocumentHeader(doc.ID, ext.Header); err != nil {
		return ProcessResult{}, err
	}
	if err := s.db.UpdateDocumentStatus(doc.ID, "processed"); err != nil {
		return ProcessResult{}, err
	}
	s.recordRun(doc.ID, start, result.Summary)

	slog.Info("document processed",
		"document_id", doc.ID,
		"extracted", result.Summary.Extracted,
		"consolidated", result.Summary.Consolidated,
		"duplicates", result.Summary.Duplicates,
		"skipped", result.Summary.Skipped,
		"marker_found", result.Summary.MarkerFound,
	)

	return ProcessResult{
		DocumentID: doc.ID,
		Header:     ext.Header,
		Summary:    result.Summary,
		Issues:     result.Issues,
	}, nil
}

// ProcessPending processes stored documents that have not been run yet.
func (s *ProcessingService) ProcessPending(limit int) (int, error) {
	pending, err := s.db.ListDocumentsByStatus("stored", limit)
	if err != nil {
		return 0, err
	}
	processed := 0
	for _, doc := range pending {
		if _, err := s.ProcessDocument(doc); err != nil {
			return processed, err
		}
		processed++
	}
	return processed, nil
}

// ExportRows loads a processed document's records, formats them and
// returns the renderer input together with the stored header.
func (s *ProcessingService) ExportRows(documentID int) ([]internal.ExportRow, internal.DocumentHeader, error) {
	records, err := s.db.GetRecords(documentID)
	if err != nil {
		return nil, internal.DocumentHeader{}, err
	}
	if len(records) == 0 {
		return nil, internal.DocumentHeader{}, ErrNoDataRows
	}
	header, err := s.db.GetDocumentHeader(documentID)
	if err != nil {
		return nil, internal.DocumentHeader{}, err
	}
	return FormatRecords(records), header, nil
}

func (s *ProcessingService) recordRun(documentID int, start time.Time, summary internal.RunSummary) {
	_ = s.db.InsertRun(traceID(), documentID,
		map[string]float64{"totalMs": float64(time.Since(start).Milliseconds())},
		map[string]int{
			"extracted":    summary.Extracted,
			"mapped":       summary.Mapped,
			"skipped":      summary.Skipped,
			"consolidated": summary.Consolidated,
			"duplicates":   summary.Duplicates,
		})
}

func traceID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return fmt.Sprintf("run-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(b[:])
}
