package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"picklist/internal"
	"picklist/internal/logging"
	"picklist/internal/pipeline"
)

type processResponse struct {
	DocumentID  int                 `json:"documentId"`
	Numero      string              `json:"numero,omitempty"`
	Summary     internal.RunSummary `json:"summary"`
	Issues      []internal.RowIssue `json:"issues,omitempty"`
	DownloadURL string              `json:"downloadUrl"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, map[string]string{"status": "ok"})
}

// handleProcess accepts one uploaded picking-list document, runs the
// pipeline and answers with the run summary plus a download link.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	maxSize := int64(s.cfg.MaxUploadMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		writeError(w, r, http.StatusBadRequest, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "no file provided")
		return
	}
	defer file.Close()

	kind := r.FormValue("type")
	if kind == "" {
		kind, err = pipeline.KindFromFilename(header.Filename)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
	}

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, "failed to read upload")
		return
	}

	doc, err := s.intake.Store(header.Filename, kind, content)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	logging.FromContext(r.Context()).Info("upload received", "document_id", doc.ID, "filename", header.Filename, "kind", kind)

	res, err := s.processor.ProcessDocument(doc)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoDataRows) {
			writeError(w, r, http.StatusUnprocessableEntity, "no picking rows found; check that the file is a valid picking list")
			return
		}
		if errors.Is(err, pipeline.ErrNotPickingList) {
			writeError(w, r, http.StatusUnprocessableEntity, "uploaded document does not look like a picking list")
			return
		}
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, r, processResponse{
		DocumentID:  res.DocumentID,
		Numero:      res.Header.Numero,
		Summary:     res.Summary,
		Issues:      res.Issues,
		DownloadURL: fmt.Sprintf("/api/documents/%d/result.xlsx", res.DocumentID),
	})
}

// handleDownload renders and streams the processed list for a document.
func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	documentID, err := strconv.Atoi(chi.URLParam(r, "documentID"))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid document id")
		return
	}

	rows, docHeader, err := s.processor.ExportRows(documentID)
	if err != nil {
		if errors.Is(err, pipeline.ErrNoDataRows) {
			writeError(w, r, http.StatusNotFound, "document has no processed records")
			return
		}
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	blob, err := pipeline.RenderXLSX(rows, docHeader)
	if err != nil {
		writeError(w, r, http.StatusInternalServerError, err.Error())
		return
	}

	name := "picking_procesado.xlsx"
	if docHeader.Numero != "" {
		name = fmt.Sprintf("picking_%s_ordenado.xlsx", docHeader.Numero)
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	_, _ = w.Write(blob)
}
