package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"picklist/internal"
	"picklist/internal/storage"
)

// IntakeService persists an uploaded source document to disk and
// registers it, keyed by content hash so repeat uploads reuse the row.
type IntakeService struct {
	db        *storage.DB
	rawDocDir string
}

func NewIntakeService(db *storage.DB, rawDocDir string) *IntakeService {
	return &IntakeService{db: db, rawDocDir: rawDocDir}
}

func (s *IntakeService) Store(filename, kind string, content []byte) (internal.DocumentRow, error) {
	hashBytes := sha256.Sum256(content)
	hash := hex.EncodeToString(hashBytes[:])

	if err := os.MkdirAll(s.rawDocDir, 0o755); err != nil {
		return internal.DocumentRow{}, err
	}

	rawPath := filepath.Join(s.rawDocDir, hash+"."+kind)
	if _, err := os.Stat(rawPath); os.IsNotExist(err) {
		if err := os.WriteFile(rawPath, content, 0o644); err != nil {
			return internal.DocumentRow{}, err
		}
	}

	return s.db.UpsertDocument(filename, kind, hash, rawPath)
}

// KindFromFilename derives the input type from a file extension.
func KindFromFilename(filename string) (string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return "pdf", nil
	case ".xlsx", ".xls":
		return "xlsx", nil
	case ".html", ".htm":
		return "html", nil
	case ".eml":
		return "eml", nil
	default:
		return "", fmt.Errorf("unsupported document type: %s", filename)
	}
}
