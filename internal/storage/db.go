package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"

	"picklist/internal"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS documents (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  filename TEXT NOT NULL,
  kind TEXT NOT NULL,
  hash TEXT NOT NULL UNIQUE,
  status TEXT NOT NULL DEFAULT 'stored',
  rawRef TEXT NOT NULL,
  numero TEXT,
  fecha TEXT,
  hora TEXT,
  estado TEXT,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL,
  lineNo INTEGER NOT NULL,
  code TEXT NOT NULL,
  oldCode TEXT NOT NULL,
  article TEXT NOT NULL,
  quantity REAL NOT NULL,
  stock REAL NOT NULL,
  warehouse TEXT NOT NULL,
  done INTEGER NOT NULL DEFAULT 0,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(documentId, oldCode),
  FOREIGN KEY(documentId) REFERENCES documents(id)
);
CREATE INDEX IF NOT EXISTS idx_records_document ON records(documentId);

CREATE TABLE IF NOT EXISTS issues (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  documentId INTEGER NOT NULL,
  lineNo INTEGER NOT NULL,
  kind TEXT NOT NULL,
  rawLine TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);

CREATE TABLE IF NOT EXISTS runs (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  traceId TEXT NOT NULL,
  documentId INTEGER,
  timingsJson TEXT NOT NULL,
  countsJson TEXT NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  FOREIGN KEY(documentId) REFERENCES documents(id)
);

CREATE TABLE IF NOT EXISTS metadata (
  key TEXT PRIMARY KEY,
  value TEXT NOT NULL,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

	_, err := d.conn.Exec(schema)
	return err
}

// UpsertDocument registers a stored source document, keyed by content
// hash so re-uploading the same file reuses the row.
func (d *DB) UpsertDocument(filename, kind, hash, rawRef string) (internal.DocumentRow, error) {
	_, err := d.conn.Exec(`
INSERT INTO documents (filename, kind, hash, rawRef)
VALUES (?, ?, ?, ?)
ON CONFLICT(hash) DO UPDATE SET
  filename=excluded.filename,
  kind=excluded.kind,
  rawRef=excluded.rawRef,
  updatedAt=CURRENT_TIMESTAMP
`, filename, kind, hash, rawRef)
	if err != nil {
		return internal.DocumentRow{}, err
	}

	row, err := d.GetDocumentByHash(hash)
	if err != nil {
		return internal.DocumentRow{}, err
	}
	if row == nil {
		return internal.DocumentRow{}, errors.New("failed to upsert document")
	}
	return *row, nil
}

func (d *DB) GetDocumentByHash(hash string) (*internal.DocumentRow, error) {
	return d.getDocument(`SELECT id, filename, kind, hash, status, rawRef, createdAt, updatedAt FROM documents WHERE hash = ?`, hash)
}

func (d *DB) GetDocumentByID(id int) (*internal.DocumentRow, error) {
	return d.getDocument(`SELECT id, filename, kind, hash, status, rawRef, createdAt, updatedAt FROM documents WHERE id = ?`, id)
}

func (d *DB) getDocument(query string, arg any) (*internal.DocumentRow, error) {
	var row internal.DocumentRow
	err := d.conn.QueryRow(query, arg).Scan(
		&row.ID, &row.Filename, &row.Kind, &row.Hash, &row.Status, &row.RawRef, &row.CreatedAt, &row.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *DB) ListDocumentsByStatus(status string, limit int) ([]internal.DocumentRow, error) {
	return d.listDocuments(`
SELECT id, filename, kind, hash, status, rawRef, createdAt, updatedAt
FROM documents WHERE status = ? ORDER BY createdAt ASC LIMIT ?
`, status, limit)
}

// ListDocuments returns the most recently touched documents regardless
// of status.
func (d *DB) ListDocuments(limit int) ([]internal.DocumentRow, error) {
	return d.listDocuments(`
SELECT id, filename, kind, hash, status, rawRef, createdAt, updatedAt
FROM documents ORDER BY updatedAt DESC LIMIT ?
`, limit)
}

func (d *DB) listDocuments(query string, args ...any) ([]internal.DocumentRow, error) {
	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.DocumentRow
	for rows.Next() {
		var row internal.DocumentRow
		if err := rows.Scan(&row.ID, &row.Filename, &row.Kind, &row.Hash, &row.Status, &row.RawRef, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) UpdateDocumentStatus(documentID int, status string) error {
	_, err := d.conn.Exec(`UPDATE documents SET status = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?`, status, documentID)
	return err
}

// SetDocumentHeader stores the page-1 metadata lifted off the source.
func (d *DB) SetDocumentHeader(documentID int, h internal.DocumentHeader) error {
	_, err := d.conn.Exec(`
UPDATE documents SET numero = ?, fecha = ?, hora = ?, estado = ?, updatedAt = CURRENT_TIMESTAMP WHERE id = ?
`, h.Numero, h.Fecha, h.Hora, h.Estado, documentID)
	return err
}

func (d *DB) GetDocumentHeader(documentID int) (internal.DocumentHeader, error) {
	var h internal.DocumentHeader
	var numero, fecha, hora, estado sql.NullString
	err := d.conn.QueryRow(`SELECT numero, fecha, hora, estado FROM documents WHERE id = ?`, documentID).
		Scan(&numero, &fecha, &hora, &estado)
	if err != nil {
		return h, err
	}
	h.Numero, h.Fecha, h.Hora, h.Estado = numero.String, fecha.String, hora.String, estado.String
	return h, nil
}

// ClearDocumentResults removes the records and issues of a previous run
// so reprocessing starts clean.
func (d *DB) ClearDocumentResults(documentID int) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM records WHERE documentId = ?`, documentID); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM issues WHERE documentId = ?`, documentID); err != nil {
		return err
	}

	return tx.Commit()
}

func (d *DB) InsertRecords(documentID int, records []internal.Record) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
INSERT INTO records (documentId, lineNo, code, oldCode, article, quantity, stock, warehouse, done)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, rec := range records {
		done := 0
		if rec.Done {
			done = 1
		}
		if _, err := stmt.Exec(documentID, rec.LineNo, rec.Code, rec.OldCode, rec.Article, rec.Quantity, rec.Stock, rec.Warehouse, done); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (d *DB) InsertIssues(documentID int, issues []internal.RowIssue) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`INSERT INTO issues (documentId, lineNo, kind, rawLine) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, issue := range issues {
		if _, err := stmt.Exec(documentID, issue.LineNo, string(issue.Kind), issue.Raw); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetRecords returns the consolidated records of a document in stored
// (lexicographic) order.
func (d *DB) GetRecords(documentID int) ([]internal.Record, error) {
	rows, err := d.conn.Query(`
SELECT lineNo, code, oldCode, article, quantity, stock, warehouse, done
FROM records WHERE documentId = ? ORDER BY oldCode ASC
`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.Record
	for rows.Next() {
		var rec internal.Record
		var done int
		if err := rows.Scan(&rec.LineNo, &rec.Code, &rec.OldCode, &rec.Article, &rec.Quantity, &rec.Stock, &rec.Warehouse, &done); err != nil {
			return nil, err
		}
		rec.Done = done != 0
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (d *DB) GetIssues(documentID int) ([]internal.RowIssue, error) {
	rows, err := d.conn.Query(`SELECT lineNo, kind, rawLine FROM issues WHERE documentId = ? ORDER BY id ASC`, documentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []internal.RowIssue
	for rows.Next() {
		var issue internal.RowIssue
		var kind string
		if err := rows.Scan(&issue.LineNo, &kind, &issue.Raw); err != nil {
			return nil, err
		}
		issue.Kind = internal.IssueKind(kind)
		out = append(out, issue)
	}
	return out, rows.Err()
}

func (d *DB) InsertRun(traceID string, documentID int, timings map[string]float64, counts map[string]int) error {
	timingsJSON, _ := json.Marshal(timings)
	countsJSON, _ := json.Marshal(counts)
	_, err := d.conn.Exec(`INSERT INTO runs (traceId, documentId, timingsJson, countsJson) VALUES (?, ?, ?, ?)`, traceID, documentID, string(timingsJSON), string(countsJSON))
	return err
}

func (d *DB) SetMetadata(key, value string) error {
	_, err := d.conn.Exec(`
INSERT INTO metadata (key, value) VALUES (?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updatedAt = CURRENT_TIMESTAMP
`, key, value)
	return err
}

func (d *DB) GetMetadata(key string) (*string, error) {
	var value string
	err := d.conn.QueryRow(`SELECT value FROM metadata WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &value, nil
}

func (d *DB) MustDocumentByID(id int) (internal.DocumentRow, error) {
	row, err := d.GetDocumentByID(id)
	if err != nil {
		return internal.DocumentRow{}, err
	}
	if row == nil {
		return internal.DocumentRow{}, fmt.Errorf("document not found: id=%d", id)
	}
	return *row, nil
}
