// Package store provides the persistence collaborator: a small document
// store over SQLite holding one JSON body per row, grouped by collection.
package store

import (
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// DocumentStore manages SQLite storage for schemaless JSON documents.
type DocumentStore struct {
	db *sql.DB
}

const createDocumentsTable = `
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    collection TEXT NOT NULL,
    body TEXT NOT NULL,
    created_at INTEGER NOT NULL DEFAULT (unixepoch())
);
`

const createIndexes = `
CREATE INDEX IF NOT EXISTS idx_documents_collection ON documents(collection, id);
`

// NewDocumentStore opens (or creates) the SQLite database at dbPath,
// initialises the schema, and returns a ready-to-use DocumentStore.
func NewDocumentStore(dbPath string) (*DocumentStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// Verify the connection is alive.
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	for _, stmt := range []string{createDocumentsTable, createIndexes} {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec schema statement: %w", err)
		}
	}

	return &DocumentStore{db: db}, nil
}

// CreateDocument marshals doc to JSON and inserts it into the named
// collection.
func (s *DocumentStore) CreateDocument(collection string, doc any) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	const query = `INSERT INTO documents (collection, body) VALUES (?, ?)`
	if _, err := s.db.Exec(query, collection, string(body)); err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// GetDocuments returns up to limit documents from the named collection,
// newest first. A non-empty filter keeps only documents whose fields
// exactly match every filter entry; a nil or empty filter matches all.
func (s *DocumentStore) GetDocuments(collection string, filter map[string]any, limit int) ([]map[string]any, error) {
	const query = `
		SELECT body
		FROM documents
		WHERE collection = ?
		ORDER BY id DESC
		LIMIT ?
	`

	rows, err := s.db.Query(query, collection, limit)
	if err != nil {
		return nil, fmt.Errorf("get documents: %w", err)
	}
	defer rows.Close()

	var docs []map[string]any
	for rows.Next() {
		var body string
		if err := rows.Scan(&body); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		var doc map[string]any
		if err := json.Unmarshal([]byte(body), &doc); err != nil {
			return nil, fmt.Errorf("decode document body: %w", err)
		}
		if matchesFilter(doc, filter) {
			docs = append(docs, doc)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate document rows: %w", err)
	}

	return docs, nil
}

// Ping reports whether the underlying database connection is alive.
func (s *DocumentStore) Ping() error {
	return s.db.Ping()
}

// Close closes the underlying database connection.
func (s *DocumentStore) Close() error {
	return s.db.Close()
}

// --- helpers ----------------------------------------------------------------

func matchesFilter(doc map[string]any, filter map[string]any) bool {
	for k, want := range filter {
		got, ok := doc[k]
		if !ok || got != want {
			return false
		}
	}
	return true
}
