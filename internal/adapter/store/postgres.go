package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/arturoeanton/go-doc-editor-ollama/internal/domain"
	"github.com/arturoeanton/go-doc-editor-ollama/internal/port"
)

var _ port.DocumentStore = (*PostgresStore)(nil)

// PostgresStore reads documents from the relational database that owns
// project/file CRUD. This core never writes documents.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore opens a connection and returns a store instance.
func NewPostgresStore(databaseURL string) (*PostgresStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(context.Background()); err != nil {
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return &PostgresStore{db: db}, nil
}

// Close closes the database connection.
func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// GetDocument retrieves a document by id.
func (s *PostgresStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	query := `SELECT id, collection_id, name, content FROM documents WHERE id = $1`

	var doc domain.Document
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&doc.ID, &doc.CollectionID, &doc.Name, &doc.Content,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, port.ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return &doc, nil
}

// ListDocuments returns all documents in a collection ordered by name.
func (s *PostgresStore) ListDocuments(ctx context.Context, collectionID string) ([]domain.Document, error) {
	query := `SELECT id, collection_id, name, content FROM documents
	          WHERE collection_id = $1 ORDER BY name`

	rows, err := s.db.QueryContext(ctx, query, collectionID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

// ListRecentDocuments returns up to limit documents of a collection ordered
// by name, used as the last-resort discovery fallback.
func (s *PostgresStore) ListRecentDocuments(ctx context.Context, collectionID string, limit int) ([]domain.Document, error) {
	query := `SELECT id, collection_id, name, content FROM documents
	          WHERE collection_id = $1 ORDER BY name LIMIT $2`

	rows, err := s.db.QueryContext(ctx, query, collectionID, limit)
	if err != nil {
		return nil, fmt.Errorf("list recent documents: %w", err)
	}
	defer rows.Close()

	return scanDocuments(rows)
}

func scanDocuments(rows *sql.Rows) ([]domain.Document, error) {
	var docs []domain.Document
	for rows.Next() {
		var doc domain.Document
		if err := rows.Scan(&doc.ID, &doc.CollectionID, &doc.Name, &doc.Content); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}
