package document

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	id "bimadesk/pkg/domain"
	txcontext "bimadesk/pkg/platform/tx"
)

type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *PostgresStore) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresStore) Attach(ctx context.Context, doc *Document) error {
	const query = `
		INSERT INTO documents (id, client_id, doc_type, storage_ref, file_name, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := s.execer(ctx).ExecContext(ctx, query,
		uuid.UUID(doc.ID),
		uuid.UUID(doc.ClientID),
		doc.Type,
		doc.StorageRef,
		doc.FileName,
		doc.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByClient(ctx context.Context, clientID id.ClientID) ([]Document, error) {
	const query = `
		SELECT id, client_id, doc_type, storage_ref, file_name, uploaded_at
		FROM documents
		WHERE client_id = $1
		ORDER BY uploaded_at ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(clientID))
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var (
			d              Document
			docID, ownerID uuid.UUID
		)
		if err := rows.Scan(&docID, &ownerID, &d.Type, &d.StorageRef, &d.FileName, &d.UploadedAt); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		d.ID = id.DocumentID(docID)
		d.ClientID = id.ClientID(ownerID)
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (s *PostgresStore) DeleteByClient(ctx context.Context, clientID id.ClientID) error {
	const query = `DELETE FROM documents WHERE client_id = $1`
	if _, err := s.execer(ctx).ExecContext(ctx, query, uuid.UUID(clientID)); err != nil {
		return fmt.Errorf("delete documents: %w", err)
	}
	return nil
}
