package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	id "bimadesk/pkg/domain"
	txcontext "bimadesk/pkg/platform/tx"
)

// PostgresStore persists trail entries. Appends also land in the audit_outbox
// table inside the same transaction, so the compliance relay can stream them
// to Kafka without ever observing an entry whose entity mutation rolled back.
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

func (s *PostgresStore) Append(ctx context.Context, entries []Entry) error {
	execer := s.execer(ctx)
	for _, e := range entries {
		const entryQuery = `
			INSERT INTO audit_entries (id, client_id, action, field_name, old_value, new_value, actor, changed_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`
		_, err := execer.ExecContext(ctx, entryQuery,
			uuid.UUID(e.ID),
			uuid.UUID(e.ClientID),
			string(e.Action),
			nullable(e.FieldName),
			nullable(e.OldValue),
			nullable(e.NewValue),
			e.Actor,
			e.ChangedAt,
		)
		if err != nil {
			return fmt.Errorf("insert audit entry: %w", err)
		}

		payload, err := json.Marshal(e)
		if err != nil {
			return fmt.Errorf("marshal audit payload: %w", err)
		}
		const outboxQuery = `
			INSERT INTO audit_outbox (id, payload, created_at)
			VALUES ($1, $2, $3)
		`
		if _, err := execer.ExecContext(ctx, outboxQuery, uuid.New(), payload, time.Now()); err != nil {
			return fmt.Errorf("insert outbox entry: %w", err)
		}
	}
	return nil
}

func (s *PostgresStore) ListByClient(ctx context.Context, clientID id.ClientID, page, limit int, order Order) ([]Entry, error) {
	direction := "DESC"
	if order == OrderChronological {
		direction = "ASC"
	}
	query := fmt.Sprintf(`
		SELECT id, client_id, action, field_name, old_value, new_value, actor, changed_at
		FROM audit_entries
		WHERE client_id = $1
		ORDER BY changed_at %s, id %s
		LIMIT $2 OFFSET $3
	`, direction, direction)

	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(clientID), limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func (s *PostgresStore) CountByClient(ctx context.Context, clientID id.ClientID) (int, error) {
	const query = `SELECT COUNT(*) FROM audit_entries WHERE client_id = $1`
	var count int
	if err := s.db.QueryRowContext(ctx, query, uuid.UUID(clientID)).Scan(&count); err != nil {
		return 0, fmt.Errorf("count audit entries: %w", err)
	}
	return count, nil
}

func (s *PostgresStore) AllByClient(ctx context.Context, clientID id.ClientID) ([]Entry, error) {
	const query = `
		SELECT id, client_id, action, field_name, old_value, new_value, actor, changed_at
		FROM audit_entries
		WHERE client_id = $1
		ORDER BY changed_at ASC, id ASC
	`
	rows, err := s.db.QueryContext(ctx, query, uuid.UUID(clientID))
	if err != nil {
		return nil, fmt.Errorf("query audit entries: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var (
			e                     Entry
			entryID, clientID     uuid.UUID
			action                string
			fieldName, oldV, newV sql.NullString
		)
		if err := rows.Scan(&entryID, &clientID, &action, &fieldName, &oldV, &newV, &e.Actor, &e.ChangedAt); err != nil {
			return nil, fmt.Errorf("scan audit entry: %w", err)
		}
		e.ID = id.AuditEntryID(entryID)
		e.ClientID = id.ClientID(clientID)
		e.Action = Action(action)
		e.FieldName = fieldName.String
		e.OldValue = oldV.String
		e.NewValue = newV.String
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate audit entries: %w", err)
	}
	return entries, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
