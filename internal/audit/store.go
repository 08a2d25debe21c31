package audit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Store persists audit events in Postgres.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// BatchInsert writes events in a single multi-row INSERT. No-op for an
// empty batch.
func (s *Store) BatchInsert(ctx context.Context, events []Event) error {
	if len(events) == 0 {
		return nil
	}

	const cols = 11 // columns per row (id is server-generated)
	args := make([]any, 0, len(events)*cols)
	rows := make([]string, 0, len(events))

	for i, e := range events {
		base := i * cols
		rows = append(rows, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6,
			base+7, base+8, base+9, base+10, base+11,
		))
		args = append(args,
			e.Timestamp,
			e.Action,
			e.ActorID,
			e.ActorEmail,
			e.ActorType,
			e.ResourceType,
			e.ResourceID,
			e.IP,
			e.RequestID,
			e.Success,
			e.Detail,
		)
	}

	query := `INSERT INTO audit_events
		(timestamp, action, actor_id, actor_email, actor_type,
		 resource_type, resource_id, ip, request_id, success, detail)
		VALUES ` + strings.Join(rows, ", ")

	if _, err := s.pool.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("batch inserting audit events: %w", err)
	}

	return nil
}

// Recent returns the newest events, optionally filtered by action, up to
// limit.
func (s *Store) Recent(ctx context.Context, action string, limit int) ([]Event, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	query := `SELECT id, timestamp, action, actor_id, actor_email, actor_type,
		resource_type, resource_id, ip, request_id, success, detail
		FROM audit_events`
	args := []any{}
	if action != "" {
		query += ` WHERE action = $1`
		args = append(args, action)
	}
	query += fmt.Sprintf(` ORDER BY timestamp DESC LIMIT %d`, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit events: %w", err)
	}
	defer rows.Close()

	var events []Event
	for rows.Next() {
		var e Event
		var ts time.Time
		if err := rows.Scan(&e.ID, &ts, &e.Action, &e.ActorID, &e.ActorEmail,
			&e.ActorType, &e.ResourceType, &e.ResourceID, &e.IP, &e.RequestID,
			&e.Success, &e.Detail); err != nil {
			return nil, fmt.Errorf("scanning audit event: %w", err)
		}
		e.Timestamp = ts
		events = append(events, e)
	}
	return events, rows.Err()
}
