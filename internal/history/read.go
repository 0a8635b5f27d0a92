package history

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
)

// Filter selects entries for ReadEntries.
type Filter struct {
	// Session restricts results to one session. Empty means all sessions.
	Session string

	// Limit keeps only the most recent N entries. Zero means no limit.
	Limit int
}

const selectColumns = `id, session, seq, expression, result, result_kind, error_code, error_message`

// ReadEntries returns entries oldest first.
//
// With a session, entries are ordered by seq ASC, id ASC COLLATE BINARY.
// Without one, entries are ordered by id (UUIDv7, creation order).
// Returns an empty slice (not nil) if nothing matches.
func (s *Store) ReadEntries(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		query string
		args  []any
	)

	// Query newest first so LIMIT keeps the most recent rows, then reverse.
	if f.Session != "" {
		query = `SELECT ` + selectColumns + ` FROM evaluations
			WHERE session = ?
			ORDER BY seq DESC, id COLLATE BINARY DESC`
		args = append(args, f.Session)
	} else {
		query = `SELECT ` + selectColumns + ` FROM evaluations
			ORDER BY id COLLATE BINARY DESC`
	}
	if f.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query entries: %w", err)
	}
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}

	slices.Reverse(entries)
	return entries, nil
}

// ReadEntry returns a single entry by ID.
// Returns sql.ErrNoRows (wrapped) if not found.
func (s *Store) ReadEntry(ctx context.Context, id string) (Entry, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM evaluations WHERE id = ?`, id)
	e, err := scanEntry(row)
	if err != nil {
		return Entry{}, fmt.Errorf("read entry %s: %w", id, err)
	}
	return e, nil
}

// Sessions returns distinct session IDs in creation order.
func (s *Store) Sessions(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session FROM evaluations
		GROUP BY session
		ORDER BY MIN(id) COLLATE BINARY ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query sessions: %w", err)
	}
	defer rows.Close()

	sessions := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(sc scanner) (Entry, error) {
	var (
		e                           Entry
		result, kind, code, message sql.NullString
	)
	if err := sc.Scan(&e.ID, &e.Session, &e.Seq, &e.Expression, &result, &kind, &code, &message); err != nil {
		return Entry{}, fmt.Errorf("scan entry: %w", err)
	}

	if result.Valid {
		n, err := unmarshalResult(result.String, kind.String)
		if err != nil {
			return Entry{}, fmt.Errorf("entry %s: %w", e.ID, err)
		}
		e.Result = n
	}
	e.ErrorCode = code.String
	e.ErrorMessage = message.String

	return e, nil
}
