package history

import (
	"context"
	"database/sql"
	"fmt"
)

// WriteEntry inserts an entry into the store.
// Uses ON CONFLICT(id) DO NOTHING for idempotency - duplicate IDs are silently ignored.
// Other constraint violations (e.g., a reused (session, seq)) still return errors.
func (s *Store) WriteEntry(ctx context.Context, e Entry) error {
	var result, kind, code, message sql.NullString

	if e.Result != nil {
		r, k, err := marshalResult(e.Result)
		if err != nil {
			return fmt.Errorf("write entry: %w", err)
		}
		result = sql.NullString{String: r, Valid: true}
		kind = sql.NullString{String: k, Valid: true}
	}
	if e.ErrorCode != "" {
		code = sql.NullString{String: e.ErrorCode, Valid: true}
		message = sql.NullString{String: e.ErrorMessage, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations
		(id, session, seq, expression, result, result_kind, error_code, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		e.ID,
		e.Session,
		e.Seq,
		e.Expression,
		result,
		kind,
		code,
		message,
	)
	if err != nil {
		return fmt.Errorf("write entry: %w", err)
	}

	return nil
}

// Clear deletes entries. An empty session deletes every entry.
// Returns the number of rows removed.
func (s *Store) Clear(ctx context.Context, session string) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if session == "" {
		res, err = s.db.ExecContext(ctx, "DELETE FROM evaluations")
	} else {
		res, err = s.db.ExecContext(ctx, "DELETE FROM evaluations WHERE session = ?", session)
	}
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return n, nil
}
