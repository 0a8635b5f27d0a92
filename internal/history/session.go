package history

import (
	"context"
	"fmt"

	"github.com/roach88/rpncalc/internal/numeric"
)

// Session records evaluations under one session id.
//
// Thread-safety: Session is safe for concurrent use; the clock is atomic and
// the store serializes writes on its single connection.
type Session struct {
	store *Store
	id    string
	clock *Clock
	ids   IDGenerator
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithSessionID resumes or names a session explicitly.
func WithSessionID(id string) SessionOption {
	return func(s *Session) {
		s.id = id
	}
}

// WithIDGenerator overrides the entry id generator (for testing).
func WithIDGenerator(g IDGenerator) SessionOption {
	return func(s *Session) {
		s.ids = g
	}
}

// NewSession starts a session on st. Without WithSessionID the session id
// is drawn from the id generator. The clock resumes after the last seq
// already stored for the session.
func NewSession(ctx context.Context, st *Store, opts ...SessionOption) (*Session, error) {
	s := &Session{store: st, ids: UUIDv7Generator{}}
	for _, opt := range opts {
		opt(s)
	}
	if s.id == "" {
		s.id = s.ids.Generate()
	}

	last, err := st.LastSeq(ctx, s.id)
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}
	s.clock = NewClockAt(last)
	return s, nil
}

// ID returns the session id.
func (s *Session) ID() string {
	return s.id
}

// Record stores the outcome of evaluating expression.
// Pass the calculator's result and error as returned.
func (s *Session) Record(ctx context.Context, expression string, result numeric.Number, evalErr error) (Entry, error) {
	e := Entry{
		ID:         s.ids.Generate(),
		Session:    s.id,
		Seq:        s.clock.Next(),
		Expression: expression,
	}
	if evalErr != nil {
		e.ErrorCode, e.ErrorMessage = errorFields(evalErr)
	} else {
		e.Result = result
	}

	if err := s.store.WriteEntry(ctx, e); err != nil {
		return Entry{}, err
	}
	return e, nil
}

// Entries returns this session's entries, oldest first.
func (s *Session) Entries(ctx context.Context) ([]Entry, error) {
	return s.store.ReadEntries(ctx, Filter{Session: s.id})
}
