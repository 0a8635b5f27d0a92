// Package history provides SQLite-backed storage for evaluated expressions.
//
// Each row records one call to the calculator: the expression text and
// either the result (with its kind) or the error code and message. Rows
// belong to a session; the interactive shell opens one session per run.
//
// # Ordering
//
//   - Within a session, rows are ordered by seq, a logical clock starting
//     at 1 (ORDER BY seq ASC, id ASC COLLATE BINARY)
//   - Across sessions, rows are ordered by id; ids are UUIDv7 and therefore
//     sort by creation time
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
package history
