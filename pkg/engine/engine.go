// Package engine runs generated query text against DuckDB.
//
// Every Session owns a private in-memory database. Nothing is pooled or shared
// across sessions: open one per logical operation and Close it when done.
package engine

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

// ErrEngine marks failures reported by the query engine itself.
var ErrEngine = errors.New("query engine failure")

// Session is an isolated engine connection.
type Session struct {
	db *sql.DB
}

// RowSource feeds Append, one row at a time.
type RowSource interface {
	Next() bool
	Row() []driver.Value
	Err() error
}

// Open starts a fresh in-memory session.
func Open(ctx context.Context) (*Session, error) {
	connector, err := duckdb.NewConnector("", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %w", ErrEngine, err)
	}

	// Closing the *sql.DB also closes the connector and drops the database.
	db := sql.OpenDB(connector)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close() // #nosec G104 - connect error is the one worth reporting
		return nil, fmt.Errorf("%w: connect: %w", ErrEngine, err)
	}

	return &Session{db: db}, nil
}

// Close releases the session and its database.
func (s *Session) Close() error {
	return s.db.Close()
}

// Exec runs a statement that returns no rows.
func (s *Session) Exec(ctx context.Context, query string) error {
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return nil
}

// Rows runs a query and returns every row as strings. NULL becomes "".
func (s *Session) Rows(ctx context.Context, query string) ([][]string, error) {
	var out [][]string
	err := s.Each(ctx, query, func(row []string) error {
		out = append(out, row)
		return nil
	})
	return out, err
}

// Each streams the rows of a query to fn. Row slices are not reused.
func (s *Session) Each(ctx context.Context, query string, fn func(row []string) error) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}

	values := make([]sql.NullString, len(cols))
	dest := make([]any, len(cols))
	for i := range values {
		dest[i] = &values[i]
	}

	for rows.Next() {
		if err := rows.Scan(dest...); err != nil {
			return fmt.Errorf("%w: scan: %w", ErrEngine, err)
		}
		row := make([]string, len(values))
		for i, v := range values {
			row[i] = v.String
		}
		if err := fn(row); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return nil
}

// Column returns the first column of every row.
func (s *Session) Column(ctx context.Context, query string) ([]string, error) {
	var out []string
	err := s.Each(ctx, query, func(row []string) error {
		out = append(out, row[0])
		return nil
	})
	return out, err
}

// QueryRow scans a single row into dest. sql.ErrNoRows is passed through
// unwrapped by the engine kind so callers can treat it as "absent".
func (s *Session) QueryRow(ctx context.Context, query string, dest ...any) error {
	err := s.db.QueryRowContext(ctx, query).Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if err != nil {
		return fmt.Errorf("%w: %w", ErrEngine, err)
	}
	return nil
}

// Append bulk-loads rows into an existing table through the DuckDB appender
// and returns the number of rows appended.
func (s *Session) Append(ctx context.Context, table string, src RowSource) (int, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrEngine, err)
	}
	defer conn.Close()

	n := 0
	err = conn.Raw(func(driverConn any) error {
		dc, ok := driverConn.(driver.Conn)
		if !ok {
			return fmt.Errorf("%w: unexpected driver connection %T", ErrEngine, driverConn)
		}

		appender, err := duckdb.NewAppenderFromConn(dc, "", table)
		if err != nil {
			return fmt.Errorf("%w: appender: %w", ErrEngine, err)
		}

		for src.Next() {
			if err := appender.AppendRow(src.Row()...); err != nil {
				_ = appender.Close() // #nosec G104 - append error is more relevant
				return fmt.Errorf("%w: append: %w", ErrEngine, err)
			}
			n++
		}
		if err := src.Err(); err != nil {
			_ = appender.Close() // #nosec G104 - source error is more relevant
			return err
		}

		if err := appender.Close(); err != nil {
			return fmt.Errorf("%w: flush: %w", ErrEngine, err)
		}
		return nil
	})
	return n, err
}
