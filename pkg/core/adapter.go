package core

import (
	"context"
	"database/sql"
	"errors"
)

// Session is the query capability a check run needs from a data store.
type Session interface {
	// QueryScalar executes sql and returns the single value of its single row.
	// Any other result shape is an ErrUnexpectedShape error.
	QueryScalar(ctx context.Context, sql string) (any, error)

	// QueryFirstRow executes sql and returns its first row keyed by column name.
	// It returns nil and no error when the query yields no rows.
	QueryFirstRow(ctx context.Context, sql string) (map[string]any, error)
}

// Adapter defines the interface for database adapters.
type Adapter interface {
	Session

	// Connect establishes a connection to the database.
	Connect(ctx context.Context, cfg AdapterConfig) error

	// Close closes the database connection.
	Close() error

	// Exec executes a SQL statement that doesn't return rows.
	Exec(ctx context.Context, sql string) error

	// Query executes a SQL statement that returns rows.
	Query(ctx context.Context, sql string) (*Rows, error)

	// DialectName returns the SQL dialect spoken by the adapter.
	DialectName() string
}

// AdapterConfig holds configuration for connecting to a database.
type AdapterConfig struct {
	Type     string
	Path     string
	Host     string
	Port     int
	Database string
	Username string
	Password string
	Schema   string
	Options  map[string]string
	Params   map[string]any
}

// Rows wraps sql.Rows for query results.
type Rows struct {
	*sql.Rows
}

// Errors returned by sessions and the check runner.
var (
	// ErrUnexpectedShape is returned when a count query does not yield
	// exactly one row with exactly one column.
	ErrUnexpectedShape = errors.New("count query must return exactly one row with one column")

	// ErrNullCount is returned when a count query yields NULL.
	ErrNullCount = errors.New("count query returned NULL")

	// ErrNotNumeric is returned when a count query yields a non-numeric value.
	ErrNotNumeric = errors.New("count query returned a non-numeric value")
)
