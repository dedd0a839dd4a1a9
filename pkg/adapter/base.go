package adapter

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// BaseSQLAdapter provides common database/sql functionality for adapters.
// Embed this struct in concrete adapter implementations to get standard
// Close, Exec, Query, QueryScalar and QueryFirstRow implementations.
type BaseSQLAdapter struct {
	DB     *sql.DB
	Cfg    core.AdapterConfig
	Logger *slog.Logger
}

// Close closes the database connection.
func (b *BaseSQLAdapter) Close() error {
	if b.DB != nil {
		if b.Logger != nil {
			b.Logger.Debug("closing database connection")
		}
		return b.DB.Close()
	}
	return nil
}

// Exec executes a SQL statement that doesn't return rows.
func (b *BaseSQLAdapter) Exec(ctx context.Context, sqlStr string) error {
	if b.DB == nil {
		return fmt.Errorf("database connection not established")
	}
	_, err := b.DB.ExecContext(ctx, sqlStr)
	if err != nil {
		return fmt.Errorf("failed to execute SQL: %w", err)
	}
	return nil
}

// Query executes a SQL statement that returns rows.
func (b *BaseSQLAdapter) Query(ctx context.Context, sqlStr string) (*core.Rows, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	//nolint:rowserrcheck // rows.Err() must be checked by caller after iteration completes
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	return &core.Rows{Rows: rows}, nil
}

// QueryScalar executes a query that must yield exactly one row with one column.
func (b *BaseSQLAdapter) QueryScalar(ctx context.Context, sqlStr string) (any, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	if len(cols) != 1 {
		return nil, fmt.Errorf("%w: got %d columns", core.ErrUnexpectedShape, len(cols))
	}

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error iterating rows: %w", err)
		}
		return nil, fmt.Errorf("%w: got no rows", core.ErrUnexpectedShape)
	}

	var value any
	if err := rows.Scan(&value); err != nil {
		return nil, fmt.Errorf("failed to scan value: %w", err)
	}

	if rows.Next() {
		return nil, fmt.Errorf("%w: got more than one row", core.ErrUnexpectedShape)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return normalizeValue(value), nil
}

// QueryFirstRow executes a query and returns its first row keyed by column.
// Remaining rows are discarded. No rows yields a nil map.
func (b *BaseSQLAdapter) QueryFirstRow(ctx context.Context, sqlStr string) (map[string]any, error) {
	if b.DB == nil {
		return nil, fmt.Errorf("database connection not established")
	}
	rows, err := b.DB.QueryContext(ctx, sqlStr)
	if err != nil {
		return nil, fmt.Errorf("failed to execute query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}
	types := columnTypeNames(rows, len(cols))

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("error iterating rows: %w", err)
		}
		return nil, nil
	}

	values := make([]any, len(cols))
	valuePtrs := make([]any, len(cols))
	for i := range values {
		valuePtrs[i] = &values[i]
	}
	if err := rows.Scan(valuePtrs...); err != nil {
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}

	row := make(map[string]any, len(cols))
	for i, col := range cols {
		row[col] = normalizeColumn(values[i], types[i])
	}
	return row, nil
}

// IsConnected returns true if the database connection is established.
func (b *BaseSQLAdapter) IsConnected() bool {
	return b.DB != nil
}

// normalizeValue converts driver byte slices to strings for readability.
// Drivers reuse scan buffers, so the copy is required anyway.
func normalizeValue(v any) any {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

// columnTypeNames returns the upper-cased database type name of each column
// without any "(precision,scale)" suffix. Unknown types are "".
func columnTypeNames(rows *sql.Rows, n int) []string {
	names := make([]string, n)
	colTypes, err := rows.ColumnTypes()
	if err != nil {
		return names
	}
	for i, ct := range colTypes {
		if i >= n {
			break
		}
		name := strings.ToUpper(strings.TrimSpace(ct.DatabaseTypeName()))
		if idx := strings.IndexByte(name, '('); idx >= 0 {
			name = strings.TrimSpace(name[:idx])
		}
		names[i] = name
	}
	return names
}

// normalizeColumn normalizes a value using its column type. MySQL returns
// DECIMAL as text and pgx returns NUMERIC as a string, so both are parsed
// into decimals. DATE columns are tagged as core.Date.
func normalizeColumn(v any, typeName string) any {
	switch typeName {
	case "DECIMAL", "NUMERIC", "NEWDECIMAL":
		var text string
		switch x := v.(type) {
		case []byte:
			text = string(x)
		case string:
			text = x
		default:
			return normalizeValue(v)
		}
		d, err := decimal.NewFromString(strings.TrimSpace(text))
		if err != nil {
			return text
		}
		return d
	case "DATE":
		if t, ok := v.(time.Time); ok {
			return core.Date{Time: t}
		}
	}
	return normalizeValue(v)
}
