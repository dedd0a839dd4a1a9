package adapter

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcheck/pkg/core"
)

func newMockAdapter(t *testing.T) (*BaseSQLAdapter, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return &BaseSQLAdapter{DB: db}, mock
}

func TestBaseSQLAdapter_NotConnected(t *testing.T) {
	ctx := context.Background()
	base := &BaseSQLAdapter{}

	assert.False(t, base.IsConnected())
	assert.NoError(t, base.Close(), "close with nil DB")

	operations := map[string]func() error{
		"exec": func() error { return base.Exec(ctx, "SELECT 1") },
		"query": func() error {
			_, err := base.Query(ctx, "SELECT 1")
			return err
		},
		"query scalar": func() error {
			_, err := base.QueryScalar(ctx, "SELECT 1")
			return err
		},
		"query first row": func() error {
			_, err := base.QueryFirstRow(ctx, "SELECT 1")
			return err
		},
	}

	for name, op := range operations {
		t.Run(name, func(t *testing.T) {
			err := op()
			require.Error(t, err)
			assert.Contains(t, err.Error(), "database connection not established")
		})
	}
}

func TestBaseSQLAdapter_Exec(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		base, mock := newMockAdapter(t)
		mock.ExpectExec("CREATE TABLE orders").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.NoError(t, base.Exec(ctx, "CREATE TABLE orders (id INT)"))
	})

	t.Run("error is wrapped", func(t *testing.T) {
		base, mock := newMockAdapter(t)
		mock.ExpectExec("INVALID").WillReturnError(assert.AnError)
		err := base.Exec(ctx, "INVALID SQL")
		require.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "failed to execute SQL")
	})
}

func TestBaseSQLAdapter_Query(t *testing.T) {
	ctx := context.Background()
	base, mock := newMockAdapter(t)
	mock.ExpectQuery("SELECT").WillReturnRows(
		sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "alice").AddRow(2, "bob"),
	)

	rows, err := base.Query(ctx, "SELECT id, name FROM users")
	require.NoError(t, err)
	defer func() { _ = rows.Close() }()

	n := 0
	for rows.Next() {
		n++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, 2, n)
}

func TestBaseSQLAdapter_QueryScalar(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(mock sqlmock.Sqlmock)
		want      any
		wantShape bool
		errMsg    string
	}{
		{
			name: "single integer",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(42)))
			},
			want: int64(42),
		},
		{
			name: "bytes become string",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow([]byte("17")))
			},
			want: "17",
		},
		{
			name: "null is returned as nil",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(nil))
			},
			want: nil,
		},
		{
			name: "two columns",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"a", "b"}).AddRow(1, 2))
			},
			wantShape: true,
			errMsg:    "got 2 columns",
		},
		{
			name: "no rows",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}))
			},
			wantShape: true,
			errMsg:    "got no rows",
		},
		{
			name: "two rows",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1).AddRow(2))
			},
			wantShape: true,
			errMsg:    "more than one row",
		},
		{
			name: "driver error",
			setupMock: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery("SELECT COUNT").WillReturnError(assert.AnError)
			},
			errMsg: "failed to execute query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base, mock := newMockAdapter(t)
			tt.setupMock(mock)

			got, err := base.QueryScalar(context.Background(), "SELECT COUNT(*) FROM orders")
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				if tt.wantShape {
					assert.ErrorIs(t, err, core.ErrUnexpectedShape)
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBaseSQLAdapter_QueryFirstRow(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)

	t.Run("first row only", func(t *testing.T) {
		base, mock := newMockAdapter(t)
		mock.ExpectQuery("SELECT \\* FROM orders").WillReturnRows(
			sqlmock.NewRows([]string{"id", "sku", "created_at"}).
				AddRow(int64(7), []byte("A-1"), created).
				AddRow(int64(8), []byte("B-2"), created),
		)

		row, err := base.QueryFirstRow(context.Background(), "SELECT * FROM orders")
		require.NoError(t, err)
		assert.Equal(t, map[string]any{
			"id":         int64(7),
			"sku":        "A-1",
			"created_at": created,
		}, row)
	})

	t.Run("typed columns", func(t *testing.T) {
		base, mock := newMockAdapter(t)
		day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
		mock.ExpectQuery("SELECT").WillReturnRows(
			sqlmock.NewRowsWithColumnDefinition(
				sqlmock.NewColumn("total").OfType("DECIMAL", []byte(nil)),
				sqlmock.NewColumn("fee").OfType("NUMERIC", ""),
				sqlmock.NewColumn("odd").OfType("DECIMAL", []byte(nil)),
				sqlmock.NewColumn("ordered_on").OfType("DATE", time.Time{}),
				sqlmock.NewColumn("created_at").OfType("DATETIME", time.Time{}),
			).AddRow([]byte("1.50"), "0.25", []byte("n/a"), day, day),
		)

		row, err := base.QueryFirstRow(context.Background(), "SELECT total, fee, odd, ordered_on, created_at FROM orders")
		require.NoError(t, err)

		total, ok := row["total"].(decimal.Decimal)
		require.True(t, ok, "DECIMAL text should parse as decimal, got %T", row["total"])
		assert.True(t, total.Equal(decimal.RequireFromString("1.5")))

		fee, ok := row["fee"].(decimal.Decimal)
		require.True(t, ok, "NUMERIC text should parse as decimal, got %T", row["fee"])
		assert.True(t, fee.Equal(decimal.RequireFromString("0.25")))

		assert.Equal(t, "n/a", row["odd"], "unparseable decimal text stays a string")
		assert.Equal(t, core.Date{Time: day}, row["ordered_on"])
		assert.Equal(t, day, row["created_at"])
	})

	t.Run("no rows yields nil", func(t *testing.T) {
		base, mock := newMockAdapter(t)
		mock.ExpectQuery("SELECT").WillReturnRows(sqlmock.NewRows([]string{"id"}))

		row, err := base.QueryFirstRow(context.Background(), "SELECT id FROM orders WHERE false")
		require.NoError(t, err)
		assert.Nil(t, row)
	})

	t.Run("error", func(t *testing.T) {
		base, mock := newMockAdapter(t)
		mock.ExpectQuery("SELECT").WillReturnError(assert.AnError)

		_, err := base.QueryFirstRow(context.Background(), "SELECT id FROM orders")
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestBaseSQLAdapter_Close(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	mock.ExpectClose()

	base := &BaseSQLAdapter{DB: db}
	assert.True(t, base.IsConnected())
	assert.NoError(t, base.Close())
	assert.NoError(t, mock.ExpectationsWereMet())
}
