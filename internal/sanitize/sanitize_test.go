package sanitize

import (
	"database/sql"
	"encoding/json"
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcheck/pkg/core"
)

type fakeDecimal struct{ v float64 }

func (d fakeDecimal) Float64() float64 { return d.v }

type label string

func TestValue(t *testing.T) {
	created := time.Date(2024, 3, 1, 12, 30, 5, 0, time.UTC)
	withMicros := time.Date(2024, 3, 1, 12, 30, 5, 250000000, time.UTC)
	midnight := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	day := core.Date{Time: midnight}
	zoned := time.Date(2024, 3, 1, 9, 0, 0, 0, time.FixedZone("CET", 3600))

	var numeric pgtype.Numeric
	require.NoError(t, numeric.Scan("12.75"))

	tests := []struct {
		name  string
		input any
		want  any
	}{
		{"nil", nil, nil},
		{"string", "abc", "abc"},
		{"bool", true, true},
		{"int64", int64(42), int64(42)},
		{"float", 1.5, 1.5},
		{"bytes", []byte("A-1"), "A-1"},
		{"date", day, "2024-03-01"},
		{"datetime at midnight", midnight, "2024-03-01 00:00:00"},
		{"datetime", created, "2024-03-01 12:30:05"},
		{"datetime with fraction", withMicros, "2024-03-01 12:30:05.25"},
		{"zoned datetime", zoned, "2024-03-01 09:00:00+01:00"},
		{"time pointer", &created, "2024-03-01 12:30:05"},
		{"null time", sql.NullTime{}, nil},
		{"valid null time", sql.NullTime{Time: midnight, Valid: true}, "2024-03-01 00:00:00"},
		{"shopspring decimal", decimal.RequireFromString("10.50"), 10.5},
		{"pgtype numeric", numeric, 12.75},
		{"invalid pgtype numeric", pgtype.Numeric{}, nil},
		{"big rat", big.NewRat(1, 4), 0.25},
		{"big int", big.NewInt(7), int64(7)},
		{"Float64 decimal", fakeDecimal{v: 3.25}, 3.25},
		{"null string", sql.NullString{String: "x", Valid: true}, "x"},
		{"invalid null int", sql.NullInt64{}, nil},
		{"named string", label("hot"), "hot"},
		{"NaN", math.NaN(), "NaN"},
		{"infinity", math.Inf(1), "+Inf"},
		{
			"nested map with non-string keys",
			map[int]any{1: day, 2: []byte("x")},
			map[string]any{"1": "2024-03-01", "2": "x"},
		},
		{
			"slice of decimals",
			[]decimal.Decimal{decimal.NewFromInt(1), decimal.RequireFromString("2.5")},
			[]any{1.0, 2.5},
		},
		{
			"map of any",
			map[string]any{"when": day, "amount": decimal.RequireFromString("9.99"), "tags": []any{"a", []byte("b")}},
			map[string]any{"when": "2024-03-01", "amount": 9.99, "tags": []any{"a", "b"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Value(tt.input))
		})
	}
}

func TestValue_Idempotent(t *testing.T) {
	inputs := []any{
		nil,
		"x",
		int64(3),
		time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		core.Date{Time: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		decimal.RequireFromString("1.25"),
		map[string]any{"a": []any{time.Now().UTC(), []byte("z")}, "b": nil},
		[]string{"p", "q"},
		math.Inf(-1),
	}

	for _, in := range inputs {
		once := Value(in)
		assert.Equal(t, once, Value(once), "sanitizing twice must equal sanitizing once for %#v", in)
	}
}

func TestRow(t *testing.T) {
	assert.Nil(t, Row(nil))

	row := Row(map[string]any{
		"id":         int64(7),
		"created_at": time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		"shipped_on": core.Date{Time: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		"amount":     decimal.RequireFromString("10.50"),
	})

	data, err := json.Marshal(row)
	require.NoError(t, err, "sanitized rows must be JSON-encodable")
	assert.JSONEq(t, `{"id":7,"created_at":"2024-03-01 00:00:00","shipped_on":"2024-03-02","amount":10.5}`, string(data))
}
