// Package sanitize converts database values into JSON-representable ones.
//
// Value is total: it never fails and never panics. It is also idempotent,
// so sanitizing an already sanitized value returns an equal value.
package sanitize

import (
	"database/sql"
	"database/sql/driver"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// Canonical layouts for temporal values. core.Date values render as dates.
// Timestamps keep their time of day, fractional seconds when present, and a
// numeric offset when not in UTC.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05.999999"
	zonedLayout    = "2006-01-02 15:04:05.999999-07:00"
)

// floater is implemented by decimal types of several drivers,
// including go-duckdb's Decimal.
type floater interface {
	Float64() float64
}

// Row sanitizes an example row. A nil row stays nil.
func Row(row map[string]any) map[string]any {
	if row == nil {
		return nil
	}
	out := make(map[string]any, len(row))
	for k, v := range row {
		out[k] = Value(v)
	}
	return out
}

// Value converts v into a JSON-representable value.
func Value(v any) any {
	switch x := v.(type) {
	case nil:
		return nil
	case string, bool,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64:
		return x
	case float64:
		return number(x)
	case float32:
		return number(float64(x))
	case []byte:
		return string(x)
	case core.Date:
		return x.Format(DateLayout)
	case time.Time:
		return formatTime(x)
	case *time.Time:
		if x == nil {
			return nil
		}
		return formatTime(*x)
	case sql.NullTime:
		if !x.Valid {
			return nil
		}
		return formatTime(x.Time)
	case decimal.Decimal:
		f, _ := x.Float64()
		return number(f)
	case decimal.NullDecimal:
		if !x.Valid {
			return nil
		}
		f, _ := x.Decimal.Float64()
		return number(f)
	case pgtype.Numeric:
		return numericValue(x)
	case *big.Rat:
		if x == nil {
			return nil
		}
		f, _ := x.Float64()
		return number(f)
	case *big.Float:
		if x == nil {
			return nil
		}
		f, _ := x.Float64()
		return number(f)
	case *big.Int:
		if x == nil {
			return nil
		}
		if x.IsInt64() {
			return x.Int64()
		}
		f, _ := new(big.Float).SetInt(x).Float64()
		return number(f)
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = Value(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = Value(val)
		}
		return out
	case floater:
		return number(x.Float64())
	case driver.Valuer:
		return valuerValue(x)
	}
	return reflectValue(v)
}

// number keeps finite floats and renders NaN and infinities as strings,
// which JSON cannot carry as numbers.
func number(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return f
}

func formatTime(t time.Time) string {
	if t.Location() == time.UTC || t.Location().String() == "UTC" {
		return t.Format(DateTimeLayout)
	}
	return t.Format(zonedLayout)
}

func numericValue(n pgtype.Numeric) any {
	if !n.Valid {
		return nil
	}
	f, err := n.Float64Value()
	if err != nil || !f.Valid {
		return nil
	}
	return number(f.Float64)
}

// valuerValue unwraps sql.Null* and similar types through their driver value.
func valuerValue(v driver.Valuer) any {
	defer func() { _ = recover() }()
	if rv := reflect.ValueOf(v); rv.Kind() == reflect.Pointer && rv.IsNil() {
		return nil
	}
	inner, err := v.Value()
	if err != nil {
		return fmt.Sprint(v)
	}
	if _, same := inner.(driver.Valuer); same {
		return fmt.Sprint(inner)
	}
	return Value(inner)
}

// reflectValue handles typed maps, slices, pointers and named scalars.
func reflectValue(v any) (out any) {
	defer func() {
		if r := recover(); r != nil {
			out = fmt.Sprint(v)
		}
	}()

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
		return Value(rv.Elem().Interface())
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[mapKey(iter.Key())] = Value(iter.Value().Interface())
		}
		return m
	case reflect.Slice:
		if rv.IsNil() {
			return nil
		}
		fallthrough
	case reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			b := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(b), rv)
			return string(b)
		}
		s := make([]any, rv.Len())
		for i := range s {
			s[i] = Value(rv.Index(i).Interface())
		}
		return s
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return rv.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint()
	case reflect.Float32, reflect.Float64:
		return number(rv.Float())
	case reflect.Struct:
		if s, ok := v.(fmt.Stringer); ok {
			return s.String()
		}
		return fmt.Sprint(v)
	default:
		return fmt.Sprint(v)
	}
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	return fmt.Sprint(k.Interface())
}
