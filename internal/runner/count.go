package runner

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/leapstack-labs/leapcheck/internal/sanitize"
	"github.com/leapstack-labs/leapcheck/pkg/core"
)

// toCount converts the raw scalar of a count query into a float64.
// Integers, floats, driver decimals and numeric text are accepted.
func toCount(raw any) (float64, error) {
	switch v := raw.(type) {
	case nil:
		return 0, core.ErrNullCount
	case int:
		return float64(v), nil
	case int8:
		return float64(v), nil
	case int16:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint:
		return float64(v), nil
	case uint8:
		return float64(v), nil
	case uint16:
		return float64(v), nil
	case uint32:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case float32:
		return finite(float64(v))
	case float64:
		return finite(v)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case *big.Int:
		f, _ := new(big.Float).SetInt(v).Float64()
		return f, nil
	case string:
		return parseCount(v)
	case []byte:
		return parseCount(string(v))
	}

	// Decimals of every supported driver sanitize to float64.
	switch s := sanitize.Value(raw).(type) {
	case nil:
		return 0, core.ErrNullCount
	case float64:
		return finite(s)
	case int64:
		return float64(s), nil
	case uint64:
		return float64(s), nil
	case string:
		return parseCount(s)
	}
	return 0, fmt.Errorf("%w: %T", core.ErrNotNumeric, raw)
}

func parseCount(s string) (float64, error) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", core.ErrNotNumeric, s)
	}
	return finite(f)
}

// finite rejects NaN and infinities, which cannot be persisted as JSON numbers.
func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %v", core.ErrNotNumeric, f)
	}
	return f, nil
}
