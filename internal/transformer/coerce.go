package transformer

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// nullLiterals are cell texts that mean "no value".
var nullLiterals = map[string]bool{
	"":     true,
	"null": true,
	"none": true,
	"nan":  true,
}

// ParseFloat converts a cell text to a float. Empty, null-like and
// non-numeric texts yield 0. A single decimal comma ("-23,55") is read as a
// decimal point. NaN and infinities yield 0 since they cannot be sent as JSON.
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if nullLiterals[strings.ToLower(s)] {
		return 0
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// ParseInt converts a cell text to an int, truncating fractional readings
// such as "12345.0". Anything unparsable or out of range yields 0.
func ParseInt(s string) int {
	f := ParseFloat(s)
	if f >= math.MaxInt64 || f <= math.MinInt64 {
		return 0
	}
	return int(f)
}

// CoerceFloat converts a decoded JSON value to a float following the same
// rules as ParseFloat. JSON null yields 0.
func CoerceFloat(v any) float64 {
	switch n := v.(type) {
	case nil:
		return 0
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	case float32:
		return CoerceFloat(float64(n))
	case int:
		return float64(n)
	case int64:
		return float64(n)
	case json.Number:
		return ParseFloat(n.String())
	case string:
		return ParseFloat(n)
	default:
		return 0
	}
}
