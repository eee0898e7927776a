package shipment

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

// Value is a loosely typed JSON field. The backend serves numbers either as
// JSON numbers or as strings, dates as strings or {"seconds": n} wrappers, and
// uses null or "-" for missing data. A zero Value is absent.
type Value struct {
	raw any
}

// V wraps a Go value. Numbers, strings, bools, maps and time values are
// accepted; nil yields an absent Value.
func V(raw any) Value {
	return Value{raw: raw}
}

// UnmarshalJSON keeps the decoded JSON value as-is. JSON null decodes to an
// absent Value.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v.raw = raw
	return nil
}

// MarshalJSON writes the wrapped value back unchanged.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.raw)
}

// Raw returns the wrapped value.
func (v Value) Raw() any {
	return v.raw
}

// Present reports whether the field was set to anything other than null.
func (v Value) Present() bool {
	return v.raw != nil
}

// Truthy follows JavaScript truthiness: null, false, 0, NaN and "" are falsy.
func (v Value) Truthy() bool {
	switch x := v.raw.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float64:
		return x != 0 && !math.IsNaN(x)
	case float32:
		return x != 0
	case int:
		return x != 0
	case int64:
		return x != 0
	default:
		return true
	}
}

// String renders the value for display. Absent values render as "".
func (v Value) String() string {
	switch x := v.raw.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	default:
		return cast.ToString(x)
	}
}

// Float coerces the value to a number. Absent or non-numeric values are 0.
func (v Value) Float() float64 {
	f, ok := v.Number()
	if !ok {
		return 0
	}
	return f
}

// Number coerces the value to a number and reports whether that succeeded.
func (v Value) Number() (float64, bool) {
	switch x := v.raw.(type) {
	case nil, bool, map[string]any, []any:
		return 0, false
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(x), 64)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		f, err := cast.ToFloat64E(x)
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}
}

// Int parses the value as an integer the way a quantity field is read:
// numbers are truncated, strings are read up to the first non-digit and
// anything else is 0.
func (v Value) Int() int {
	switch x := v.raw.(type) {
	case nil:
		return 0
	case string:
		return leadingInt(x)
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return int(x)
	default:
		n, err := cast.ToIntE(x)
		if err != nil {
			return 0
		}
		return n
	}
}

// leadingInt reads an optional sign followed by decimal digits, ignoring
// leading whitespace and anything after the digits.
func leadingInt(s string) int {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0
	}
	return n
}
