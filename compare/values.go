package compare

import (
	"bytes"
	"fmt"
	"strconv"
	"time"
)

// valuesEqual compares two cell values by kind. Null is its own kind and
// never equals a non-null value. Numeric kinds are unified so an int32 from
// one driver equals the same number scanned as int64 or float64 by another;
// beyond that, kinds are not coerced (the string "1" never equals 1).
func valuesEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if ab, ok := a.([]byte); ok {
		if bb, ok := b.([]byte); ok {
			return bytes.Equal(ab, bb)
		}
		return false
	}

	if at, ok := a.(time.Time); ok {
		if bt, ok := b.(time.Time); ok {
			return at.Equal(bt)
		}
		return false
	}

	if af, aNum := toFloat(a); aNum {
		bf, bNum := toFloat(b)
		return bNum && af == bf
	}

	switch av := a.(type) {
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}

	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// keyString builds the map key for a row from the values at the given
// column positions. Parts are length-prefixed so composite keys cannot
// collide across part boundaries.
func keyString(row []any, positions []int) string {
	var buf bytes.Buffer
	for _, pos := range positions {
		var part string
		if pos < len(row) {
			part = formatKeyPart(row[pos])
		} else {
			part = "\x00missing"
		}
		buf.WriteString(strconv.Itoa(len(part)))
		buf.WriteByte(':')
		buf.WriteString(part)
	}
	return buf.String()
}

func formatKeyPart(v any) string {
	switch x := v.(type) {
	case nil:
		return "\x00null"
	case []byte:
		return string(x)
	case time.Time:
		return x.UTC().Format(time.RFC3339Nano)
	default:
		if f, ok := toFloat(v); ok {
			return strconv.FormatFloat(f, 'g', -1, 64)
		}
		return fmt.Sprintf("%v", v)
	}
}
