package utils

import (
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsFalsy reports whether v counts as "empty": nil, false, numeric zero,
// the empty string, or an empty slice or map.
func IsFalsy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return true
	case bool:
		return !val
	case string:
		return val == ""
	case int:
		return val == 0
	case int32:
		return val == 0
	case int64:
		return val == 0
	case float64:
		return val == 0
	case primitive.Null, primitive.Undefined:
		return true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array:
		return rv.Len() == 0
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return rv.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return rv.Float() == 0
	case reflect.Ptr, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// ConvertToInt coerces integral values, including the numeric types the
// Mongo driver decodes into, to int. Fractional floats are rejected.
func ConvertToInt(val interface{}) (int, error) {
	switch v := val.(type) {
	case int:
		return v, nil
	case int8:
		return int(v), nil
	case int16:
		return int(v), nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case uint:
		return uintToInt(uint64(v))
	case uint8:
		return int(v), nil
	case uint16:
		return int(v), nil
	case uint32:
		return uintToInt(uint64(v))
	case uint64:
		return uintToInt(v)
	case uintptr:
		return uintToInt(uint64(v))
	case float32:
		return floatToInt(float64(v))
	case float64:
		return floatToInt(v)
	case bool:
		if v {
			return 1, nil
		}
		return 0, nil
	case primitive.Decimal128:
		return ConvertToInt(v.String())
	case string:
		return strconv.Atoi(strings.TrimSpace(v))
	case []byte:
		return ConvertToInt(string(v))
	default:
		return 0, fmt.Errorf("cannot convert %T to int", val)
	}
}

func uintToInt(u uint64) (int, error) {
	if u > math.MaxInt {
		return 0, fmt.Errorf("unsigned value %d overflows int", u)
	}
	return int(u), nil
}

// floatToInt accepts whole floats in [MinInt, MaxInt]. The upper bound is
// exclusive because float64(MaxInt) rounds up to 2^63.
func floatToInt(f float64) (int, error) {
	if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("cannot convert non-integral float %v to int", f)
	}
	if f < float64(math.MinInt) || f >= -float64(math.MinInt) {
		return 0, fmt.Errorf("float %v overflows int", f)
	}
	return int(f), nil
}

// ToText returns v as a string when it already holds text.
func ToText(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case []byte:
		return string(s), true
	default:
		return "", false
	}
}
