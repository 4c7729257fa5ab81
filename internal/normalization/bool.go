package normalization

import (
	"encoding/json"
	"math"
	"reflect"
)

// NegativeToken is the only text value read as false by ToStrictBoolNegatable.
const NegativeToken = "no"

// ToStrictBool returns the plain truthiness of value: nil, false, numeric
// zero, NaN and the empty string are false; everything else is true.
func ToStrictBool(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return v != ""
		}
		return f != 0
	case float64:
		return v != 0 && !math.IsNaN(v)
	case float32:
		return v != 0 && !math.IsNaN(float64(v))
	case int:
		return v != 0
	case int8:
		return v != 0
	case int16:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case uint:
		return v != 0
	case uint8:
		return v != 0
	case uint16:
		return v != 0
	case uint32:
		return v != 0
	case uint64:
		return v != 0
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return false
		}
		return ToStrictBool(rv.Elem().Interface())
	case reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return true
	}
}

// ToStrictBoolNegatable treats any text other than NegativeToken as true.
// Non-text input falls back to ToStrictBool.
func ToStrictBoolNegatable(value any) bool {
	if s, ok := value.(string); ok {
		return s != NegativeToken
	}
	return ToStrictBool(value)
}

// LooseBool decodes any JSON scalar through ToStrictBool.
type LooseBool bool

// UnmarshalJSON accepts any JSON scalar, including null, and stores its truthiness.
func (b *LooseBool) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = LooseBool(ToStrictBool(raw))
	return nil
}

// Bool returns the decoded value.
func (b LooseBool) Bool() bool { return bool(b) }

// NegatableBool decodes any JSON scalar through ToStrictBoolNegatable.
type NegatableBool bool

// UnmarshalJSON reads text as false only when it equals NegativeToken.
// Other scalars decode through ToStrictBool.
func (b *NegatableBool) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = NegatableBool(ToStrictBoolNegatable(raw))
	return nil
}

// Bool returns the decoded value.
func (b NegatableBool) Bool() bool { return bool(b) }
