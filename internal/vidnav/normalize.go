package vidnav

import "reflect"

// OutputRecord is the single record emitted per input item.
type OutputRecord struct {
	JSON any `json:"json"`
}

// Normalize wraps a response into an OutputRecord. Objects and arrays pass
// through unchanged; scalars and null become {"data": value}.
func Normalize(resp any) OutputRecord {
	if isStructured(resp) {
		return OutputRecord{JSON: resp}
	}
	return OutputRecord{JSON: map[string]any{"data": resp}}
}

func isStructured(v any) bool {
	if v == nil {
		return false
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return false
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct:
		if rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8 {
			return false
		}
		return true
	default:
		return false
	}
}
