package vidnav

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrMissingParameter is returned when a required parameter is not set.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrInvalidParameter is returned when a parameter has the wrong type.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrUnsupportedMethod is returned for custom requests that are not GET or POST.
	ErrUnsupportedMethod = errors.New("unsupported HTTP method")
	// ErrUnsupportedOperation is returned by ReadParams for an unknown tag.
	ErrUnsupportedOperation = errors.New("unsupported operation")
)

// ParameterSource yields the raw value of a named parameter for an item.
// The boolean is false when the parameter is not set at all.
type ParameterSource interface {
	Parameter(name string, item int) (any, bool)
}

// MapParameters is a ParameterSource over decoded items. Values missing
// from an item fall back to Defaults.
type MapParameters struct {
	Items    []map[string]any
	Defaults map[string]any
}

// Parameter implements ParameterSource. A nil value counts as unset.
func (m MapParameters) Parameter(name string, item int) (any, bool) {
	if item >= 0 && item < len(m.Items) {
		if v, ok := m.Items[item][name]; ok && v != nil {
			return v, true
		}
	}
	if v, ok := m.Defaults[name]; ok && v != nil {
		return v, true
	}
	return nil, false
}

// Len returns the number of items.
func (m MapParameters) Len() int {
	return len(m.Items)
}

// SingleItem returns a one-item source, the usual shape for CLI and MCP calls.
func SingleItem(params map[string]any) MapParameters {
	return MapParameters{Items: []map[string]any{params}}
}

func requiredString(src ParameterSource, name string, item int) (string, error) {
	v, ok := src.Parameter(name, item)
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrMissingParameter, name)
	}
	return asString(name, v)
}

func optionalString(src ParameterSource, name string, item int, fallback string) (string, error) {
	v, ok := src.Parameter(name, item)
	if !ok {
		return fallback, nil
	}
	return asString(name, v)
}

func optionalInt(src ParameterSource, name string, item int, fallback int) (int, error) {
	v, ok := src.Parameter(name, item)
	if !ok {
		return fallback, nil
	}
	return asInt(name, v)
}

// asString accepts strings plus the scalar shapes JSON decoding produces for
// text that happens to look like a number or boolean.
func asString(name string, v any) (string, error) {
	switch s := v.(type) {
	case string:
		return s, nil
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), nil
	case int:
		return strconv.Itoa(s), nil
	case int64:
		return strconv.FormatInt(s, 10), nil
	case bool:
		return strconv.FormatBool(s), nil
	case fmt.Stringer:
		return s.String(), nil
	default:
		return "", fmt.Errorf("%w: %s must be a string, got %T", ErrInvalidParameter, name, v)
	}
}

// asInt accepts the number shapes produced by JSON decoding and flags, plus
// numeric strings.
func asInt(name string, v any) (int, error) {
	switch n := v.(type) {
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case float64:
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %s must be a whole number, got %v", ErrInvalidParameter, name, n)
		}
		return int(n), nil
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			return 0, fmt.Errorf("%w: %s: %v", ErrInvalidParameter, name, err)
		}
		return int(i), nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, nil
		}
		i, err := strconv.Atoi(s)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number, got %q", ErrInvalidParameter, name, n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", ErrInvalidParameter, name, v)
	}
}

// QueryPair is one entry of a custom request's query parameter list.
type QueryPair struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// queryPairs reads the custom query collection. It accepts the collection
// object {"parameters": [...]}, a bare list of {key, value} objects, or
// []QueryPair.
func queryPairs(src ParameterSource, item int) ([]QueryPair, error) {
	v, ok := src.Parameter("query", item)
	if !ok {
		return nil, nil
	}

	switch q := v.(type) {
	case []QueryPair:
		return q, nil
	case map[string]any:
		list, ok := q["parameters"]
		if !ok || list == nil {
			return nil, nil
		}
		return decodePairList(list)
	default:
		return decodePairList(v)
	}
}

func decodePairList(v any) ([]QueryPair, error) {
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%w: query must be a list of key/value pairs, got %T", ErrInvalidParameter, v)
	}

	pairs := make([]QueryPair, 0, len(list))
	for i, entry := range list {
		m, ok := entry.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%w: query[%d] must be an object, got %T", ErrInvalidParameter, i, entry)
		}
		pair := QueryPair{}
		if key, ok := m["key"].(string); ok {
			pair.Key = key
		}
		switch value := m["value"].(type) {
		case nil:
		case string:
			pair.Value = value
		default:
			pair.Value = fmt.Sprint(value)
		}
		pairs = append(pairs, pair)
	}
	return pairs, nil
}
