package driver

import (
	"encoding/json"
	"strconv"
	"strings"
)

// String returns the value at key coerced to a string, or "" when absent.
func (p Payload) String(key string) string {
	return Stringify(p[key])
}

// Bool parses the value at key as a boolean. The second result is false when
// the key is absent or not boolean-like.
func (p Payload) Bool(key string) (bool, bool) {
	switch v := p[key].(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return false, false
		}
		return b, true
	}
	return false, false
}

// Object returns the nested object at key, or nil.
func (p Payload) Object(key string) Payload {
	if m, ok := p[key].(map[string]any); ok {
		return Payload(m)
	}
	return nil
}

// Stringify coerces a decoded JSON value to its template-safe string form.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
