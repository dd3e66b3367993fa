package shared

import (
	"encoding/json"
	"net/http"
)

// DecodeJSON decodes the request body into the given value.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// OptionalString extracts a present-or-absent string field from a decoded
// raw JSON object. An absent key yields nil; an explicit JSON null yields
// a pointer to the empty string, so "supplied as null" and "supplied as
// empty" behave identically downstream.
func OptionalString(raw map[string]json.RawMessage, key string) (*string, error) {
	v, ok := raw[key]
	if !ok {
		return nil, nil
	}
	var s *string
	if err := json.Unmarshal(v, &s); err != nil {
		return nil, err
	}
	if s == nil {
		s = new(string)
	}
	return s, nil
}

// OptionalInt is the integer counterpart of OptionalString; an explicit
// JSON null coerces to zero.
func OptionalInt(raw map[string]json.RawMessage, key string) (*int, error) {
	v, ok := raw[key]
	if !ok {
		return nil, nil
	}
	var n *int
	if err := json.Unmarshal(v, &n); err != nil {
		return nil, err
	}
	if n == nil {
		n = new(int)
	}
	return n, nil
}
