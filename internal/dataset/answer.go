package dataset

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strings"
)

// Answer is a raw JSON answer value. CLEVR answers are strings, numbers or
// booleans and are compared by value, not by encoding.
type Answer json.RawMessage

// UnmarshalJSON stores a copy of the raw value.
func (a *Answer) UnmarshalJSON(data []byte) error {
	*a = append((*a)[:0], bytes.TrimSpace(data)...)
	return nil
}

// MarshalJSON returns the raw value, or null when empty.
func (a Answer) MarshalJSON() ([]byte, error) {
	if len(a) == 0 {
		return []byte("null"), nil
	}
	return a, nil
}

// String returns the raw JSON text.
func (a Answer) String() string {
	return string(a)
}

// Equal reports whether two answers hold the same JSON value. With normalize
// set, string answers are compared trimmed and lowercased.
func (a Answer) Equal(other Answer, normalize bool) bool {
	left, ok := a.decode(normalize)
	if !ok {
		return false
	}
	right, ok := other.decode(normalize)
	if !ok {
		return false
	}
	return reflect.DeepEqual(left, right)
}

func (a Answer) decode(normalize bool) (any, bool) {
	if len(a) == 0 {
		return nil, false
	}
	var value any
	if err := json.Unmarshal(a, &value); err != nil {
		return nil, false
	}
	if text, ok := value.(string); ok && normalize {
		return NormalizeAnswerText(text), true
	}
	return value, true
}

// NormalizeAnswerText trims whitespace and lowercases an answer for matching.
func NormalizeAnswerText(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
