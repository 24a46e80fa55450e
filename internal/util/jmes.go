package util

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/jmespath/go-jmespath"
)

// ExtractValue evaluates the given JMESPath expression against a raw log
// message (decoded as JSON if possible; otherwise wrapped as
// {"message": raw}) and returns the string form of the result. Array
// results use the first element only.
// Returns (value, true, nil) on success; ("", false, nil) if empty; or error.
func ExtractValue(raw string, jmes string) (string, bool, error) {
	var input any
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		input = decoded
	} else {
		input = map[string]any{"message": raw}
	}

	res, err := jmespath.Search(jmes, input)
	if err != nil {
		return "", false, fmt.Errorf("jmespath search failed: %w", err)
	}
	if isEmpty(res) {
		return "", false, nil
	}
	// If array/slice, take the first element only
	rv := reflect.ValueOf(res)
	if rv.IsValid() && (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array) {
		res = rv.Index(0).Interface()
		if isEmpty(res) {
			return "", false, nil
		}
	}
	s, err := Stringify(res, false)
	if err != nil {
		return "", false, err
	}
	if s == "" || s == "null" || s == "[]" || s == "{}" {
		return "", false, nil
	}
	return s, true, nil
}

// Query evaluates a JMESPath expression against any JSON-encodable value.
// The value is round-tripped through JSON so struct tags decide the field
// names the expression sees.
func Query(doc any, jmes string) (any, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal query input failed: %w", err)
	}
	var input any
	if err := json.Unmarshal(b, &input); err != nil {
		return nil, fmt.Errorf("decode query input failed: %w", err)
	}
	out, err := jmespath.Search(jmes, input)
	if err != nil {
		return nil, fmt.Errorf("jmespath search failed: %w", err)
	}
	return out, nil
}

// Stringify returns strings as-is and everything else as JSON.
func Stringify(v any, pretty bool) (string, error) {
	if s, ok := v.(string); ok {
		return s, nil
	}
	var b []byte
	var err error
	if pretty {
		b, err = json.MarshalIndent(v, "", "  ")
	} else {
		b, err = json.Marshal(v)
	}
	if err != nil {
		return "", fmt.Errorf("marshal result failed: %w", err)
	}
	return string(b), nil
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	switch t := v.(type) {
	case string:
		return t == ""
	case []any:
		return len(t) == 0
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len() == 0
	}
	return false
}
