package normalize

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

// section is a cursor into the decoded JSON document: the object being
// read plus the source file and dotted path used for error reporting.
// Values decoded by encoding/json arrive as string, float64, bool,
// map[string]any, []any or nil.
type section struct {
	file string
	path string // dotted path of this object, "" for the document root
	m    map[string]any
}

func newSection(file string, m map[string]any) section {
	return section{file: file, m: m}
}

// dotted returns the full path of a field inside this section.
func (s section) dotted(field string) string {
	if s.path == "" {
		return field
	}
	return s.path + "." + field
}

// requireString returns a non-empty string field or a MalformedRecordError.
func (s section) requireString(field string) (string, error) {
	raw, ok := s.m[field]
	if !ok || raw == nil {
		return "", &orderpipe.MalformedRecordError{File: s.file, Field: s.dotted(field), Reason: "required field is missing"}
	}

	str, ok := raw.(string)
	if !ok {
		return "", &orderpipe.MalformedRecordError{File: s.file, Field: s.dotted(field), Reason: fmt.Sprintf("expected string, got %T", raw)}
	}
	if strings.TrimSpace(str) == "" {
		return "", &orderpipe.MalformedRecordError{File: s.file, Field: s.dotted(field), Reason: "required field is empty"}
	}

	return str, nil
}

// optString returns a string field, nil when absent or null.
// Numeric values are rendered as strings since feeds occasionally emit
// numbers for textual fields like order_number.
func (s section) optString(field string) (*string, error) {
	raw, ok := s.m[field]
	if !ok || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case string:
		return &v, nil
	case float64:
		str := formatNumber(v)
		return &str, nil
	default:
		return nil, &orderpipe.TypeCoercionError{File: s.file, Field: s.dotted(field), Value: raw}
	}
}

// optFloat returns a numeric field, nil when absent or null.
// Numeric strings are accepted.
func (s section) optFloat(field string) (*float64, error) {
	raw, ok := s.m[field]
	if !ok || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case float64:
		return &v, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, &orderpipe.TypeCoercionError{File: s.file, Field: s.dotted(field), Value: raw}
		}
		return &f, nil
	default:
		return nil, &orderpipe.TypeCoercionError{File: s.file, Field: s.dotted(field), Value: raw}
	}
}

// optInt returns an integral field, nil when absent or null.
// JSON numbers must be whole; integral strings are accepted.
func (s section) optInt(field string) (*int64, error) {
	raw, ok := s.m[field]
	if !ok || raw == nil {
		return nil, nil
	}

	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return nil, &orderpipe.TypeCoercionError{File: s.file, Field: s.dotted(field), Value: raw}
		}
		n := int64(v)
		return &n, nil
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			return nil, &orderpipe.TypeCoercionError{File: s.file, Field: s.dotted(field), Value: raw}
		}
		return &n, nil
	default:
		return nil, &orderpipe.TypeCoercionError{File: s.file, Field: s.dotted(field), Value: raw}
	}
}

// optBool returns a boolean field, nil when absent or null.
// See CoerceBool for the accepted representations.
func (s section) optBool(field string) (*bool, error) {
	raw, ok := s.m[field]
	if !ok {
		return nil, nil
	}
	return CoerceBool(s.file, s.dotted(field), raw)
}

// optTime returns a timestamp field parsed to UTC, nil when absent,
// null or blank.
func (s section) optTime(field string) (*time.Time, error) {
	raw, ok := s.m[field]
	if !ok || raw == nil {
		return nil, nil
	}

	str, ok := raw.(string)
	if !ok {
		return nil, &orderpipe.TypeCoercionError{File: s.file, Field: s.dotted(field), Value: raw}
	}
	if strings.TrimSpace(str) == "" {
		return nil, nil
	}

	t, err := ParseTimestamp(s.file, s.dotted(field), str)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// child returns a nested object field as its own section. present is
// false when the field is absent or null; a present non-object value is
// malformed.
func (s section) child(field string) (child section, present bool, err error) {
	raw, ok := s.m[field]
	if !ok || raw == nil {
		return section{}, false, nil
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return section{}, false, &orderpipe.MalformedRecordError{File: s.file, Field: s.dotted(field), Reason: fmt.Sprintf("expected object, got %T", raw)}
	}
	return section{file: s.file, path: s.dotted(field), m: obj}, true, nil
}

// childArray returns a nested array of objects as sections with indexed
// paths like "items[2]". Absent or null fields yield a nil slice; any
// non-object element is malformed.
func (s section) childArray(field string) ([]section, error) {
	raw, ok := s.m[field]
	if !ok || raw == nil {
		return nil, nil
	}

	arr, ok := raw.([]any)
	if !ok {
		return nil, &orderpipe.MalformedRecordError{File: s.file, Field: s.dotted(field), Reason: fmt.Sprintf("expected array, got %T", raw)}
	}

	sections := make([]section, 0, len(arr))
	for i, elem := range arr {
		obj, ok := elem.(map[string]any)
		if !ok {
			return nil, &orderpipe.MalformedRecordError{
				File:   s.file,
				Field:  fmt.Sprintf("%s[%d]", s.dotted(field), i),
				Reason: fmt.Sprintf("expected object, got %T", elem),
			}
		}
		sections = append(sections, section{
			file: s.file,
			path: fmt.Sprintf("%s[%d]", s.dotted(field), i),
			m:    obj,
		})
	}
	return sections, nil
}

// formatNumber renders a JSON number without a trailing ".0" for whole values.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatInt(int64(v), 10)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
