package normalize

import (
	"strings"

	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

// CoerceBool maps the boolean representations seen in order feeds to a
// *bool. Accepted inputs:
//
//	nil                     -> nil
//	true, false             -> as is
//	0, 1                    -> false, true
//	"true","false","1","0",
//	"yes","no","y","n"      -> case-insensitive
//
// Anything else is a TypeCoercionError. Note that unlike lenient feeds,
// arbitrary non-zero numbers and unrecognized strings are rejected rather
// than silently nulled.
func CoerceBool(file, field string, value any) (*bool, error) {
	if value == nil {
		return nil, nil
	}

	switch v := value.(type) {
	case bool:
		return &v, nil
	case float64:
		switch v {
		case 0:
			f := false
			return &f, nil
		case 1:
			t := true
			return &t, nil
		}
	case string:
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "true", "1", "yes", "y":
			t := true
			return &t, nil
		case "false", "0", "no", "n":
			f := false
			return &f, nil
		}
	}

	return nil, &orderpipe.TypeCoercionError{File: file, Field: field, Value: value}
}
