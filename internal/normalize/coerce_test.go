package normalize

import (
	"errors"
	"testing"

	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

func TestCoerceBool(t *testing.T) {
	tests := []struct {
		name  string
		input any
		want  *bool
	}{
		{"nil", nil, nil},
		{"true", true, boolPtr(true)},
		{"false", false, boolPtr(false)},
		{"number one", float64(1), boolPtr(true)},
		{"number zero", float64(0), boolPtr(false)},
		{"string true", "true", boolPtr(true)},
		{"string TRUE", "TRUE", boolPtr(true)},
		{"string false", "false", boolPtr(false)},
		{"string 1", "1", boolPtr(true)},
		{"string 0", "0", boolPtr(false)},
		{"string yes", "yes", boolPtr(true)},
		{"string no", "no", boolPtr(false)},
		{"string y", "y", boolPtr(true)},
		{"string n", "n", boolPtr(false)},
		{"padded string", " Yes ", boolPtr(true)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CoerceBool("a.json", "is_verified", tt.input)
			if err != nil {
				t.Fatalf("CoerceBool(%v) error: %v", tt.input, err)
			}
			switch {
			case tt.want == nil && got != nil:
				t.Errorf("CoerceBool(%v) = %v, want nil", tt.input, *got)
			case tt.want != nil && got == nil:
				t.Errorf("CoerceBool(%v) = nil, want %v", tt.input, *tt.want)
			case tt.want != nil && *got != *tt.want:
				t.Errorf("CoerceBool(%v) = %v, want %v", tt.input, *got, *tt.want)
			}
		})
	}
}

func TestCoerceBool_Rejected(t *testing.T) {
	inputs := []any{
		float64(2),
		float64(-1),
		float64(0.5),
		"maybe",
		"truthy",
		[]any{},
		map[string]any{},
	}

	for _, input := range inputs {
		got, err := CoerceBool("a.json", "customer.is_verified", input)
		if err == nil {
			t.Errorf("CoerceBool(%v) expected error, got %v", input, got)
			continue
		}
		if !errors.Is(err, orderpipe.ErrTypeCoercion) {
			t.Errorf("CoerceBool(%v) expected ErrTypeCoercion, got %v", input, err)
		}

		var tce *orderpipe.TypeCoercionError
		if !errors.As(err, &tce) {
			t.Errorf("expected TypeCoercionError, got %T", err)
			continue
		}
		if tce.Field != "customer.is_verified" {
			t.Errorf("error field = %q, want customer.is_verified", tce.Field)
		}
	}
}

func boolPtr(b bool) *bool { return &b }
