package orderpipe_test

import (
	"errors"
	"testing"
	"time"

	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

func TestRunConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		config    orderpipe.RunConfig
		wantError bool
		errorType error
	}{
		{
			name: "valid config",
			config: orderpipe.RunConfig{
				SourcePath:       "./orders",
				ConnectionString: "postgresql://localhost:5432/logistics",
			},
			wantError: false,
		},
		{
			name: "valid config with policy and timeout",
			config: orderpipe.RunConfig{
				SourcePath:       "./orders",
				ConnectionString: "postgresql://localhost:5432/logistics",
				OnConflict:       orderpipe.ConflictFail,
				Timeout:          5 * time.Minute,
			},
			wantError: false,
		},
		{
			name: "missing source path",
			config: orderpipe.RunConfig{
				ConnectionString: "postgresql://localhost:5432/logistics",
			},
			wantError: true,
			errorType: orderpipe.ErrInvalidConfig,
		},
		{
			name: "missing connection string",
			config: orderpipe.RunConfig{
				SourcePath: "./orders",
			},
			wantError: true,
			errorType: orderpipe.ErrInvalidConfig,
		},
		{
			name: "negative timeout",
			config: orderpipe.RunConfig{
				SourcePath:       "./orders",
				ConnectionString: "postgresql://localhost:5432/logistics",
				Timeout:          -time.Second,
			},
			wantError: true,
			errorType: orderpipe.ErrInvalidConfig,
		},
		{
			name: "unknown conflict policy",
			config: orderpipe.RunConfig{
				SourcePath:       "./orders",
				ConnectionString: "postgresql://localhost:5432/logistics",
				OnConflict:       orderpipe.ConflictPolicy("merge"),
			},
			wantError: true,
			errorType: orderpipe.ErrInvalidConfig,
		},
		{
			name: "aws iam without region",
			config: orderpipe.RunConfig{
				SourcePath:       "./orders",
				ConnectionString: "postgresql://localhost:5432/logistics",
				AuthMethod:       orderpipe.AuthMethodAWSIAM,
			},
			wantError: true,
			errorType: orderpipe.ErrInvalidConfig,
		},
		{
			name: "google iam without instance",
			config: orderpipe.RunConfig{
				SourcePath:       "./orders",
				ConnectionString: "postgresql://localhost:5432/logistics",
				AuthMethod:       orderpipe.AuthMethodGoogleIAM,
			},
			wantError: true,
			errorType: orderpipe.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantError {
				if err == nil {
					t.Fatal("expected validation error, got nil")
				}
				if tt.errorType != nil && !errors.Is(err, tt.errorType) {
					t.Errorf("expected error type %v, got %v", tt.errorType, err)
				}
				return
			}
			if err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
		})
	}
}

func TestParseConflictPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    orderpipe.ConflictPolicy
		wantErr bool
	}{
		{"", orderpipe.ConflictUpsert, false},
		{"upsert", orderpipe.ConflictUpsert, false},
		{"UPSERT", orderpipe.ConflictUpsert, false},
		{"fail", orderpipe.ConflictFail, false},
		{" fail ", orderpipe.ConflictFail, false},
		{"merge", "", true},
	}

	for _, tt := range tests {
		t.Run("input="+tt.input, func(t *testing.T) {
			got, err := orderpipe.ParseConflictPolicy(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if !errors.Is(err, orderpipe.ErrInvalidConfig) {
					t.Errorf("expected ErrInvalidConfig, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseConflictPolicy(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAuthMethod_String(t *testing.T) {
	tests := []struct {
		method orderpipe.AuthMethod
		want   string
	}{
		{orderpipe.AuthMethodStandard, "Standard"},
		{orderpipe.AuthMethodAWSIAM, "AWS IAM"},
		{orderpipe.AuthMethodGoogleIAM, "Google IAM"},
		{orderpipe.AuthMethodAzureEntraID, "Azure Entra ID"},
		{orderpipe.AuthMethod(99), "Unknown(99)"},
	}

	for _, tt := range tests {
		if got := tt.method.String(); got != tt.want {
			t.Errorf("AuthMethod(%d).String() = %q, want %q", tt.method, got, tt.want)
		}
	}
}

func TestTableCounts(t *testing.T) {
	counts := orderpipe.TableCounts{"orders": 3, "items": 7, "customers": 2}

	if got := counts.Total(); got != 12 {
		t.Errorf("Total() = %d, want 12", got)
	}
	if got := counts.String(); got != "customers=2 items=7 orders=3" {
		t.Errorf("String() = %q", got)
	}

	var empty orderpipe.TableCounts
	if got := empty.Total(); got != 0 {
		t.Errorf("empty Total() = %d, want 0", got)
	}
}
