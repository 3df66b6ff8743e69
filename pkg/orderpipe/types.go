package orderpipe

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RunConfig contains all parameters needed for a full extract/transform/load run.
type RunConfig struct {
	// SourcePath is the directory containing per-order JSON documents
	SourcePath string

	// ConnectionString is the PostgreSQL connection string (URI or ADO.NET format)
	ConnectionString string

	// OnConflict selects how a re-run treats orders already present in the
	// database. Defaults to ConflictUpsert when zero.
	OnConflict ConflictPolicy

	// Timeout is the global timeout for the entire run
	Timeout time.Duration

	// Verbose enables detailed logging
	Verbose bool

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// AWSRegion is required when AuthMethod is AuthMethodAWSIAM
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
	// (project:region:instance), required when AuthMethod is AuthMethodGoogleIAM
	GoogleInstance string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// Validate checks if the RunConfig has all required fields and valid values.
// It returns a multi-error if multiple validation failures occur.
func (c *RunConfig) Validate() error {
	var errs []error

	if c.SourcePath == "" {
		errs = append(errs, fmt.Errorf("SourcePath is required: %w", ErrInvalidConfig))
	}

	if c.ConnectionString == "" {
		errs = append(errs, fmt.Errorf("ConnectionString is required: %w", ErrInvalidConfig))
	}

	if c.Timeout < 0 {
		errs = append(errs, fmt.Errorf("timeout cannot be negative: %w", ErrInvalidConfig))
	}

	if c.OnConflict != "" && !c.OnConflict.IsValid() {
		errs = append(errs, fmt.Errorf("unknown conflict policy %q: %w", c.OnConflict, ErrInvalidConfig))
	}

	if c.AuthMethod == AuthMethodAWSIAM && c.AWSRegion == "" {
		errs = append(errs, fmt.Errorf("AWSRegion is required for AWS IAM authentication: %w", ErrInvalidConfig))
	}

	if c.AuthMethod == AuthMethodGoogleIAM && c.GoogleInstance == "" {
		errs = append(errs, fmt.Errorf("GoogleInstance is required for Google IAM authentication: %w", ErrInvalidConfig))
	}

	return errors.Join(errs...)
}

// ConflictPolicy selects the loader's behavior when an incoming order_id
// already exists in the target database.
type ConflictPolicy string

const (
	// ConflictUpsert overwrites the stored order and its 1:1 children with
	// the incoming document. Detail rows (items, actions) are upserted by
	// their own primary keys.
	ConflictUpsert ConflictPolicy = "upsert"

	// ConflictFail aborts the transaction on the first duplicate order_id,
	// leaving the database untouched.
	ConflictFail ConflictPolicy = "fail"
)

// IsValid returns true if the ConflictPolicy is a defined value.
func (p ConflictPolicy) IsValid() bool {
	return p == ConflictUpsert || p == ConflictFail
}

// ParseConflictPolicy converts a user-supplied string to a ConflictPolicy.
// The empty string resolves to ConflictUpsert.
func ParseConflictPolicy(s string) (ConflictPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "upsert":
		return ConflictUpsert, nil
	case "fail":
		return ConflictFail, nil
	default:
		return "", fmt.Errorf("unknown conflict policy %q (expected upsert or fail): %w", s, ErrInvalidConfig)
	}
}

// ConnectionConfig represents parsed connection parameters.
type ConnectionConfig struct {
	Host     string
	Port     int
	Database string
	Username string
	Password string
	SSLMode  string

	// AuthMethod indicates the authentication mechanism to use
	AuthMethod AuthMethod

	// Additional connection parameters
	AppName          string
	ConnectTimeout   time.Duration
	AdditionalParams map[string]string

	// AWSRegion is required when AuthMethod is AuthMethodAWSIAM
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance connection name
	// (project:region:instance), required when AuthMethod is AuthMethodGoogleIAM
	GoogleInstance string

	// Azure Entra ID authentication parameters (used when AuthMethod is AuthMethodAzureEntraID)
	// If all three are provided, Service Principal authentication is used.
	// If none are provided, DefaultAzureCredential chain is used (env vars, managed identity, CLI, etc.)
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// AuthMethod represents the type of authentication to use.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Username/Password
	AuthMethodAWSIAM                         // AWS IAM Database Authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM
	AuthMethodAzureEntraID                   // Azure Active Directory (Entra ID)
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// IsValid returns true if the AuthMethod is a valid, defined value.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}
