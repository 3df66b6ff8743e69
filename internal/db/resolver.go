package db

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/orderpipe/orderpipe/internal/config"
	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

// GranularConnFlags represents connection parameters from CLI flags.
// These follow PostgreSQL standard flag conventions (-h, -p, -U, -d).
//
// Note: Password is NOT included as a CLI flag. Use one of these instead:
//  1. $PGPASSWORD environment variable
//  2. .pgpass file (PostgreSQL standard)
//  3. Connection string with embedded password
type GranularConnFlags struct {
	Host     string
	Port     int
	Username string
	Database string
	SSLMode  string
}

// IsEmpty returns true if no connection-related granular flags were provided.
// Database is excluded because it can override the database named in a
// connection string.
func (g *GranularConnFlags) IsEmpty() bool {
	return g.Host == "" && g.Port == 0 && g.Username == "" && g.SSLMode == ""
}

// CloudFlags represents cloud authentication CLI flags.
// Note: the Azure client secret is NOT a CLI flag; use $AZURE_CLIENT_SECRET.
type CloudFlags struct {
	AWSIAM         bool   // --aws-iam
	AWSRegion      string // --aws-region, overrides $AWS_REGION
	GoogleInstance string // --google-instance (project:region:instance), implies Google IAM
	AzureTenantID  string // overrides $AZURE_TENANT_ID
	AzureClientID  string // overrides $AZURE_CLIENT_ID
}

// IsEmpty returns true if no cloud flags were provided.
func (c *CloudFlags) IsEmpty() bool {
	return c == nil || (!c.AWSIAM && c.AWSRegion == "" && c.GoogleInstance == "" &&
		c.AzureTenantID == "" && c.AzureClientID == "")
}

// EnvVars represents PostgreSQL standard environment variables plus the
// cloud provider variables this tool understands.
// See: https://www.postgresql.org/docs/current/libpq-envars.html
type EnvVars struct {
	PGHOST       string
	PGPORT       string
	PGUSER       string
	PGPASSWORD   string
	PGDATABASE   string
	PGSSLMODE    string
	DATABASE_URL string // Full connection string (Heroku convention)

	AWS_REGION          string
	AZURE_TENANT_ID     string
	AZURE_CLIENT_ID     string
	AZURE_CLIENT_SECRET string
}

// LoadFromEnvironment loads PostgreSQL and cloud provider environment variables.
func LoadFromEnvironment() *EnvVars {
	return &EnvVars{
		PGHOST:              os.Getenv("PGHOST"),
		PGPORT:              os.Getenv("PGPORT"),
		PGUSER:              os.Getenv("PGUSER"),
		PGPASSWORD:          os.Getenv("PGPASSWORD"),
		PGDATABASE:          os.Getenv("PGDATABASE"),
		PGSSLMODE:           os.Getenv("PGSSLMODE"),
		DATABASE_URL:        os.Getenv("DATABASE_URL"),
		AWS_REGION:          os.Getenv("AWS_REGION"),
		AZURE_TENANT_ID:     os.Getenv("AZURE_TENANT_ID"),
		AZURE_CLIENT_ID:     os.Getenv("AZURE_CLIENT_ID"),
		AZURE_CLIENT_SECRET: os.Getenv("AZURE_CLIENT_SECRET"),
	}
}

// ResolveConnectionParams resolves connection parameters using
// PostgreSQL-standard precedence:
//
//  1. Connection string flag (--connection-string) - parsed and used directly
//  2. Granular flags (-h, -p, -U, -d) - if any provided
//  3. Environment variables (PGHOST, PGPORT, ...)
//  4. DATABASE_URL environment variable - if no granular params
//  5. orderpipe.yaml connection section
//  6. Defaults (localhost:5432, prefer SSL)
//
// Cloud authentication is applied on top of the resolved parameters:
// --google-instance selects Google Cloud SQL IAM, --aws-iam selects AWS RDS
// IAM, and Azure Entra ID activates when Azure credentials are present in
// flags, environment, or orderpipe.yaml. Flags beat environment beats yaml.
//
// Returns an error if BOTH the connection string flag AND granular flags are
// provided, to keep user intent unambiguous.
func ResolveConnectionParams(
	connStringFlag string,
	granularFlags *GranularConnFlags,
	cloudFlags *CloudFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*orderpipe.ConnectionConfig, error) {
	if granularFlags == nil {
		granularFlags = &GranularConnFlags{}
	}
	if cloudFlags == nil {
		cloudFlags = &CloudFlags{}
	}
	if envVars == nil {
		envVars = &EnvVars{}
	}

	if connStringFlag != "" && !granularFlags.IsEmpty() {
		return nil, fmt.Errorf(
			"cannot specify both --connection-string and granular flags (-h, -p, -U)\n" +
				"Choose one approach:\n" +
				"  1. Connection string: --connection-string \"postgresql://user@localhost:5432/orders\"\n" +
				"  2. Granular flags: -h localhost -p 5432 -U myuser -d orders\n" +
				"  3. Environment variables: export PGHOST=localhost PGPORT=5432 PGUSER=myuser",
		)
	}

	var cfg *orderpipe.ConnectionConfig
	var err error

	switch {
	case connStringFlag != "":
		cfg, err = resolveFromConnectionString(connStringFlag, granularFlags, envVars)
	case granularFlags.IsEmpty() && envVars.DATABASE_URL != "":
		cfg, err = resolveFromConnectionString(envVars.DATABASE_URL, granularFlags, envVars)
	default:
		cfg, err = resolveFromGranularParams(granularFlags, envVars, projectConfig)
	}

	if err != nil {
		return nil, err
	}

	if err := applyCloudAuth(cfg, cloudFlags, envVars, projectConfig); err != nil {
		return nil, err
	}

	return cfg, nil
}

// resolveFromConnectionString parses a connection string and applies
// environment fallbacks for parameters the string leaves out, following
// libpq behavior.
func resolveFromConnectionString(connStr string, flags *GranularConnFlags, envVars *EnvVars) (*orderpipe.ConnectionConfig, error) {
	cfg, err := ParseConnectionString(connStr)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}

	// -d can still override the database embedded in the string
	if flags.Database != "" {
		cfg.Database = flags.Database
	}

	if cfg.SSLMode == "" && envVars.PGSSLMODE != "" {
		cfg.SSLMode = envVars.PGSSLMODE
	}
	if cfg.SSLMode == "" {
		cfg.SSLMode = "prefer"
	}

	return cfg, nil
}

// resolveFromGranularParams builds a ConnectionConfig with per-field
// precedence: flag > environment variable > orderpipe.yaml > default.
func resolveFromGranularParams(
	flags *GranularConnFlags,
	envVars *EnvVars,
	projectConfig *config.ProjectConfig,
) (*orderpipe.ConnectionConfig, error) {
	cfg := &orderpipe.ConnectionConfig{
		AuthMethod:       orderpipe.AuthMethodStandard,
		AdditionalParams: make(map[string]string),
	}

	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	cfg.Host = firstNonEmpty(flags.Host, envVars.PGHOST, pc.Host, "localhost")

	switch {
	case flags.Port != 0:
		cfg.Port = flags.Port
	case envVars.PGPORT != "":
		port, err := strconv.Atoi(envVars.PGPORT)
		if err != nil {
			return nil, fmt.Errorf("invalid $PGPORT value '%s': must be an integer", envVars.PGPORT)
		}
		cfg.Port = port
	case pc.Port != 0:
		cfg.Port = pc.Port
	default:
		cfg.Port = 5432
	}

	cfg.Username = firstNonEmpty(flags.Username, envVars.PGUSER, pc.Username,
		os.Getenv("USER"), os.Getenv("USERNAME"))
	cfg.Password = envVars.PGPASSWORD
	cfg.Database = firstNonEmpty(flags.Database, envVars.PGDATABASE, pc.Database)
	cfg.SSLMode = firstNonEmpty(flags.SSLMode, envVars.PGSSLMODE, pc.SSLMode, "prefer")

	return cfg, nil
}

// applyCloudAuth selects the authentication method from cloud flags,
// environment variables, and orderpipe.yaml (in that order).
func applyCloudAuth(cfg *orderpipe.ConnectionConfig, flags *CloudFlags, env *EnvVars, projectConfig *config.ProjectConfig) error {
	var pc config.ConnectionConfig
	if projectConfig != nil {
		pc = projectConfig.Connection
	}

	googleInstance := firstNonEmpty(flags.GoogleInstance, pc.GoogleInstance)
	awsRegion := firstNonEmpty(flags.AWSRegion, env.AWS_REGION, pc.AWSRegion)
	azureTenantID := firstNonEmpty(flags.AzureTenantID, env.AZURE_TENANT_ID, pc.AzureTenantID)
	azureClientID := firstNonEmpty(flags.AzureClientID, env.AZURE_CLIENT_ID, pc.AzureClientID)

	switch {
	case flags.GoogleInstance != "":
		cfg.AuthMethod = orderpipe.AuthMethodGoogleIAM
	case flags.AWSIAM:
		cfg.AuthMethod = orderpipe.AuthMethodAWSIAM
	case flags.AzureTenantID != "" || flags.AzureClientID != "",
		env.AZURE_TENANT_ID != "" || env.AZURE_CLIENT_ID != "":
		cfg.AuthMethod = orderpipe.AuthMethodAzureEntraID
	case pc.AuthMethod != "":
		method, err := parseAuthMethod(pc.AuthMethod)
		if err != nil {
			return err
		}
		cfg.AuthMethod = method
	}

	switch cfg.AuthMethod {
	case orderpipe.AuthMethodGoogleIAM:
		cfg.GoogleInstance = googleInstance
	case orderpipe.AuthMethodAWSIAM:
		cfg.AWSRegion = awsRegion
	case orderpipe.AuthMethodAzureEntraID:
		cfg.AzureTenantID = azureTenantID
		cfg.AzureClientID = azureClientID
		cfg.AzureClientSecret = env.AZURE_CLIENT_SECRET
	}

	return nil
}

func parseAuthMethod(s string) (orderpipe.AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard":
		return orderpipe.AuthMethodStandard, nil
	case "aws-iam", "aws_iam":
		return orderpipe.AuthMethodAWSIAM, nil
	case "google-iam", "google_iam":
		return orderpipe.AuthMethodGoogleIAM, nil
	case "azure", "azure-entra-id", "azure_entra_id":
		return orderpipe.AuthMethodAzureEntraID, nil
	default:
		return orderpipe.AuthMethodStandard, fmt.Errorf("unknown auth_method %q in %s", s, config.ConfigFileName)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
