package db

import (
	"context"
	"time"
)

// TokenProvider abstracts cloud token acquisition for database authentication.
// AWS IAM and Azure Entra ID implement the same interface, and tests can
// substitute a mock provider.
type TokenProvider interface {
	// GetToken acquires a short-lived token used as the password when
	// connecting to cloud-hosted PostgreSQL. Returns the token and its expiry.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String returns a human-readable description for logging.
	// Must NOT include secrets.
	String() string
}

// AzurePostgreSQLScope is the OAuth scope for Azure Database for PostgreSQL.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"
