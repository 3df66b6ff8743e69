// Package dbtest provides shared helpers for integration tests that need
// a real PostgreSQL instance with the order schema applied.
package dbtest

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"strings"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderpipe/orderpipe/internal/testinfra"
)

//go:embed schema.sql
var schemaSQL string

var (
	containerOnce sync.Once
	containerConn string
	containerErr  error
)

func getOrStartContainer() (string, error) {
	containerOnce.Do(func() {
		container, err := testinfra.StartPostgres(context.Background())
		if err != nil {
			containerErr = err
			return
		}
		containerConn = container.ConnString
	})
	return containerConn, containerErr
}

// ConnectionString returns the test database connection string.
// Priority: ORDERPIPE_TEST_CONN env var > auto-started testcontainer > skip test.
func ConnectionString(t *testing.T) string {
	t.Helper()

	if connString := os.Getenv("ORDERPIPE_TEST_CONN"); connString != "" {
		return connString
	}

	connString, err := getOrStartContainer()
	if err != nil {
		t.Skipf("ORDERPIPE_TEST_CONN not set and Docker unavailable: %v", err)
	}
	return connString
}

// RequireDatabase skips in short mode, then returns a pool connected to a
// freshly created database with the order schema applied. The database is
// dropped when the test finishes.
func RequireDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	connString := ConnectionString(t)
	ctx := context.Background()

	dbName := freshDatabaseName(t)
	createDatabase(t, connString, dbName)

	pool, err := pgxpool.New(ctx, replaceDatabase(connString, dbName))
	if err != nil {
		t.Fatalf("Failed to connect to test database %s: %v", dbName, err)
	}
	t.Cleanup(pool.Close)

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		t.Fatalf("Failed to apply schema to %s: %v", dbName, err)
	}

	return pool
}

// freshDatabaseName derives a database name unique to the calling test.
func freshDatabaseName(t *testing.T) string {
	t.Helper()

	name := strings.ToLower(t.Name())
	for _, ch := range []string{"/", "-", " ", "#"} {
		name = strings.ReplaceAll(name, ch, "_")
	}
	if len(name) > 40 {
		name = name[:40]
	}
	return fmt.Sprintf("test_%s_%d", name, os.Getpid())
}

func createDatabase(t *testing.T, connString, dbName string) {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Fatalf("Failed to connect for test DB creation: %v", err)
	}
	defer pool.Close()

	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName)); err != nil {
		t.Fatalf("Failed to drop stale test database %s: %v", dbName, err)
	}
	if _, err := pool.Exec(ctx, fmt.Sprintf("CREATE DATABASE %s", dbName)); err != nil {
		t.Fatalf("Failed to create test database %s: %v", dbName, err)
	}

	t.Cleanup(func() {
		dropDatabase(t, connString, dbName)
	})
}

func dropDatabase(t *testing.T, connString, dbName string) {
	t.Helper()
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		t.Logf("Warning: Failed to connect for cleanup: %v", err)
		return
	}
	defer pool.Close()

	terminate := `
		SELECT pg_terminate_backend(pid)
		FROM pg_stat_activity
		WHERE datname = $1 AND pid <> pg_backend_pid()
	`
	if _, err := pool.Exec(ctx, terminate, dbName); err != nil {
		t.Logf("Warning: Failed to terminate connections to %s: %v", dbName, err)
	}

	if _, err := pool.Exec(ctx, fmt.Sprintf("DROP DATABASE IF EXISTS %s", dbName)); err != nil {
		t.Logf("Warning: Failed to drop database %s: %v", dbName, err)
	}
}

// replaceDatabase swaps the database component of a postgres URI.
func replaceDatabase(connString, dbName string) string {
	idx := strings.LastIndex(connString, "/")
	if idx < 0 {
		return connString
	}
	rest := connString[idx+1:]
	if q := strings.Index(rest, "?"); q >= 0 {
		return connString[:idx+1] + dbName + rest[q:]
	}
	return connString[:idx+1] + dbName
}
