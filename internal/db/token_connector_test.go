package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

type mockTokenProvider struct {
	token     string
	expiresOn time.Time
	err       error
	calls     int
}

func (m *mockTokenProvider) GetToken(ctx context.Context) (string, time.Time, error) {
	m.calls++
	return m.token, m.expiresOn, m.err
}

func (m *mockTokenProvider) String() string { return "mockTokenProvider" }

func TestTokenBasedConnector_TokenFailure(t *testing.T) {
	cfg := &orderpipe.ConnectionConfig{
		Host:     "db.internal",
		Port:     5432,
		Database: "orders",
		Username: "loader",
	}
	provider := &mockTokenProvider{err: errors.New("credential chain exhausted")}

	connector := NewTokenBasedConnector(cfg, provider, "AWS IAM")
	pool, err := connector.Connect(context.Background())

	require.Error(t, err)
	assert.Nil(t, pool)
	assert.Contains(t, err.Error(), "failed to acquire AWS IAM token")
	// A credential failure is not transient, so no retries happen.
	assert.Equal(t, 1, provider.calls)
}

func TestTokenBasedConnector_DoesNotMutateConfig(t *testing.T) {
	cfg := &orderpipe.ConnectionConfig{
		Host:     "db.internal",
		Port:     5432,
		Database: "orders",
		Username: "loader",
	}
	provider := &mockTokenProvider{err: errors.New("no credentials")}

	connector := NewTokenBasedConnector(cfg, provider, "Azure")
	_, _ = connector.Connect(context.Background()) //nolint:errcheck

	assert.Equal(t, "", cfg.Password)
}
