package retry

import (
	"errors"
	"fmt"
	"net"
	"syscall"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPostgresClassifier_NilError(t *testing.T) {
	c := NewPostgresClassifier()
	assert.False(t, c.IsTransient(nil))
}

func TestPostgresClassifier_PgErrorCodes(t *testing.T) {
	c := NewPostgresClassifier()

	tests := []struct {
		name      string
		code      string
		transient bool
	}{
		{"connection failure", "08006", true},
		{"cannot connect now", "57P03", true},
		{"too many connections", "53300", true},
		{"disk full", "53100", true},
		{"serialization failure", "40001", true},
		{"deadlock detected", "40P01", true},
		{"lock not available", "55P03", true},
		{"unique violation", "23505", false},
		{"foreign key violation", "23503", false},
		{"undefined table", "42P01", false},
		{"syntax error", "42601", false},
		{"invalid password", "28P01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := &pgconn.PgError{Code: tt.code, Message: tt.name}
			assert.Equal(t, tt.transient, c.IsTransient(err))
		})
	}
}

func TestPostgresClassifier_NetworkErrors(t *testing.T) {
	c := NewPostgresClassifier()

	refused := &net.OpError{Op: "dial", Net: "tcp", Err: syscall.ECONNREFUSED}
	assert.True(t, c.IsTransient(refused))

	reset := &net.OpError{Op: "read", Net: "tcp", Err: syscall.ECONNRESET}
	assert.True(t, c.IsTransient(reset))

	dnsTimeout := &net.DNSError{Err: "lookup timeout", IsTimeout: true}
	assert.True(t, c.IsTransient(dnsTimeout))

	dnsPermanent := &net.DNSError{Err: "no such host"}
	// Falls through to message matching on "no such host".
	assert.True(t, c.IsTransient(dnsPermanent))
}

func TestPostgresClassifier_MessagePatterns(t *testing.T) {
	c := NewPostgresClassifier()

	assert.True(t, c.IsTransient(errors.New("read tcp 127.0.0.1:53422: i/o timeout")))
	assert.True(t, c.IsTransient(errors.New("server closed the connection unexpectedly")))
	assert.True(t, c.IsTransient(fmt.Errorf("ping: %w", errors.New("broken pipe"))))
	assert.False(t, c.IsTransient(errors.New("permission denied for table orders")))
	assert.False(t, c.IsTransient(errors.New("null value in column violates not-null constraint")))
}
