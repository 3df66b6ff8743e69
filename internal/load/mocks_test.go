package load

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// statement is one recorded SQL execution with its arguments.
type statement struct {
	sql  string
	args []any
}

// mockTx implements pgx.Tx, recording every statement in order.
// failOn aborts the first statement whose SQL contains the substring.
// returnIDs overrides QueryRow results per SQL substring; by default the
// first argument (the natural key insert value) is echoed back.
type mockTx struct {
	statements []statement
	failOn     string
	failErr    error
	returnIDs  map[string]string

	committed  bool
	rolledBack bool
}

func newMockTx() *mockTx {
	return &mockTx{
		failErr:   errors.New("statement failed"),
		returnIDs: make(map[string]string),
	}
}

func (m *mockTx) shouldFail(sql string) bool {
	return m.failOn != "" && strings.Contains(sql, m.failOn)
}

func (m *mockTx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	m.statements = append(m.statements, statement{sql: sql, args: args})
	if m.shouldFail(sql) {
		return pgconn.CommandTag{}, m.failErr
	}
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	m.statements = append(m.statements, statement{sql: sql, args: args})
	if m.shouldFail(sql) {
		return &mockRow{err: m.failErr}
	}

	id := ""
	if len(args) > 0 {
		if s, ok := args[0].(string); ok {
			id = s
		}
	}
	for substr, override := range m.returnIDs {
		if strings.Contains(sql, substr) {
			id = override
		}
	}
	return &mockRow{value: id}
}

func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	results := &mockBatchResults{remaining: len(b.QueuedQueries)}
	for _, q := range b.QueuedQueries {
		m.statements = append(m.statements, statement{sql: q.SQL, args: q.Arguments})
		if m.shouldFail(q.SQL) {
			results.err = m.failErr
		}
	}
	return results
}

func (m *mockTx) Commit(ctx context.Context) error   { m.committed = true; return nil }
func (m *mockTx) Rollback(ctx context.Context) error { m.rolledBack = true; return nil }

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { return nil, errors.New("not supported") }
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	return 0, errors.New("not supported")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { return pgx.LargeObjects{} }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	return nil, errors.New("not supported")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, errors.New("not supported")
}
func (m *mockTx) Conn() *pgx.Conn { return nil }

// find returns the recorded statements whose SQL contains the substring.
func (m *mockTx) find(substr string) []statement {
	var matched []statement
	for _, st := range m.statements {
		if strings.Contains(st.sql, substr) {
			matched = append(matched, st)
		}
	}
	return matched
}

// mockRow implements pgx.Row for single string results.
type mockRow struct {
	value string
	err   error
}

func (r *mockRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != 1 {
		return errors.New("mockRow supports exactly one destination")
	}
	ptr, ok := dest[0].(*string)
	if !ok {
		return errors.New("mockRow supports only *string destinations")
	}
	*ptr = r.value
	return nil
}

// mockBatchResults implements pgx.BatchResults. A non-nil err fails the
// first Exec call.
type mockBatchResults struct {
	remaining int
	err       error
	closed    bool
}

func (r *mockBatchResults) Exec() (pgconn.CommandTag, error) {
	if r.err != nil {
		return pgconn.CommandTag{}, r.err
	}
	r.remaining--
	return pgconn.NewCommandTag("INSERT 0 1"), nil
}

func (r *mockBatchResults) Query() (pgx.Rows, error) { return nil, errors.New("not supported") }
func (r *mockBatchResults) QueryRow() pgx.Row        { return &mockRow{err: errors.New("not supported")} }
func (r *mockBatchResults) Close() error             { r.closed = true; return nil }
