package run

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderpipe/orderpipe/internal/logging"
	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

type mockConnector struct {
	pool *pgxpool.Pool
	err  error
}

func (m *mockConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return m.pool, m.err
}

type mockExtractor struct {
	records []orderpipe.RawRecord
	err     error
}

func (m *mockExtractor) Extract(sourcePath string) ([]orderpipe.RawRecord, error) {
	return m.records, m.err
}

type mockNormalizer struct {
	failOn string
	calls  int
}

func (m *mockNormalizer) Normalize(rec orderpipe.RawRecord) (orderpipe.OrderBundle, error) {
	m.calls++
	if m.failOn != "" && rec.FileName == m.failOn {
		return orderpipe.OrderBundle{}, &orderpipe.MalformedRecordError{
			File: rec.FileName, Field: "order_id", Reason: "missing",
		}
	}
	return orderpipe.OrderBundle{SourceFile: rec.FileName}, nil
}

type mockNotifier struct {
	successes []orderpipe.LoadSummary
	failures  []error
	err       error
}

func (m *mockNotifier) NotifySuccess(ctx context.Context, summary orderpipe.LoadSummary) error {
	m.successes = append(m.successes, summary)
	return m.err
}

func (m *mockNotifier) NotifyFailure(ctx context.Context, summary orderpipe.LoadSummary, runErr error) error {
	m.failures = append(m.failures, runErr)
	return m.err
}

type mockLoader struct {
	counts orderpipe.TableCounts
	err    error
}

func (m *mockLoader) Load(ctx context.Context, conn *pgxpool.Conn, bundles []orderpipe.OrderBundle) (orderpipe.TableCounts, error) {
	return m.counts, m.err
}

func newTestController(connector orderpipe.Connector, extractor orderpipe.Extractor, normalizer orderpipe.Normalizer, notifier orderpipe.Notifier) *Controller {
	return NewController(connector, extractor, normalizer, &mockLoader{}, notifier, logging.NewNullLogger())
}

func TestController_ExtractFailure(t *testing.T) {
	extractErr := orderpipe.ErrNoOrderFiles
	notifier := &mockNotifier{}
	c := newTestController(&mockConnector{}, &mockExtractor{err: extractErr}, &mockNormalizer{}, notifier)

	summary, err := c.Run(context.Background(), "/data/orders")

	assert.ErrorIs(t, err, orderpipe.ErrNoOrderFiles)
	assert.Equal(t, "/data/orders", summary.SourceDir)
	assert.NotZero(t, summary.RunID)
	assert.Zero(t, summary.OrdersProcessed)
	require.Len(t, notifier.failures, 1)
	assert.ErrorIs(t, notifier.failures[0], orderpipe.ErrNoOrderFiles)
	assert.Empty(t, notifier.successes)
}

func TestController_NormalizeFailureStopsRun(t *testing.T) {
	records := []orderpipe.RawRecord{
		{FileName: "a.json", Data: map[string]any{}},
		{FileName: "b.json", Data: map[string]any{}},
		{FileName: "c.json", Data: map[string]any{}},
	}
	normalizer := &mockNormalizer{failOn: "b.json"}
	notifier := &mockNotifier{}
	c := newTestController(&mockConnector{}, &mockExtractor{records: records}, normalizer, notifier)

	_, err := c.Run(context.Background(), "/data/orders")

	assert.ErrorIs(t, err, orderpipe.ErrMalformedRecord)
	// b.json fails, c.json is never normalized
	assert.Equal(t, 2, normalizer.calls)
	require.Len(t, notifier.failures, 1)
}

func TestController_ConnectFailure(t *testing.T) {
	records := []orderpipe.RawRecord{{FileName: "a.json", Data: map[string]any{}}}
	connector := &mockConnector{err: errors.New("connection refused")}
	notifier := &mockNotifier{}
	c := newTestController(connector, &mockExtractor{records: records}, &mockNormalizer{}, notifier)

	summary, err := c.Run(context.Background(), "/data/orders")

	assert.ErrorIs(t, err, orderpipe.ErrConnectionFailed)
	assert.Contains(t, err.Error(), "connection refused")
	// Normalization completed before the connection attempt.
	assert.Equal(t, 1, summary.OrdersProcessed)
	assert.Nil(t, summary.RowCounts)
}

func TestController_NotifierErrorDoesNotMaskRunError(t *testing.T) {
	notifier := &mockNotifier{err: errors.New("smtp unreachable")}
	c := newTestController(&mockConnector{}, &mockExtractor{err: orderpipe.ErrNoOrderFiles}, &mockNormalizer{}, notifier)

	_, err := c.Run(context.Background(), "/data/orders")

	assert.ErrorIs(t, err, orderpipe.ErrNoOrderFiles)
	assert.NotContains(t, err.Error(), "smtp")
}

func TestNewController_PanicsOnNil(t *testing.T) {
	connector := &mockConnector{}
	extractor := &mockExtractor{}
	normalizer := &mockNormalizer{}
	loader := &mockLoader{}
	notifier := &mockNotifier{}
	logger := logging.NewNullLogger()

	assert.Panics(t, func() { NewController(nil, extractor, normalizer, loader, notifier, logger) })
	assert.Panics(t, func() { NewController(connector, nil, normalizer, loader, notifier, logger) })
	assert.Panics(t, func() { NewController(connector, extractor, nil, loader, notifier, logger) })
	assert.Panics(t, func() { NewController(connector, extractor, normalizer, nil, notifier, logger) })
	assert.Panics(t, func() { NewController(connector, extractor, normalizer, loader, nil, logger) })
	assert.Panics(t, func() { NewController(connector, extractor, normalizer, loader, notifier, nil) })
}
