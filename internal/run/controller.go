// Package run orchestrates a full extract, normalize, load cycle.
package run

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

// Controller wires the pipeline stages together and drives one run:
// extract all order documents, normalize them into relational bundles,
// load everything in a single transaction, and notify the outcome.
type Controller struct {
	connector  orderpipe.Connector
	extractor  orderpipe.Extractor
	normalizer orderpipe.Normalizer
	loader     orderpipe.Loader
	notifier   orderpipe.Notifier
	logger     orderpipe.Logger
}

// NewController creates a Controller. Panics if any dependency is nil.
func NewController(
	connector orderpipe.Connector,
	extractor orderpipe.Extractor,
	normalizer orderpipe.Normalizer,
	loader orderpipe.Loader,
	notifier orderpipe.Notifier,
	logger orderpipe.Logger,
) *Controller {
	if connector == nil {
		panic("connector cannot be nil")
	}
	if extractor == nil {
		panic("extractor cannot be nil")
	}
	if normalizer == nil {
		panic("normalizer cannot be nil")
	}
	if loader == nil {
		panic("loader cannot be nil")
	}
	if notifier == nil {
		panic("notifier cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}

	return &Controller{
		connector:  connector,
		extractor:  extractor,
		normalizer: normalizer,
		loader:     loader,
		notifier:   notifier,
		logger:     logger,
	}
}

// Run executes the pipeline against sourcePath. On success the returned
// summary carries per-table row counts; on failure the summary is partially
// populated and the error identifies the failing stage.
//
// The outcome notification is sent in both cases. A notification delivery
// failure is logged but never replaces the run result.
func (c *Controller) Run(ctx context.Context, sourcePath string) (orderpipe.LoadSummary, error) {
	summary := orderpipe.LoadSummary{
		RunID:     uuid.New(),
		SourceDir: sourcePath,
		StartedAt: time.Now(),
	}

	c.logger.Info("Run %s: loading orders from %s", summary.RunID, sourcePath)

	err := c.execute(ctx, sourcePath, &summary)
	summary.Duration = time.Since(summary.StartedAt)

	if err != nil {
		c.logger.Error("Run %s failed after %s: %v", summary.RunID, summary.Duration.Round(time.Millisecond), err)
		if notifyErr := c.notifier.NotifyFailure(ctx, summary, err); notifyErr != nil {
			c.logger.Error("Failed to send failure notification: %v", notifyErr)
		}
		return summary, err
	}

	c.logger.Info("Run %s committed %d rows in %s (%s)",
		summary.RunID, summary.RowCounts.Total(), summary.Duration.Round(time.Millisecond), summary.RowCounts)

	if notifyErr := c.notifier.NotifySuccess(ctx, summary); notifyErr != nil {
		c.logger.Error("Failed to send success notification: %v", notifyErr)
	}

	return summary, nil
}

func (c *Controller) execute(ctx context.Context, sourcePath string, summary *orderpipe.LoadSummary) error {
	records, err := c.extractor.Extract(sourcePath)
	if err != nil {
		return err
	}

	bundles := make([]orderpipe.OrderBundle, 0, len(records))
	for _, rec := range records {
		bundle, err := c.normalizer.Normalize(rec)
		if err != nil {
			return err
		}
		bundles = append(bundles, bundle)
	}
	summary.OrdersProcessed = len(bundles)
	c.logger.Verbose("Normalized %d order documents", len(bundles))

	pool, err := c.connector.Connect(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", orderpipe.ErrConnectionFailed, err)
	}

	// Google Cloud SQL connectors hold a dialer that outlives the pool.
	if closer, ok := c.connector.(io.Closer); ok {
		defer closer.Close() //nolint:errcheck
	}

	conn, err := pool.Acquire(ctx)
	if err != nil {
		pool.Close()
		return fmt.Errorf("%w: %v", orderpipe.ErrConnectionFailed, err)
	}

	session := orderpipe.NewSession(pool, conn)
	defer session.Close() //nolint:errcheck

	counts, err := c.loader.Load(ctx, session.Conn(), bundles)
	if err != nil {
		return err
	}
	summary.RowCounts = counts

	return nil
}
