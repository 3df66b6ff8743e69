package orderpipe

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Extractor reads per-order JSON documents from a source directory and
// decodes them into raw records.
type Extractor interface {
	// Extract returns one RawRecord per .json file found directly in
	// sourcePath, in lexicographic file name order.
	//
	// Returns ErrNoOrderFiles when the directory exists but contains no
	// .json files, and a MalformedRecordError when a file cannot be
	// decoded or its root is not a JSON object.
	Extract(sourcePath string) ([]RawRecord, error)
}

// Normalizer transforms one raw order document into a relational bundle.
//
// Implementations carry run-scoped state for entity deduplication: the
// first document mentioning an entity produces its row, later documents
// only reference it. A Normalizer instance therefore serves exactly one
// run and is NOT safe for concurrent use.
type Normalizer interface {
	// Normalize validates and flattens a raw record. The input record is
	// never mutated. On failure the record is rejected as a whole with a
	// MalformedRecordError, DateParseError, TypeCoercionError or
	// KeyResolutionError.
	Normalize(rec RawRecord) (OrderBundle, error)
}

// Loader writes normalized bundles to the database.
type Loader interface {
	// Load writes all bundles inside a single transaction on the given
	// connection: either every row from every bundle commits, or the
	// database is left untouched.
	//
	// Within each bundle, dimension rows (customers, merchants, drivers,
	// addresses) are written before the order row, and the order row
	// before its children, so foreign keys are always satisfiable.
	//
	// Returns the per-table row counts on success and a LoadError (after
	// rolling back) on failure.
	Load(ctx context.Context, conn *pgxpool.Conn, bundles []OrderBundle) (TableCounts, error)
}

// Notifier delivers run outcome alerts to operators.
// Implementations must tolerate being called with a partially populated
// summary when the run failed early.
type Notifier interface {
	// NotifySuccess reports a committed run.
	NotifySuccess(ctx context.Context, summary LoadSummary) error

	// NotifyFailure reports a failed run together with its cause.
	NotifyFailure(ctx context.Context, summary LoadSummary, runErr error) error
}
