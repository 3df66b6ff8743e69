package orderpipe

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TableCounts maps target table names to the number of write statements
// executed against each during a load. Under the upsert policy a statement
// that merged into an existing row still counts, so on a re-run the counts
// can exceed the rows actually inserted.
type TableCounts map[string]int

// Total returns the number of write statements executed across all tables.
func (c TableCounts) Total() int {
	total := 0
	for _, n := range c {
		total += n
	}
	return total
}

// String renders the counts as "table=n" pairs in table-name order.
func (c TableCounts) String() string {
	names := make([]string, 0, len(c))
	for name := range c {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, c[name]))
	}
	return strings.Join(parts, " ")
}

// LoadSummary describes the outcome of one run for reporting and
// notification purposes.
type LoadSummary struct {
	// RunID uniquely identifies this run across log files and alerts.
	RunID uuid.UUID

	// SourceDir is the directory the order documents were read from.
	SourceDir string

	// OrdersProcessed is the number of order documents normalized.
	OrdersProcessed int

	// RowCounts holds per-table statement counts from the load transaction.
	// Nil when the run failed before the load committed.
	RowCounts TableCounts

	StartedAt time.Time
	Duration  time.Duration
}
