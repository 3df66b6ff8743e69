package notify

import (
	"fmt"
	"strings"
	"time"

	"github.com/orderpipe/orderpipe/pkg/orderpipe"
)

// FormatSuccess renders the subject and plain text body for a committed run.
func FormatSuccess(summary orderpipe.LoadSummary) (subject, body string) {
	subject = fmt.Sprintf("Order load succeeded: %d orders from %s", summary.OrdersProcessed, summary.SourceDir)

	var b strings.Builder
	fmt.Fprintf(&b, "Run %s completed successfully.\n\n", summary.RunID)
	fmt.Fprintf(&b, "Source directory: %s\n", summary.SourceDir)
	fmt.Fprintf(&b, "Orders processed: %d\n", summary.OrdersProcessed)
	fmt.Fprintf(&b, "Started:          %s\n", summary.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration:         %s\n", summary.Duration.Round(time.Millisecond))

	if len(summary.RowCounts) > 0 {
		fmt.Fprintf(&b, "\nRows written (%d total):\n", summary.RowCounts.Total())
		fmt.Fprintf(&b, "  %s\n", summary.RowCounts)
	}

	return subject, b.String()
}

// FormatFailure renders the subject and plain text body for a failed run.
// The summary may be partially populated when the run failed early.
func FormatFailure(summary orderpipe.LoadSummary, runErr error) (subject, body string) {
	subject = fmt.Sprintf("Order load FAILED: %s", summary.SourceDir)

	var b strings.Builder
	fmt.Fprintf(&b, "Run %s failed. No data was committed.\n\n", summary.RunID)
	fmt.Fprintf(&b, "Source directory: %s\n", summary.SourceDir)
	fmt.Fprintf(&b, "Started:          %s\n", summary.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&b, "Duration:         %s\n", summary.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "\nError:\n%v\n", runErr)

	return subject, b.String()
}
