// Package retry implements automatic retry with exponential backoff for
// transient database failures.
//
// Error classification and backoff timing are pluggable through the
// orderpipe.ErrorClassifier and orderpipe.BackoffStrategy interfaces:
//
//	classifier := retry.NewPostgresClassifier()
//	strategy := retry.NewExponentialBackoff(3)
//	executor := retry.NewExecutor(classifier, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return pool.Ping(ctx)
//	})
//
// Executor values are safe for concurrent use. WithOnRetry returns a new
// Executor so callers can attach independent callbacks without shared state.
package retry
