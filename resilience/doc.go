// Package resilience retries operations with exponential backoff.
//
//	db, err := resilience.Retry(ctx, resilience.Policy{Attempts: 5}, func(ctx context.Context) (*DB, error) {
//	    return open(ctx)
//	})
//
// Waits honour ctx. Errors for which Policy.RetryIf returns false end the
// loop at once and are returned as they are.
package resilience
