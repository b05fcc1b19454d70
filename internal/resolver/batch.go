package resolver

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/cleverdevil/pseudonym/internal/model"
)

// BatchResult is the outcome of one URL in a batch resolution.
type BatchResult struct {
	// URL is the raw URL as submitted.
	URL string

	// Identity is the resolved identity, nil when Err is set.
	Identity *model.Identity

	// Err records why this URL failed to resolve. A single failed URL
	// does not abort the batch.
	Err error
}

// Batch resolves multiple URLs concurrently through one Resolver.
//
// Design decision: We use errgroup.SetLimit rather than a hand-rolled
// worker pool because it's simpler and errgroup handles the concurrency
// correctly. Failures are captured per URL instead of cancelling the group:
// one unreachable page should not abort the rest of the batch.
type Batch struct {
	resolver    *Resolver
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithConcurrency sets the maximum number of concurrent resolutions.
// Default is 10 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// NewBatch creates a Batch around a Resolver.
func NewBatch(r *Resolver, opts ...BatchOption) *Batch {
	b := &Batch{
		resolver:    r,
		concurrency: 10,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.logger == nil {
		b.logger = slog.Default()
	}
	return b
}

// ResolveAll resolves all URLs and returns one result per input, in input
// order. Each slot is written by exactly one goroutine, so no additional
// locking is needed. The context cancels outstanding resolutions.
func (b *Batch) ResolveAll(ctx context.Context, urls []string, force bool) []BatchResult {
	results := make([]BatchResult, len(urls))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, url := range urls {
		g.Go(func() error {
			identity, err := b.resolver.Resolve(ctx, url, force)
			results[i] = BatchResult{URL: url, Identity: identity, Err: err}
			if err != nil {
				b.logger.WarnContext(ctx, "resolution failed", "url", url, "error", err)
			}
			// Errors are captured per URL; never abort the group.
			return nil
		})
	}

	_ = g.Wait() //nolint:errcheck // goroutines always return nil
	return results
}
