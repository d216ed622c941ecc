package narrative

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/semaphore"

	"lg/fitpal-go-api/plan"
)

// Enricher runs a Generator with a cap on concurrent calls and a per-call timeout.
type Enricher struct {
	gen     Generator
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewEnricher allows at most concurrency simultaneous Generate calls (minimum 1).
// A zero timeout leaves the deadline to the caller's context.
func NewEnricher(gen Generator, concurrency int, timeout time.Duration) *Enricher {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Enricher{
		gen:     gen,
		sem:     semaphore.NewWeighted(int64(concurrency)),
		timeout: timeout,
	}
}

// Enrich generates the narrative for a feasible result. Waiting for a slot honours ctx;
// a cancelled wait is reported as ErrUpstream.
func (e *Enricher) Enrich(ctx context.Context, result plan.Result) (*Plan, error) {
	if !result.Feasible {
		return nil, ErrNotFeasible
	}

	if err := e.sem.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("%w: waiting for a generator slot: %w", ErrUpstream, err)
	}
	defer e.sem.Release(1)

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	p, err := e.gen.Generate(ctx, result)
	if err != nil {
		log.Printf("[narrative] generation failed after %v: %v", time.Since(start), err)
		return nil, err
	}
	log.Printf("[narrative] generated in %v", time.Since(start))
	return p, nil
}
