// Package taskgroup provides a bounded fork-join task runtime: independent
// units of work are dispatched to a goroutine pool, except when a unit is
// small enough that the dispatch overhead would dwarf the work, in which
// case it runs inline on the calling goroutine. internal/cachesim uses it
// to run several simulator variants over the same trace concurrently.
package taskgroup

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Group bounds the number of in-flight tasks to limit goroutine churn,
// mirroring the original IAF recursion's OpenMP task pool with a
// final(dist <= threshold) inlining cutoff.
type Group struct {
	eg        *errgroup.Group
	threshold uint64
}

// New creates a Group whose errgroup is bounded to maxConcurrency
// simultaneous tasks, with ctx as the cancellation source: any task
// returning an error cancels the rest. threshold is the subtree width
// below which GoMergeable runs inline instead of forking a goroutine.
func New(ctx context.Context, maxConcurrency int, threshold uint64) (*Group, context.Context) {
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrency)
	return &Group{eg: eg, threshold: threshold}, egCtx
}

// Go forks fn as an independent task.
func (g *Group) Go(fn func() error) {
	g.eg.Go(fn)
}

// GoMergeable runs fn synchronously on the caller's goroutine when width
// is at or below the group's inline threshold, and returns its error
// directly; otherwise it forks fn as a task and returns nil immediately,
// deferring the error to Wait. This matches the original's
// final(dist <= 8192) rule: small subtrees are cheaper to run in place
// than to hand to the pool.
func (g *Group) GoMergeable(width uint64, fn func() error) error {
	if width <= g.threshold {
		return fn()
	}
	g.Go(fn)
	return nil
}

// Wait blocks until every forked task has returned, yielding the first
// non-nil error encountered, if any.
func (g *Group) Wait() error {
	return g.eg.Wait()
}
