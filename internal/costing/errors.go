package costing

import (
	"errors"
	"fmt"
)

// ErrCycleDetected is returned when a dependency traversal would revisit a
// node, e.g. a recipe reachable from itself through sub-recipe links.
var ErrCycleDetected = errors.New("dependency cycle detected")

// ResolutionError means the store could not be queried for dependents of a
// node. The propagation aborts at the level it occurred; earlier levels stay
// committed.
type ResolutionError struct {
	Node Node
	Err  error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve dependents of %s %s: %v", e.Node.Kind, e.Node.ID, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// LineUpdateError means a single line row failed to write. The line is skipped
// and the rest of the batch continues.
type LineUpdateError struct {
	Table  string
	LineID string
	Err    error
}

func (e *LineUpdateError) Error() string {
	return fmt.Sprintf("update %s %s: %v", e.Table, e.LineID, e.Err)
}

func (e *LineUpdateError) Unwrap() error { return e.Err }

// AggregateError means an entity's cached totals could not be recomputed or
// written; they stay stale until the next propagation or sweep.
type AggregateError struct {
	Node Node
	Err  error
}

func (e *AggregateError) Error() string {
	return fmt.Sprintf("recompute totals of %s %s: %v", e.Node.Kind, e.Node.ID, e.Err)
}

func (e *AggregateError) Unwrap() error { return e.Err }

// CatalogSyncError is non-fatal: the recipe's own costs are already committed,
// only the mirrored product is stale until the next successful sync.
type CatalogSyncError struct {
	RecipeID string
	Err      error
}

func (e *CatalogSyncError) Error() string {
	return fmt.Sprintf("sync product for recipe %s: %v", e.RecipeID, e.Err)
}

func (e *CatalogSyncError) Unwrap() error { return e.Err }
