package runstore

import (
	"cmp"
	"context"
	"slices"
)

// Adapter persists run records keyed by run ID.
// Implementations must be safe for concurrent use.
type Adapter interface {
	// Save stores rec, replacing any record with the same run ID.
	Save(ctx context.Context, rec Record) error

	// Find returns the record for runID. Returns false if none exists.
	Find(ctx context.Context, runID string) (Record, bool, error)

	// Remove drops the record for runID. No error if it doesn't exist.
	Remove(ctx context.Context, runID string) error

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Recent returns up to n records, newest FinishedAt first. n <= 0
	// returns all of them.
	Recent(ctx context.Context, n int) ([]Record, error)
}

// newestFirst orders records by FinishedAt descending, then by run ID.
func newestFirst(a, b Record) int {
	return cmp.Or(b.FinishedAt.Compare(a.FinishedAt), cmp.Compare(a.RunID, b.RunID))
}

func truncate(recs []Record, n int) []Record {
	slices.SortFunc(recs, newestFirst)
	if n > 0 && len(recs) > n {
		recs = recs[:n]
	}
	return recs
}
