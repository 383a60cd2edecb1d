package runstore

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/spetersoncode/cyclegraph/graph"
	"github.com/spetersoncode/cyclegraph/internal/ctxlog"
)

// DefaultLimit is the number of records kept when no WithLimit option is
// given.
const DefaultLimit = 100

// Record is the persisted outcome of one run.
type Record struct {
	RunID       string         `json:"run_id"`
	Graph       string         `json:"graph"`
	Termination string         `json:"termination"`
	Steps       int            `json:"steps"`
	Path        []string       `json:"path"`
	LastStage   string         `json:"last_stage"`
	Seed        int64          `json:"seed"`
	State       map[string]any `json:"state"`
	Error       string         `json:"error,omitempty"`
	DurationMS  int64          `json:"duration_ms"`
	FinishedAt  time.Time      `json:"finished_at"`
}

// NewRecord converts a run result into a Record.
func NewRecord(res *graph.Result, d time.Duration, finishedAt time.Time) Record {
	rec := Record{
		RunID:       res.RunID,
		Graph:       res.GraphName,
		Termination: string(res.Termination),
		Steps:       res.Steps,
		Path:        res.Path(),
		LastStage:   res.LastStage,
		Seed:        res.Seed,
		State:       res.State.Snapshot(),
		DurationMS:  d.Milliseconds(),
		FinishedAt:  finishedAt.UTC(),
	}
	if res.Error != nil {
		rec.Error = res.Error.Error()
	}
	return rec
}

// Store keeps the most recent run records, evicting the oldest by
// FinishedAt once the limit is exceeded.
type Store struct {
	mu      sync.Mutex
	adapter Adapter
	limit   int
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithLimit caps the number of kept records. Values <= 0 disable eviction.
func WithLimit(n int) Option {
	return func(s *Store) {
		s.limit = n
	}
}

// WithLogger sets the logger used when recording from an observer callback
// fails.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithClock sets the time source for FinishedAt.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates a Store with the given adapter.
// If adapter is nil, a default in-memory adapter is used.
func New(adapter Adapter, opts ...Option) *Store {
	if adapter == nil {
		adapter = NewMemoryAdapter()
	}
	s := &Store{
		adapter: adapter,
		limit:   DefaultLimit,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put stores rec, replacing any record with the same run ID.
func (s *Store) Put(ctx context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.adapter.Save(ctx, rec); err != nil {
		return fmt.Errorf("runstore: put %s: %w", rec.RunID, err)
	}
	return s.evict(ctx)
}

// Get returns the record for runID.
func (s *Store) Get(ctx context.Context, runID string) (Record, error) {
	rec, ok, err := s.adapter.Find(ctx, runID)
	if err != nil {
		return Record{}, fmt.Errorf("runstore: get %s: %w", runID, err)
	}
	if !ok {
		return Record{}, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	return rec, nil
}

// List returns up to n records, newest first. n <= 0 returns all.
func (s *Store) List(ctx context.Context, n int) ([]Record, error) {
	recs, err := s.adapter.Recent(ctx, n)
	if err != nil {
		return nil, fmt.Errorf("runstore: list: %w", err)
	}
	return recs, nil
}

// Delete removes the record for runID. Missing records are not an error.
func (s *Store) Delete(ctx context.Context, runID string) error {
	return s.adapter.Remove(ctx, runID)
}

// Len returns the number of stored records.
func (s *Store) Len(ctx context.Context) (int, error) {
	return s.adapter.Count(ctx)
}

// evict drops the oldest records beyond the limit. Callers hold s.mu.
func (s *Store) evict(ctx context.Context) error {
	if s.limit <= 0 {
		return nil
	}
	n, err := s.adapter.Count(ctx)
	if err != nil || n <= s.limit {
		return err
	}
	recs, err := s.adapter.Recent(ctx, 0)
	if err != nil {
		return fmt.Errorf("runstore: evict: %w", err)
	}
	for _, rec := range recs[min(s.limit, len(recs)):] {
		if err := s.adapter.Remove(ctx, rec.RunID); err != nil {
			return fmt.Errorf("runstore: evict %s: %w", rec.RunID, err)
		}
	}
	return nil
}

// StageCompleted implements graph.Observer.
func (s *Store) StageCompleted(string, string, time.Duration, error) {}

// RouteSelected implements graph.Observer.
func (s *Store) RouteSelected(string, string, string) {}

// RunFinished implements graph.Observer by storing the run's record.
// Failures are logged since observers cannot return errors.
func (s *Store) RunFinished(_ string, res *graph.Result, d time.Duration) {
	rec := NewRecord(res, d, s.now())
	if err := s.Put(context.Background(), rec); err != nil {
		s.logger.Warn("failed to record run", ctxlog.RunID(rec.RunID), ctxlog.Error(err))
	}
}

var _ graph.Observer = (*Store)(nil)
