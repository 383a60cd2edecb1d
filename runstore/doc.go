// Package runstore keeps a bounded history of finished graph runs.
//
// A [Store] records one [Record] per run. It implements [graph.Observer],
// so passing it to a run with graph.WithObserver is enough to capture the
// outcome:
//
//	runs := runstore.New(nil, runstore.WithLimit(100))
//	res, err := g.Run(ctx, cfg, graph.WithObserver(runs))
//
//	rec, err := runs.Get(ctx, res.RunID)
//
// Records are persisted through the [Adapter] interface. [MemoryAdapter]
// keeps them in process; [RedisAdapter] stores them in a Redis hash with a
// finish-time index so several servers can share one history.
package runstore
