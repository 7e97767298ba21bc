package pipeline

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/viant/afs"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/neuroc/pkg/cache"
	"github.com/matzehuels/neuroc/pkg/errors"
	pkgio "github.com/matzehuels/neuroc/pkg/io"
	"github.com/matzehuels/neuroc/pkg/observability"
	"github.com/matzehuels/neuroc/pkg/report"
)

// Runner executes batch operations with caching.
//
// The Runner holds no per-run state; several goroutines may run batches on
// the same Runner at once.
type Runner struct {
	FS     afs.Service
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
	// Workers bounds concurrent items. Zero means DefaultWorkers.
	Workers int
	// Sinks receive the summary of every batch.
	Sinks []report.Sink
}

// NewRunner creates a runner. A nil cache disables caching, a nil keyer uses
// cache.DefaultKeyer and a nil logger discards output.
func NewRunner(fs afs.Service, c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if fs == nil {
		fs = afs.New()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{FS: fs, Cache: c, Keyer: keyer, Logger: logger}
}

// Close releases the cache and the sinks.
func (r *Runner) Close(ctx context.Context) error {
	var first error
	for _, s := range r.Sinks {
		if err := s.Close(ctx); err != nil && first == nil {
			first = err
		}
	}
	if err := r.Cache.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

func (r *Runner) workers() int {
	if r.Workers > 0 {
		return r.Workers
	}
	return DefaultWorkers()
}

// itemFunc processes one item and returns how many files it wrote.
type itemFunc func(ctx context.Context, index int, item string) (int, error)

// run processes items on the worker pool. Expected domain failures are
// recorded in order of the items; any other error stops the batch.
func (r *Runner) run(ctx context.Context, op string, items []string, fn itemFunc) (*report.Summary, error) {
	summary := &report.Summary{
		RunID:     uuid.NewString(),
		Operation: op,
		Started:   time.Now(),
		Processed: len(items),
	}
	hooks := observability.Batch()
	hooks.OnBatchStart(ctx, op, summary.RunID, len(items))
	r.Logger.Debug("batch started", "op", op, "run", summary.RunID, "items", len(items), "workers", r.workers())

	failures := make([]*report.Failure, len(items))
	var (
		mu      sync.Mutex
		written int
	)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers())
	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			hooks.OnItemStart(gctx, op, item)
			start := time.Now()
			n, err := fn(gctx, i, item)
			hooks.OnItemComplete(gctx, op, item, time.Since(start), err)

			switch {
			case err == nil:
				mu.Lock()
				written += n
				mu.Unlock()
				return nil
			case errors.IsExpected(err):
				f := report.NewFailure(item, err)
				failures[i] = &f
				r.Logger.Warn("skipped", "file", item, "reason", f.Message)
				return nil
			default:
				return err
			}
		})
	}
	err := g.Wait()

	for _, f := range failures {
		if f != nil {
			summary.Failures = append(summary.Failures, *f)
		}
	}
	summary.Written = written
	summary.Duration = time.Since(summary.Started)
	hooks.OnBatchComplete(ctx, op, summary.RunID, summary.Duration, len(summary.Failures))
	if err != nil {
		return summary, err
	}

	r.Logger.Info("batch done", "op", op, "items", len(items), "written", written, "failed", len(summary.Failures), "duration", summary.Duration)
	for _, s := range r.Sinks {
		if err := s.WriteSummary(ctx, *summary); err != nil {
			r.Logger.Warn("report sink failed", "err", err)
		}
	}
	return summary, nil
}

// inputs returns location itself when it names a morphology file, or the
// morphology files inside it otherwise. Listed files in a format that cannot
// be decoded are skipped with a warning.
func (r *Runner) inputs(ctx context.Context, location string) ([]string, error) {
	if pkgio.IsMorphologyFile(location) || pkgio.FormatOf(location) == pkgio.FormatJSON {
		return []string{location}, nil
	}
	listed, err := pkgio.ListMorphologies(ctx, r.FS, location)
	if err != nil {
		return nil, err
	}
	files := listed[:0]
	for _, f := range listed {
		if !pkgio.Decodable(f) {
			r.Logger.Warn("skipping unsupported format", "file", f, "format", pkgio.FormatOf(f))
			continue
		}
		files = append(files, f)
	}
	if len(files) == 0 {
		r.Logger.Warn("no morphology found", "dir", location)
	}
	return files, nil
}

// cached returns the cache entry for key, or computes, stores and returns it.
// keyType names the entry kind for the cache hooks.
func (r *Runner) cached(ctx context.Context, keyType, key string, ttl time.Duration, refresh bool, compute func() ([]byte, error)) ([]byte, error) {
	hooks := observability.Cache()
	if !refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			hooks.OnCacheHit(ctx, keyType)
			return data, nil
		} else if err != nil {
			r.Logger.Debug("cache read failed", "key", key, "err", err)
		}
		hooks.OnCacheMiss(ctx, keyType)
	}
	data, err := compute()
	if err != nil {
		return nil, err
	}
	if err := r.Cache.Set(ctx, key, data, ttl); err != nil {
		r.Logger.Debug("cache write failed", "key", key, "err", err)
	} else {
		hooks.OnCacheSet(ctx, keyType, len(data))
	}
	return data, nil
}
