package run

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/danielreuter/reagency/internal/dataset"
	"github.com/danielreuter/reagency/internal/hook"
)

// Limiter bounds how many rows execute concurrently. It is an injected
// collaborator (for example a per-provider connection limit);
// golang.org/x/sync/semaphore.Weighted satisfies it directly.
type Limiter interface {
	Acquire(ctx context.Context, n int64) error
	Release(n int64)
}

// Runner executes runs and owns the persisted run ledger for its
// directory.
type Runner struct {
	log     *Log
	logger  *slog.Logger
	limiter Limiter
}

// Option configures a Runner.
type Option func(*Runner)

// WithLimiter makes Execute process rows concurrently, bounded by l.
// Without it rows run sequentially in dataset order.
func WithLimiter(l Limiter) Option {
	return func(r *Runner) { r.limiter = l }
}

// NewRunner opens (or starts) the run ledger under dir. A nil logger
// falls back to slog.Default.
func NewRunner(dir string, logger *slog.Logger, opts ...Option) (*Runner, error) {
	log, err := OpenLog(dir)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	r := &Runner{log: log, logger: logger}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Log returns the runner's ledger.
func (r *Runner) Log() *Log { return r.log }

// Execute performs one run: it appends a started record to the ledger,
// invokes main for every dataset row with the hook dispatcher installed,
// and on full success marks the record completed. Results are returned in
// dataset order. If any row's main fails (or ctx is cancelled) the error
// propagates to the caller and the record remains started with no end
// time, preserving an auditable trail of how far execution progressed.
func Execute[R dataset.Identifiable, O any](
	ctx context.Context,
	r *Runner,
	main func(ctx context.Context, row R) (O, error),
	ds *dataset.Dataset[R],
	hooks ...*hook.Hook,
) ([]O, error) {
	rec := Record{
		ID:        uuid.NewString(),
		Status:    StatusStarted,
		StartTime: time.Now().UTC(),
	}
	if err := r.log.Append(rec); err != nil {
		return nil, err
	}
	r.logger.Info("run started",
		"run_id", rec.ID,
		"dataset", ds.Name(),
		"rows", ds.Len())

	ctx = hook.WithDispatcher(ctx, hook.NewDispatcher(hooks...))

	results := make([]O, ds.Len())
	if r.limiter == nil {
		for i, row := range ds.Rows() {
			out, err := main(hook.WithRow(ctx, row), row)
			if err != nil {
				r.logger.Warn("run aborted",
					"run_id", rec.ID,
					"row", row.RowID(),
					"error", err)
				return nil, err
			}
			results[i] = out
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, row := range ds.Rows() {
			i, row := i, row
			g.Go(func() error {
				if err := r.limiter.Acquire(gctx, 1); err != nil {
					return err
				}
				defer r.limiter.Release(1)
				out, err := main(hook.WithRow(gctx, row), row)
				if err != nil {
					return err
				}
				results[i] = out
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			r.logger.Warn("run aborted", "run_id", rec.ID, "error", err)
			return nil, err
		}
	}

	if err := r.log.Complete(rec.ID); err != nil {
		return nil, err
	}
	r.logger.Info("run completed", "run_id", rec.ID)
	return results, nil
}
