package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/danielreuter/reagency/internal/cache"
	"github.com/danielreuter/reagency/internal/codec"
	"github.com/danielreuter/reagency/internal/hook"
)

// Func is the unit of work a Definition wraps.
type Func[I, O any] func(ctx context.Context, in I) (O, error)

// Config holds the per-task options.
type Config[I any] struct {
	// Scope disambiguates tasks sharing a name; the identity becomes
	// "scope.name". Empty means the bare name is the identity.
	Scope string

	// Cache enables consulting and populating the content-addressed
	// cache. It only takes effect while a cache scope is active on the
	// call context.
	Cache bool

	// SkipInputCapture excludes argument values from structured log
	// records; only the fact of the call is recorded.
	SkipInputCapture bool

	// SkipOutputCapture excludes the return value from structured log
	// records.
	SkipOutputCapture bool

	// Defaults fills omitted (zero-valued) fields of the input with
	// their declared defaults. It runs before fingerprinting and before
	// execution, so a caller relying on a default and a caller supplying
	// it explicitly produce the same cache key.
	Defaults func(*I)
}

// Definition is a wrapped task: the underlying function plus its identity
// and configuration. The identity is fixed at definition time and
// immutable for the process lifetime.
type Definition[I, O any] struct {
	name     string
	identity string
	fn       Func[I, O]
	cfg      Config[I]
	logger   *slog.Logger
}

// Define wraps fn under the given name. A nil logger falls back to
// slog.Default.
func Define[I, O any](name string, fn Func[I, O], cfg Config[I], logger *slog.Logger) *Definition[I, O] {
	if logger == nil {
		logger = slog.Default()
	}
	identity := name
	if cfg.Scope != "" {
		identity = cfg.Scope + "." + name
	}
	return &Definition[I, O]{
		name:     name,
		identity: identity,
		fn:       fn,
		cfg:      cfg,
		logger:   logger.With("task", identity),
	}
}

// Name returns the task's declared name.
func (d *Definition[I, O]) Name() string { return d.name }

// Identity returns the stable scope-qualified task identity.
func (d *Definition[I, O]) Identity() string { return d.identity }

// Call executes the task with normalized arguments. With caching enabled
// and a cache scope active it replays a stored result on a hit without
// invoking the underlying function; hooks registered for this task are
// dispatched on every success, cached or not. Failures of the underlying
// function propagate to the caller verbatim: no hooks fire and nothing is
// stored.
func (d *Definition[I, O]) Call(ctx context.Context, in I) (O, error) {
	var zero O

	bound := in
	if d.cfg.Defaults != nil {
		d.cfg.Defaults(&bound)
	}

	store, scoped := cache.FromContext(ctx)
	useCache := d.cfg.Cache && scoped

	var key cache.Key
	if useCache {
		encoded, err := codec.Encode(bound)
		if err != nil {
			return zero, fmt.Errorf("task %s: encoding arguments: %w", d.identity, err)
		}
		key, err = cache.Fingerprint(d.identity, encoded)
		if err != nil {
			return zero, fmt.Errorf("task %s: %w", d.identity, err)
		}

		if data, err := store.Get(key); err == nil {
			out, derr := d.decodeResult(data)
			if derr != nil {
				return zero, fmt.Errorf("task %s: corrupt cache entry %s: %w", d.identity, key, derr)
			}
			d.logCall(ctx, bound, out, 0, true)
			d.dispatch(ctx, out, bound)
			return out, nil
		} else if !errors.Is(err, cache.ErrNotFound) {
			return zero, fmt.Errorf("task %s: cache lookup: %w", d.identity, err)
		}
	}

	start := time.Now()
	out, err := d.fn(ctx, bound)
	if err != nil {
		// Propagated unchanged: callers layer retries and fallbacks on
		// top, never this wrapper.
		return zero, err
	}

	if useCache {
		if err := d.storeResult(store, key, out); err != nil {
			return zero, fmt.Errorf("task %s: %w", d.identity, err)
		}
	}

	d.logCall(ctx, bound, out, time.Since(start), false)
	d.dispatch(ctx, out, bound)
	return out, nil
}

func (d *Definition[I, O]) dispatch(ctx context.Context, out O, in I) {
	if disp, ok := hook.DispatcherFromContext(ctx); ok {
		disp.Dispatch(ctx, d.identity, out, in)
	}
}

func (d *Definition[I, O]) decodeResult(data []byte) (O, error) {
	var out O
	v, err := codec.UnmarshalCanonical(data)
	if err != nil {
		return out, err
	}
	if err := codec.Decode(v, &out); err != nil {
		return out, err
	}
	return out, nil
}

func (d *Definition[I, O]) storeResult(store cache.Store, key cache.Key, out O) error {
	v, err := codec.Encode(out)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	data, err := codec.MarshalCanonical(v)
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	if err := store.Put(key, data); err != nil {
		return fmt.Errorf("storing result: %w", err)
	}
	return nil
}

func (d *Definition[I, O]) logCall(ctx context.Context, in I, out O, elapsed time.Duration, hit bool) {
	attrs := []any{"cache_hit", hit}
	if !hit {
		attrs = append(attrs, "duration", elapsed)
	}
	if !d.cfg.SkipInputCapture {
		attrs = append(attrs, "input", capture(in))
	}
	if !d.cfg.SkipOutputCapture {
		attrs = append(attrs, "output", capture(out))
	}
	d.logger.Log(ctx, slog.LevelDebug, "task call completed", attrs...)
}

// capture renders a value through the canonical encoding for logging;
// unserializable values degrade to a placeholder instead of failing the
// call.
func capture(v any) string {
	encoded, err := codec.Encode(v)
	if err != nil {
		return "<unserializable>"
	}
	data, err := codec.MarshalCanonical(encoded)
	if err != nil {
		return "<unserializable>"
	}
	return string(data)
}
