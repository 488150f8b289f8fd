package cache

import "context"

type ctxKey struct{}

// With binds a store to the context, enabling caching for every task call
// made with the derived context. An inner With with a different store
// shadows an outer one for its subtree of calls and the outer scope is
// naturally restored when callers return to the outer context, so nested
// and concurrent scopes compose without shared mutable state.
func With(ctx context.Context, store Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, store)
}

// Enable is shorthand for binding a FileStore rooted at dir.
func Enable(ctx context.Context, dir string) context.Context {
	return With(ctx, NewFileStore(dir))
}

// Disable returns a context with no active cache scope, shadowing any
// outer scope. Task calls made with it execute normally, just uncached.
func Disable(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxKey{}, nil)
}

// FromContext returns the store bound to the context, if any. Absence
// means caching is a no-op: every lookup misses and every store is
// discarded.
func FromContext(ctx context.Context) (Store, bool) {
	store, ok := ctx.Value(ctxKey{}).(Store)
	if !ok || store == nil {
		return nil, false
	}
	return store, true
}
