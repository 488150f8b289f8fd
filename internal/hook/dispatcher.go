package hook

import "context"

// Dispatcher is the explicit dispatch table: task identity to the ordered
// list of hook handles registered for it.
type Dispatcher struct {
	table map[string][]*Hook
}

// NewDispatcher builds a dispatcher from hooks, preserving registration
// order per task identity.
func NewDispatcher(hooks ...*Hook) *Dispatcher {
	table := make(map[string][]*Hook)
	for _, h := range hooks {
		table[h.identity] = append(table[h.identity], h)
	}
	return &Dispatcher{table: table}
}

// Dispatch synchronously invokes every hook registered for the identity,
// in registration order, with the row carried by ctx. Task wrappers call
// it only after a successful call (including cache hits, which are
// observationally transparent to hooks).
func (d *Dispatcher) Dispatch(ctx context.Context, identity string, out, in any) {
	hooks := d.table[identity]
	if len(hooks) == 0 {
		return
	}
	row := RowFromContext(ctx)
	for _, h := range hooks {
		h.invoke(ctx, row, out, in)
	}
}

type dispatcherKey struct{}
type rowKey struct{}

// WithDispatcher installs the dispatcher for the duration of a run.
func WithDispatcher(ctx context.Context, d *Dispatcher) context.Context {
	return context.WithValue(ctx, dispatcherKey{}, d)
}

// DispatcherFromContext returns the active dispatcher, if any. Task calls
// made outside a run have none and dispatch nothing.
func DispatcherFromContext(ctx context.Context) (*Dispatcher, bool) {
	d, ok := ctx.Value(dispatcherKey{}).(*Dispatcher)
	return d, ok
}

// WithRow binds the row currently being processed. Hook bodies must treat
// row-scoped state as the only safely mutated state when rows run
// concurrently.
func WithRow(ctx context.Context, row any) context.Context {
	return context.WithValue(ctx, rowKey{}, row)
}

// RowFromContext returns the current row, or nil outside a run.
func RowFromContext(ctx context.Context) any {
	return ctx.Value(rowKey{})
}
