package hook

import "context"

// Observable is the fragment of a task definition hooks need: its stable
// identity. It is an interface so this package does not depend on the
// task package's generic types.
type Observable interface {
	Identity() string
}

// Hook is a handle binding an observer function to one task identity.
// The dispatcher invokes it with the current row, the task's output, and
// the original (normalized) call input.
type Hook struct {
	identity string
	invoke   func(ctx context.Context, row, out, in any)
}

// Identity returns the identity of the task the hook observes.
func (h *Hook) Identity() string { return h.identity }

// On binds fn to the given task. The function receives the current run
// row, the task output, and the task input; if the row or the call values
// are not of the expected types the hook is skipped for that call, so a
// hook scoped to one row type never fires on foreign rows.
func On[R any, I any, O any](task Observable, fn func(ctx context.Context, row *R, out O, in I)) *Hook {
	return &Hook{
		identity: task.Identity(),
		invoke: func(ctx context.Context, row, out, in any) {
			r, ok := row.(*R)
			if !ok {
				return
			}
			o, ok := out.(O)
			if !ok {
				return
			}
			i, ok := in.(I)
			if !ok {
				return
			}
			fn(ctx, r, o, i)
		},
	}
}

// Bound carries fixed configuration into a hook observer. OnWith stores it
// on the handle and passes it to fn on every dispatch, keeping the
// pre-bound state explicit rather than hidden in a closure environment.
type Bound[P any] struct {
	Args P
}

// OnWith is On with an explicit pre-bound argument struct, for hooks
// scoped to a particular model or configuration.
func OnWith[P any, R any, I any, O any](task Observable, bound P, fn func(ctx context.Context, bound Bound[P], row *R, out O, in I)) *Hook {
	b := Bound[P]{Args: bound}
	return On(task, func(ctx context.Context, row *R, out O, in I) {
		fn(ctx, b, row, out, in)
	})
}
