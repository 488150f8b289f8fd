// Package hook lets callers observe successful task calls made during a
// run without altering task control flow. A hook is an explicit handle
// bound to one task identity; the runner assembles handles into a
// dispatch table and installs it, together with the current row, into the
// context each task call sees. Hooks fire only on success, in
// registration order, and typically read the call's input and output to
// mutate the current row's label fields.
package hook
