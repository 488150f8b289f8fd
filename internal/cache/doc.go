// Package cache provides content-addressable memoization of task results.
// A fingerprint of (task identity, normalized arguments) addresses one
// write-once record in a backing store; stores are bound to a context
// scope, so nested scopes shadow each other and calls outside any scope
// simply run uncached. There is no eviction: cached results are an
// experiment-reproducibility artifact, not a bounded working set.
package cache
