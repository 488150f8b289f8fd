// Package task wraps asynchronous units of work with a stable identity,
// declared-default argument normalization, optional content-addressed
// caching, and hook dispatch. Callers hold the wrapper, not the raw
// function; the wrapper decides per call whether to execute, replay a
// cached result, and which observers to notify.
package task
