// Package dataset provides the labeled row collection that runs iterate
// over. Rows embed an identity base, distinguish eagerly-required fields
// from lazily-bootstrapped label fields, and are persisted as a single
// canonical file per dataset with atomic rewrites.
package dataset
