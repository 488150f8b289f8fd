// Package codec converts arbitrary structured Go values to and from a
// canonical intermediate Value form and a deterministic byte encoding.
// The same encoding backs cache-key derivation, dataset files, and the
// persisted run log, so every consumer sees byte-identical output for
// semantically identical input.
package codec
