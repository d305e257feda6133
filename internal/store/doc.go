// Package store provides parameter storage for Parametrized transforms.
//
// Two implementations of transform.ParameterSource live here:
//   - Store: SQLite-backed, durable, one row per parameter path
//   - Memory: map-backed, for callers that already hold arrays
//
// # Parameter Layout
//
// A parameter is a row-major float64 array with an optional shape, addressed
// by a slash-separated path such as "coordinateTransformations/s0". Paths are
// stored verbatim; leading slashes are trimmed so "/a/b" and "a/b" resolve to
// the same row.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - Single open connection: SQLite has one writer
package store
