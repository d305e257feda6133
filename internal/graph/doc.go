// Package graph resolves conversions between coordinate systems.
//
// A Graph is a directed graph whose nodes are coordinate systems and whose
// edges are named transforms. Declared transforms are bound to their
// endpoints by a pure lookup against the space registry; the transform
// values themselves are never modified.
//
// CONSTRUCTION:
//
// Construction never aborts. Problems become Diagnostics and are logged at
// Warn:
//   - E201: a space name re-registered with different axes
//   - E202: a structurally invalid transform (dropped)
//   - E203: a transform whose endpoints do not resolve yet (kept unbound)
//
// AddTransform synthesizes an Inverse edge for every invertible transform,
// named "inv-" + the original name. Re-adding a known name is a no-op, so
// repeated construction from the same metadata is idempotent.
// UpdateTransforms retries unbound transforms after more spaces arrive.
//
// SEARCH:
//
// Path returns the first route found by a depth-first walk in edge
// insertion order, not the shortest one. The walk never revisits a space
// already on the current path, so cycles terminate.
//
// Mutation is single-threaded. Path, AllPaths and the accessors are safe
// for concurrent use once mutation has stopped. PathFromAxes may register
// a default space and therefore counts as mutation.
package graph
