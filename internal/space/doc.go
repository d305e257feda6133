// Package space provides the axis and coordinate-system data model.
//
// A CoordinateSystem is a named, ordered list of axes. Axis order fixes the
// dimension order of any numeric transform that reads or writes the system.
// Axis labels are compared after NFC normalization.
//
// The Registry owns every coordinate system known to a graph. Systems are
// stored in an arena and addressed by ID; the name→ID map enforces name
// uniqueness at insertion. Systems that are referenced only by an axis-label
// list are synthesized on demand with MakeDefaultSpace.
//
// Key constraints:
//   - Names are identity: one name maps to exactly one axis list
//   - Axis labels are registered first-wins
//   - Duplicate labels inside one system are accepted; lookups return the first
package space
