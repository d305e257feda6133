// Package metadata reads coordinate-system metadata documents and converts
// them into spaces and transforms for the graph.
//
// A document has two blocks:
//
//	coordinateSystems:
//	  - name: raw
//	    axes: [{name: x, type: space}, ...]
//	coordinateTransformations:
//	  - type: scale
//	    name: s2m
//	    input: raw
//	    output: micron
//	    scale: [4, 4, 4]
//
// JSON and YAML files are decoded with gopkg.in/yaml.v3 (JSON is valid
// YAML) with unknown fields rejected. CUE files are compiled and unified
// with an embedded schema before decoding, so CUE constraints and
// references can be used to write the metadata.
//
// A scale, translation or affine entry that carries a "path" and no inline
// numbers becomes a transform.Parametrized whose numbers are read from a
// parameter store later.
package metadata
