// Package transform provides the coordinate transform model.
//
// Transform is a sealed interface; the closed set of variants is Identity,
// Scale, Translation, Affine, Sequence, ByDimension, Parametrized and
// Inverse. Every variant carries a Header naming the transform and its
// input/output endpoints. An endpoint Ref is either a coordinate-system name
// or a raw axis-label list; binding a Ref to a concrete system is the graph's
// job and never mutates the transform.
//
// Materializer turns any variant into an *affine.Affine. Parametrized
// transforms read their numbers from a ParameterSource; materializing one
// without parameters and without a source fails with ErrNotFetched.
//
// Inverse edges are modeled as Inverse{Of: t}: a non-owning reference whose
// name is always "inv-" + the name of t.
package transform
