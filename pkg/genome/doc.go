// Package genome provides the genetic program model and the reconfiguration
// compiler. A Program is a named, ordered list of gene segment names; the
// compiler translates each segment through a fixed lookup table into a
// Directive (target organelle, configuration patch, optional routing hint).
// The segment grammar is deliberately a closed table, not a parser: unknown
// segments compile to an empty directive and are never an error.
//
// The package also ships the program catalog, which resolves program names to
// content for the rest of the system. Programs come from three sources:
// built-in specialization profiles, YAML files loaded from a directory, and
// direct registration. The catalog can watch its directory and hot-reload
// changed files.
package genome
