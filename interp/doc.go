// Package interp is a string-interpolation engine. An Engine is built once
// from a Config (delimiters, token path pattern, strict or lenient policy,
// variable or function mode) and then renders any number of templates
// against caller-supplied data contexts.
//
// In variable mode a token such as ${user.name} walks the data context one
// dot-separated segment at a time. In function mode a token such as
// #{greet:Jane} calls the context entry "greet" with the argument "Jane".
//
// Engines with disjoint delimiter sets never touch each other's tokens, so
// they can be chained over the same text to build multi-pass pipelines.
// Engines are immutable and safe for concurrent use.
package interp
