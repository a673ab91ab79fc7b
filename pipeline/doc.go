// Package pipeline chains independently configured interp engines into a
// multi-pass renderer. Each stage resolves only its own delimiter set, so
// tokens meant for a later stage survive the earlier ones untouched.
//
// Pipelines are built in code with New, with Default (variables then
// built-in functions) or from a YAML definition file with Load.
package pipeline
