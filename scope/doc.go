// Package scope builds the nested data contexts that interp engines render
// against. Contexts are assembled from YAML or JSON data files, Bazel
// workspace status ("stamp") files and NAME=VALUE assignments.
//
// Stamp files hold one "KEY VALUE" pair per line. Assignment values may
// reference stamps with single-brace {KEY} tags, which ExpandStamps
// substitutes before the value is stored. Dotted names such as "app.name"
// are stored as nested maps so that ${app.name} resolves.
package scope
