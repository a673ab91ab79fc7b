// Package templating expands template files through an interpolation
// pipeline. Data comes from stamp info files, YAML or JSON data files and
// explicit NAME=VALUE variables; imported files are rendered first and made
// available as imports.NAME.
//
// The Engine type holds configuration (delimiters, strictness, pipeline
// definition, input files) and expands templates via the Expand method, or
// keeps re-expanding them on change via Watch. Output can optionally be
// converted from Markdown to HTML.
package templating
