// Package manifest renders the string values of multi-document YAML
// streams, such as Kubernetes manifests, through an interpolation pipeline.
// Mapping keys are left untouched; documents are re-encoded and written back
// separated by "---" markers.
package manifest
