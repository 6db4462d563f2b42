// Package emitter produces the artifacts derived from an ExpandedManifest:
// cloned preprocessor sources, fingerprinted HTML include tags, and a CSV
// report of included file sizes.
//
// Emitters only read the manifest they are given; loose files and concat
// task sources are never reordered or modified.
package emitter
