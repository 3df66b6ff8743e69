// Package normalize flattens raw order documents into relational row
// bundles ready for loading.
//
// The transformation is strict: a record with an unparseable timestamp,
// an uncoercible field, or a missing natural key is rejected as a whole
// rather than loaded partially. All field access goes through typed
// helpers that report the dotted path of the offending field.
//
// Entity deduplication is run-scoped: an OrderNormalizer carries a
// Registry that remembers which customers, merchants, drivers and
// addresses have already produced rows during the current run.
package normalize
