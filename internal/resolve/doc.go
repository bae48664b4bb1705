// Package resolve maps the ancestry of an external entity onto nested
// namespaces of a declaration tree, creating or reusing every level.
//
// Names come from ScopeName, with fmt.Stringer as the fallback. Kinds come
// from Introspector when the entity implements it; otherwise the Go type
// decides. What an entity says about itself through ReportedKind is never
// trusted.
package resolve
