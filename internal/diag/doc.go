// Package diag defines the error and diagnostic model shared by the
// declaration tree, the path resolver, document loading and lint passes.
//
// # Errors
//
// Contract violations are returned synchronously as *Error values. Each
// carries a numeric Code (stable string form such as "DCL1001") and belongs
// to exactly one ErrorKind. Callers match kinds with errors.Is against the
// exported sentinels:
//
//   - ErrConflictingFlags – a namespace merge with incompatible flags.
//   - ErrAmbiguousParameter – two aliases for the same member field.
//   - ErrNameResolution – an ancestor scope without a usable name.
//   - ErrUsage – an operation invoked on the wrong kind of node.
//   - ErrDocument – a malformed declaration document.
//
// # Diagnostics
//
// Non-fatal findings are Diagnostic records collected in a Bag through a
// Reporter. Diagnostics reference declarations by their qualified path
// ("A::B::foo") rather than by node id so the package stays independent of
// internal/decl.
//
// Package diag performs no IO and no colouring; the CLI renders bags.
package diag
