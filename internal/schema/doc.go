// Package schema decodes declaration documents (YAML or TOML) and applies
// them to a declaration tree.
//
// A document names one contributor and lists declarations; namespace
// declarations nest further declarations under "body". See Declaration for
// the accepted keys per kind.
package schema
