package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Tree construction
	DeclInfo               Code = 1000
	DeclConflictingFlags   Code = 1001
	DeclAmbiguousParameter Code = 1002
	DeclNotNamespace       Code = 1003
	DeclUnknownNode        Code = 1004
	DeclInvalidName        Code = 1005
	DeclMisplacedField     Code = 1006

	// Path resolution
	ResInfo           Code = 2000
	ResAnonymousScope Code = 2001
	ResNotRoot        Code = 2002
	ResEmptyPath      Code = 2003

	// Lint
	LintInfo            Code = 3000
	LintDuplicateMember Code = 3001
	LintEmptyNamespace  Code = 3002

	// Documents
	DocInfo          Code = 4000
	DocParse         Code = 4001
	DocUnknownKind   Code = 4002
	DocMissingName   Code = 4003
	DocUnknownField  Code = 4004
	DocBadAttrKind   Code = 4005
	DocUnknownFormat Code = 4006
)

func (c Code) ID() string {
	if ic := int(c); ic < 1000 {
		return fmt.Sprintf("E%04d", ic)
	} else if ic < 2000 {
		return fmt.Sprintf("DCL%04d", ic)
	} else if ic < 3000 {
		return fmt.Sprintf("RES%04d", ic)
	} else if ic < 4000 {
		return fmt.Sprintf("LNT%04d", ic)
	} else if ic < 5000 {
		return fmt.Sprintf("DOC%04d", ic)
	}
	return "E0000"
}

var codeTitle = map[Code]string{
	UnknownCode:            "Unknown error",
	DeclInfo:               "Declaration information",
	DeclConflictingFlags:   "Conflicting namespace flags",
	DeclAmbiguousParameter: "Ambiguous parameter aliases",
	DeclNotNamespace:       "Parent is not a namespace",
	DeclUnknownNode:        "Unknown node or kind",
	DeclInvalidName:        "Invalid declaration name",
	DeclMisplacedField:     "Field not valid for this kind",
	ResInfo:                "Resolution information",
	ResAnonymousScope:      "Scope has no name",
	ResNotRoot:             "Path resolution outside the root namespace",
	ResEmptyPath:           "Empty path",
	LintInfo:               "Lint information",
	LintDuplicateMember:    "Duplicate member declaration",
	LintEmptyNamespace:     "Empty namespace",
	DocInfo:                "Document information",
	DocParse:               "Document parse error",
	DocUnknownKind:         "Unknown declaration kind",
	DocMissingName:         "Declaration without a name",
	DocUnknownField:        "Unknown document field",
	DocBadAttrKind:         "Invalid attribute kind",
	DocUnknownFormat:       "Unknown document format",
}

func (c Code) Title() string {
	title, ok := codeTitle[c]
	if !ok {
		return "Unknown error"
	}
	return title
}

func (c Code) String() string {
	return c.ID()
}

// ErrorKind groups codes into the error classes callers match on.
type ErrorKind uint8

const (
	KindUnknown ErrorKind = iota
	KindConflictingFlags
	KindAmbiguousParameter
	KindNameResolution
	KindUsage
	KindDocument
)

func (k ErrorKind) String() string {
	switch k {
	case KindConflictingFlags:
		return "ConflictingFlagsError"
	case KindAmbiguousParameter:
		return "AmbiguousParameterError"
	case KindNameResolution:
		return "NameResolutionError"
	case KindUsage:
		return "UsageError"
	case KindDocument:
		return "DocumentError"
	default:
		return "UnknownError"
	}
}

// Kind reports the error class of c.
func (c Code) Kind() ErrorKind {
	switch c {
	case DeclConflictingFlags:
		return KindConflictingFlags
	case DeclAmbiguousParameter:
		return KindAmbiguousParameter
	case ResAnonymousScope, ResEmptyPath:
		return KindNameResolution
	case DeclNotNamespace, DeclUnknownNode, DeclInvalidName, DeclMisplacedField, ResNotRoot:
		return KindUsage
	}
	if c >= DocInfo && c < 5000 {
		return KindDocument
	}
	return KindUnknown
}
