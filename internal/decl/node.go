package decl

import "strings"

// Contributor identifies whoever created a node. It is kept for diagnostics
// only and never takes part in equality.
type Contributor interface {
	ContributorName() string
}

// NamedContributor is the simplest Contributor: a plain label.
type NamedContributor string

func (c NamedContributor) ContributorName() string { return string(c) }

// Node is the part every declaration shares. Payload indexes the arena of
// the node's Kind.
type Node struct {
	Kind        Kind
	Name        string
	Comments    []string
	GeneratedBy Contributor
	Parent      NodeID
	Payload     PayloadID
}

type Flags struct {
	Abstract bool
	Final    bool
	Sealed   bool
}

// merge ORs other into f.
func (f Flags) merge(other Flags) Flags {
	return Flags{
		Abstract: f.Abstract || other.Abstract,
		Final:    f.Final || other.Final,
		Sealed:   f.Sealed || other.Sealed,
	}
}

// EnumValue is one value of an enum-like namespace. An empty Serialization
// means the default one.
type EnumValue struct {
	Name          string
	Serialization string
}

type Namespace struct {
	Children []NodeID
	// Pending holds comments queued for the next created child.
	Pending    []string
	Flags      Flags
	Superclass string
	Enums      []EnumValue
}

// ParamKind is derived from the parameter name: a, a:, *a, **a, &a.
type ParamKind uint8

const (
	ParamPositional ParamKind = iota
	ParamKeyword
	ParamSplat
	ParamDoubleSplat
	ParamBlock
)

func (k ParamKind) String() string {
	switch k {
	case ParamKeyword:
		return "keyword"
	case ParamSplat:
		return "splat"
	case ParamDoubleSplat:
		return "double_splat"
	case ParamBlock:
		return "block"
	default:
		return "positional"
	}
}

type Parameter struct {
	Name    string
	Type    string // "" = untyped
	Default string // "" = required
}

func (p Parameter) Kind() ParamKind {
	switch {
	case strings.HasPrefix(p.Name, "**"):
		return ParamDoubleSplat
	case strings.HasPrefix(p.Name, "*"):
		return ParamSplat
	case strings.HasPrefix(p.Name, "&"):
		return ParamBlock
	case strings.HasSuffix(p.Name, ":"):
		return ParamKeyword
	default:
		return ParamPositional
	}
}

// BareName strips the kind markers from the name.
func (p Parameter) BareName() string {
	name := strings.TrimLeft(p.Name, "*&")
	return strings.TrimSuffix(name, ":")
}

type Method struct {
	Params         []Parameter
	ReturnType     string // "" = void
	Abstract       bool
	Override       bool
	Overridable    bool
	Final          bool
	ClassMethod    bool
	TypeParameters []string
}

type AttrKind uint8

const (
	AttrReader AttrKind = iota
	AttrWriter
	AttrAccessor
)

func (k AttrKind) String() string {
	switch k {
	case AttrWriter:
		return "writer"
	case AttrAccessor:
		return "accessor"
	default:
		return "reader"
	}
}

// ParseAttrKind accepts reader, writer and accessor.
func ParseAttrKind(s string) (AttrKind, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reader", "":
		return AttrReader, true
	case "writer":
		return AttrWriter, true
	case "accessor":
		return AttrAccessor, true
	}
	return AttrReader, false
}

type Attribute struct {
	AttrKind       AttrKind
	Type           string
	ClassAttribute bool
}

type Constant struct {
	Value string
	// Eigen constants live on the singleton class.
	Eigen bool
}

type Direction uint8

const (
	Include Direction = iota
	Extend
)

func (d Direction) String() string {
	if d == Extend {
		return "extend"
	}
	return "include"
}

type Mixin struct {
	Target    string
	Direction Direction
}

type TypeAlias struct {
	Type string
}

// Arbitrary is literal code emitted as-is, one output line per line of Code.
type Arbitrary struct {
	Code string
}

type StructProp struct {
	Type      string
	Optional  bool
	Default   string
	Immutable bool
}
