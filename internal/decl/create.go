package decl

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"declgen/internal/diag"
)

// mergeKey identifies a namespace among its siblings.
type mergeKey struct {
	parent NodeID
	name   string
	kind   Kind
}

func keyFor(parent NodeID, name string, kind Kind) mergeKey {
	return mergeKey{parent: parent, name: norm.NFC.String(name), kind: kind}
}

// NamespaceSpec describes a namespace to create or merge into.
type NamespaceSpec struct {
	Name  string
	Kind  Kind
	Flags Flags
	// Superclass is only valid for class-like kinds.
	Superclass string
	// Enums is only valid for KindEnum.
	Enums []EnumValue
}

// CreateNamespace creates a namespace child of parent, or merges into the
// existing child with the same name and kind and returns that one.
//
// On merge the boolean flags are OR-ed; a superclass or enum list given on
// both sides must match, otherwise diag.ErrConflictingFlags is returned and
// nothing changes. Pending comments of parent are drained in both cases.
func (t *Tree) CreateNamespace(parent NodeID, spec NamespaceSpec) (NodeID, error) {
	if err := t.checkParent(parent); err != nil {
		return NoNodeID, err
	}
	switch spec.Kind {
	case KindModule, KindClass, KindInterface, KindStruct, KindEnum:
	default:
		return NoNodeID, diag.Newf(diag.DeclUnknownNode, "cannot create a namespace of kind %s", spec.Kind).
			WithDetail("kind", spec.Kind.String())
	}
	if strings.TrimSpace(spec.Name) == "" {
		return NoNodeID, diag.Newf(diag.DeclInvalidName, "%s without a name", spec.Kind)
	}
	if spec.Superclass != "" && !spec.Kind.IsClassLike() {
		return NoNodeID, diag.Newf(diag.DeclMisplacedField, "%s %s cannot have a superclass", spec.Kind, spec.Name)
	}
	if len(spec.Enums) > 0 && spec.Kind != KindEnum {
		return NoNodeID, diag.Newf(diag.DeclMisplacedField, "%s %s cannot have enum values", spec.Kind, spec.Name)
	}

	key := keyFor(parent, spec.Name, spec.Kind)
	if existing, ok := t.byKey[key]; ok {
		if err := t.mergeNamespace(existing, spec); err != nil {
			return NoNodeID, err
		}
		return existing, nil
	}

	payload := PayloadID(t.namespaces.Allocate(Namespace{
		Flags:      spec.Flags,
		Superclass: spec.Superclass,
		Enums:      append([]EnumValue(nil), spec.Enums...),
	}))
	id := t.attach(parent, spec.Kind, spec.Name, payload)
	t.byKey[key] = id
	t.log.Trace().Str("kind", spec.Kind.String()).Str("name", t.QualifiedName(id)).Msg("namespace created")
	return id, nil
}

// mergeNamespace validates spec against existing before touching it.
func (t *Tree) mergeNamespace(existing NodeID, spec NamespaceSpec) error {
	ns := t.Namespace(existing)
	if spec.Superclass != "" && ns.Superclass != "" && spec.Superclass != ns.Superclass {
		return diag.Newf(diag.DeclConflictingFlags, "%s %s: superclass %s conflicts with %s",
			spec.Kind, t.QualifiedName(existing), spec.Superclass, ns.Superclass).
			WithDetail("field", "superclass")
	}
	if len(spec.Enums) > 0 && len(ns.Enums) > 0 && !equalEnums(spec.Enums, ns.Enums) {
		return diag.Newf(diag.DeclConflictingFlags, "%s %s: enum values differ from the existing declaration",
			spec.Kind, t.QualifiedName(existing)).
			WithDetail("field", "enums")
	}

	ns.Flags = ns.Flags.merge(spec.Flags)
	if ns.Superclass == "" {
		ns.Superclass = spec.Superclass
	}
	if len(ns.Enums) == 0 && len(spec.Enums) > 0 {
		ns.Enums = append([]EnumValue(nil), spec.Enums...)
	}

	node := t.Node(existing)
	parent := t.Namespace(node.Parent)
	if len(parent.Pending) > 0 {
		node.Comments = append(parent.Pending, node.Comments...)
		parent.Pending = nil
	}
	t.log.Debug().Str("kind", spec.Kind.String()).Str("name", t.QualifiedName(existing)).Msg("namespace merged")
	return nil
}

func (t *Tree) CreateModule(parent NodeID, name string, flags Flags) (NodeID, error) {
	return t.CreateNamespace(parent, NamespaceSpec{Name: name, Kind: KindModule, Flags: flags})
}

func (t *Tree) CreateClass(parent NodeID, name, superclass string, flags Flags) (NodeID, error) {
	return t.CreateNamespace(parent, NamespaceSpec{Name: name, Kind: KindClass, Flags: flags, Superclass: superclass})
}

func (t *Tree) CreateInterface(parent NodeID, name string) (NodeID, error) {
	return t.CreateNamespace(parent, NamespaceSpec{Name: name, Kind: KindInterface})
}

func (t *Tree) CreateEnumClass(parent NodeID, name string, enums []EnumValue) (NodeID, error) {
	return t.CreateNamespace(parent, NamespaceSpec{Name: name, Kind: KindEnum, Enums: enums})
}

// CreateStructClass creates (or merges) a struct and appends props to it.
// The props are validated first so a bad one leaves the tree unchanged.
func (t *Tree) CreateStructClass(parent NodeID, name string, props []StructPropSpec) (NodeID, error) {
	for _, p := range props {
		if err := validateMember(p); err != nil {
			return NoNodeID, err
		}
	}
	id, err := t.CreateNamespace(parent, NamespaceSpec{Name: name, Kind: KindStruct})
	if err != nil {
		return NoNodeID, err
	}
	for _, p := range props {
		if _, err := t.CreateMember(id, p); err != nil {
			return NoNodeID, err
		}
	}
	return id, nil
}

// MemberSpec is implemented by the *Spec types of member kinds only.
type MemberSpec interface {
	memberKind() Kind
	memberName() string
}

// MethodSpec describes a method. Returns is an alias of ReturnType; setting
// both is an ambiguity error. Implementation is an alias of Override.
type MethodSpec struct {
	Name           string
	Params         []Parameter
	ReturnType     string
	Returns        string
	Abstract       bool
	Override       bool
	Implementation bool
	Overridable    bool
	Final          bool
	ClassMethod    bool
	TypeParameters []string
}

type AttributeSpec struct {
	Name           string
	Kind           AttrKind
	Type           string
	ClassAttribute bool
}

type ConstantSpec struct {
	Name  string
	Value string
	Eigen bool
}

type MixinSpec struct {
	Target    string
	Direction Direction
}

type TypeAliasSpec struct {
	Name string
	Type string
}

type ArbitrarySpec struct {
	Code string
}

type StructPropSpec struct {
	Name      string
	Type      string
	Optional  bool
	Default   string
	Immutable bool
}

func (MethodSpec) memberKind() Kind { return KindMethod }
func (AttributeSpec) memberKind() Kind { return KindAttribute }
func (ConstantSpec) memberKind() Kind { return KindConstant }
func (MixinSpec) memberKind() Kind { return KindMixin }
func (TypeAliasSpec) memberKind() Kind { return KindTypeAlias }
func (ArbitrarySpec) memberKind() Kind { return KindArbitrary }
func (StructPropSpec) memberKind() Kind { return KindStructProp }

func (s MethodSpec) memberName() string { return s.Name }
func (s AttributeSpec) memberName() string { return s.Name }
func (s ConstantSpec) memberName() string { return s.Name }
func (s MixinSpec) memberName() string { return s.Target }
func (ArbitrarySpec) memberName() string { return "" }
func (s TypeAliasSpec) memberName() string { return s.Name }
func (s StructPropSpec) memberName() string { return s.Name }

func validateMember(spec MemberSpec) error {
	kind := spec.memberKind()
	if kind != KindArbitrary && strings.TrimSpace(spec.memberName()) == "" {
		return diag.Newf(diag.DeclInvalidName, "%s without a name", kind)
	}
	if m, ok := spec.(MethodSpec); ok {
		if m.ReturnType != "" && m.Returns != "" {
			return diag.Newf(diag.DeclAmbiguousParameter, "method %s: both return type and returns given", m.Name).
				WithDetail("fields", []string{"return_type", "returns"})
		}
		for _, p := range m.Params {
			if p.BareName() == "" {
				return diag.Newf(diag.DeclInvalidName, "method %s: parameter without a name", m.Name)
			}
		}
	}
	return nil
}

// CreateMember appends a new member to parent. Members are never merged:
// the same spec twice gives two siblings.
func (t *Tree) CreateMember(parent NodeID, spec MemberSpec) (NodeID, error) {
	if err := t.checkParent(parent); err != nil {
		return NoNodeID, err
	}
	if err := validateMember(spec); err != nil {
		return NoNodeID, err
	}
	if spec.memberKind() == KindStructProp && t.Kind(parent) != KindStruct {
		return NoNodeID, diag.Newf(diag.DeclMisplacedField, "prop %s needs a struct parent, got %s",
			spec.memberName(), t.Kind(parent))
	}

	var payload PayloadID
	switch s := spec.(type) {
	case MethodSpec:
		ret := s.ReturnType
		if ret == "" {
			ret = s.Returns
		}
		payload = PayloadID(t.methods.Allocate(Method{
			Params:         append([]Parameter(nil), s.Params...),
			ReturnType:     ret,
			Abstract:       s.Abstract,
			Override:       s.Override || s.Implementation,
			Overridable:    s.Overridable,
			Final:          s.Final,
			ClassMethod:    s.ClassMethod,
			TypeParameters: append([]string(nil), s.TypeParameters...),
		}))
	case AttributeSpec:
		payload = PayloadID(t.attributes.Allocate(Attribute{
			AttrKind: s.Kind, Type: s.Type, ClassAttribute: s.ClassAttribute,
		}))
	case ConstantSpec:
		payload = PayloadID(t.constants.Allocate(Constant{Value: s.Value, Eigen: s.Eigen}))
	case MixinSpec:
		payload = PayloadID(t.mixins.Allocate(Mixin{Target: s.Target, Direction: s.Direction}))
	case TypeAliasSpec:
		payload = PayloadID(t.aliases.Allocate(TypeAlias{Type: s.Type}))
	case ArbitrarySpec:
		payload = PayloadID(t.arbitrary.Allocate(Arbitrary{Code: s.Code}))
	case StructPropSpec:
		payload = PayloadID(t.props.Allocate(StructProp{
			Type: s.Type, Optional: s.Optional, Default: s.Default, Immutable: s.Immutable,
		}))
	default:
		return NoNodeID, diag.Newf(diag.DeclUnknownNode, "unsupported member spec %T", spec)
	}
	id := t.attach(parent, spec.memberKind(), spec.memberName(), payload)
	t.log.Trace().Str("kind", spec.memberKind().String()).Str("name", spec.memberName()).Msg("member created")
	return id, nil
}

func (t *Tree) CreateMethod(parent NodeID, spec MethodSpec) (NodeID, error) {
	return t.CreateMember(parent, spec)
}

func (t *Tree) CreateAttribute(parent NodeID, name string, kind AttrKind, typ string) (NodeID, error) {
	return t.CreateMember(parent, AttributeSpec{Name: name, Kind: kind, Type: typ})
}

func (t *Tree) CreateAttrReader(parent NodeID, name, typ string) (NodeID, error) {
	return t.CreateAttribute(parent, name, AttrReader, typ)
}

func (t *Tree) CreateAttrWriter(parent NodeID, name, typ string) (NodeID, error) {
	return t.CreateAttribute(parent, name, AttrWriter, typ)
}

func (t *Tree) CreateAttrAccessor(parent NodeID, name, typ string) (NodeID, error) {
	return t.CreateAttribute(parent, name, AttrAccessor, typ)
}

func (t *Tree) CreateConstant(parent NodeID, name, value string) (NodeID, error) {
	return t.CreateMember(parent, ConstantSpec{Name: name, Value: value})
}

func (t *Tree) CreateInclude(parent NodeID, target string) (NodeID, error) {
	return t.CreateMember(parent, MixinSpec{Target: target, Direction: Include})
}

func (t *Tree) CreateExtend(parent NodeID, target string) (NodeID, error) {
	return t.CreateMember(parent, MixinSpec{Target: target, Direction: Extend})
}

// CreateIncludes adds one include per target, in order.
func (t *Tree) CreateIncludes(parent NodeID, targets []string) ([]NodeID, error) {
	return t.createMixins(parent, targets, Include)
}

// CreateExtends adds one extend per target, in order.
func (t *Tree) CreateExtends(parent NodeID, targets []string) ([]NodeID, error) {
	return t.createMixins(parent, targets, Extend)
}

func (t *Tree) createMixins(parent NodeID, targets []string, dir Direction) ([]NodeID, error) {
	for _, target := range targets {
		if err := validateMember(MixinSpec{Target: target, Direction: dir}); err != nil {
			return nil, err
		}
	}
	ids := make([]NodeID, 0, len(targets))
	for _, target := range targets {
		id, err := t.CreateMember(parent, MixinSpec{Target: target, Direction: dir})
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (t *Tree) CreateTypeAlias(parent NodeID, name, typ string) (NodeID, error) {
	return t.CreateMember(parent, TypeAliasSpec{Name: name, Type: typ})
}

func (t *Tree) CreateArbitrary(parent NodeID, code string) (NodeID, error) {
	return t.CreateMember(parent, ArbitrarySpec{Code: code})
}

func (t *Tree) CreateStructProp(parent NodeID, spec StructPropSpec) (NodeID, error) {
	return t.CreateMember(parent, spec)
}

func (t *Tree) checkParent(parent NodeID) error {
	n := t.Node(parent)
	if n == nil {
		return diag.Newf(diag.DeclUnknownNode, "unknown node %d", parent)
	}
	if !n.Kind.IsNamespace() {
		return diag.Newf(diag.DeclNotNamespace, "%s %s cannot own children", n.Kind, n.Name)
	}
	return nil
}

// attach allocates the node, drains the parent's pending comments into it
// and appends it to the parent's children.
func (t *Tree) attach(parent NodeID, kind Kind, name string, payload PayloadID) NodeID {
	id := NodeID(t.nodes.Allocate(Node{
		Kind:        kind,
		Name:        name,
		GeneratedBy: t.contributor,
		Parent:      parent,
		Payload:     payload,
	}))
	ns := t.Namespace(parent)
	if len(ns.Pending) > 0 {
		node := t.Node(id)
		node.Comments = append(ns.Pending, node.Comments...)
		ns.Pending = nil
	}
	ns.Children = append(ns.Children, id)
	return id
}
