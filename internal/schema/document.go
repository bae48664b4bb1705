package schema

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

type Document struct {
	// Source is the file the document came from; it is not decoded.
	Source       string        `yaml:"-" toml:"-"`
	Contributor  string        `yaml:"contributor" toml:"contributor"`
	Declarations []Declaration `yaml:"declarations" toml:"declarations"`
}

// Declaration is one entry of a document. Which keys apply depends on Kind:
//
//	module, class, interface, struct, enum: name, superclass, abstract, final, sealed, enums, body
//	method: name, params, returns | return_type, abstract, override, implementation,
//	        overridable, final, class_method, type_parameters
//	attribute: name, attr (reader|writer|accessor), type, class_attribute
//	constant: name, value, eigen
//	include, extend: name (the target)
//	type_alias: name, type
//	arbitrary: code
//	prop: name, type, optional, default, immutable
//	path: name ("A::B::C"), leaf (namespace kind of C, default module), body
//	comment_next: comments only, queued for the next declaration
//
// Every kind accepts comments.
type Declaration struct {
	Kind     string        `yaml:"kind" toml:"kind"`
	Name     string        `yaml:"name" toml:"name"`
	Comments []string      `yaml:"comments" toml:"comments"`
	Body     []Declaration `yaml:"body" toml:"body"`

	Superclass string      `yaml:"superclass" toml:"superclass"`
	Abstract   bool        `yaml:"abstract" toml:"abstract"`
	Final      bool        `yaml:"final" toml:"final"`
	Sealed     bool        `yaml:"sealed" toml:"sealed"`
	Enums      []EnumEntry `yaml:"enums" toml:"enums"`
	Leaf       string      `yaml:"leaf" toml:"leaf"`

	Params         []Param  `yaml:"params" toml:"params"`
	Returns        string   `yaml:"returns" toml:"returns"`
	ReturnType     string   `yaml:"return_type" toml:"return_type"`
	Override       bool     `yaml:"override" toml:"override"`
	Implementation bool     `yaml:"implementation" toml:"implementation"`
	Overridable    bool     `yaml:"overridable" toml:"overridable"`
	ClassMethod    bool     `yaml:"class_method" toml:"class_method"`
	TypeParameters []string `yaml:"type_parameters" toml:"type_parameters"`

	Attr           string `yaml:"attr" toml:"attr"`
	Type           string `yaml:"type" toml:"type"`
	ClassAttribute bool   `yaml:"class_attribute" toml:"class_attribute"`

	Value string `yaml:"value" toml:"value"`
	Eigen bool   `yaml:"eigen" toml:"eigen"`

	Code string `yaml:"code" toml:"code"`

	Optional  bool   `yaml:"optional" toml:"optional"`
	Default   string `yaml:"default" toml:"default"`
	Immutable bool   `yaml:"immutable" toml:"immutable"`
}

type Param struct {
	Name    string `yaml:"name" toml:"name"`
	Type    string `yaml:"type" toml:"type"`
	Default string `yaml:"default" toml:"default"`
}

// EnumEntry is either a bare name or a {name, serialization} table.
type EnumEntry struct {
	Name          string `yaml:"name" toml:"name"`
	Serialization string `yaml:"serialization" toml:"serialization"`
}

func (e *EnumEntry) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		e.Name = value.Value
		return nil
	}
	type plain EnumEntry
	var p plain
	if err := value.Decode(&p); err != nil {
		return err
	}
	*e = EnumEntry(p)
	return nil
}

func (e *EnumEntry) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		e.Name = val
		return nil
	case map[string]any:
		for k, raw := range val {
			s, ok := raw.(string)
			if !ok {
				return fmt.Errorf("enum %s: want a string, got %T", k, raw)
			}
			switch k {
			case "name":
				e.Name = s
			case "serialization":
				e.Serialization = s
			default:
				return fmt.Errorf("unknown enum key %q", k)
			}
		}
		return nil
	default:
		return fmt.Errorf("enum entry: want a string or a table, got %T", v)
	}
}
