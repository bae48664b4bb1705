package schema

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"declgen/internal/diag"
)

type Format uint8

const (
	FormatUnknown Format = iota
	FormatYAML
	FormatTOML
)

func (f Format) String() string {
	switch f {
	case FormatYAML:
		return "yaml"
	case FormatTOML:
		return "toml"
	default:
		return "unknown"
	}
}

// FormatOf picks the format from the file extension.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatUnknown
	}
}

// Load reads and decodes one document file.
func Load(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, diag.Wrapf(err, diag.DocParse, "read %s", path)
	}
	return Decode(path, data)
}

// Decode parses data in the format implied by name. Unknown keys are errors.
func Decode(name string, data []byte) (*Document, error) {
	var (
		doc *Document
		err error
	)
	switch FormatOf(name) {
	case FormatYAML:
		doc, err = decodeYAML(name, data)
	case FormatTOML:
		doc, err = decodeTOML(name, data)
	default:
		return nil, diag.Newf(diag.DocUnknownFormat, "%s: unknown document format (want .yaml, .yml or .toml)", name)
	}
	if err != nil {
		return nil, err
	}
	doc.Source = name
	if doc.Contributor == "" {
		doc.Contributor = strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	}
	return doc, nil
}

func decodeYAML(name string, data []byte) (*Document, error) {
	var doc Document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return &doc, nil
		}
		var typeErr *yaml.TypeError
		if errors.As(err, &typeErr) && strings.Contains(err.Error(), "not found in type") {
			return nil, diag.Wrapf(err, diag.DocUnknownField, "%s", name)
		}
		return nil, diag.Wrapf(err, diag.DocParse, "%s", name)
	}
	return &doc, nil
}

func decodeTOML(name string, data []byte) (*Document, error) {
	var doc Document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, diag.Wrapf(err, diag.DocParse, "%s", name)
	}
	var unknown []string
	for _, key := range md.Undecoded() {
		if isEnumKey(key) {
			continue
		}
		unknown = append(unknown, key.String())
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return nil, diag.Newf(diag.DocUnknownField, "%s: unknown keys %s", name, strings.Join(unknown, ", ")).
			WithDetail("keys", unknown)
	}
	return &doc, nil
}

// isEnumKey reports keys below "enums", which EnumEntry decodes itself.
func isEnumKey(key toml.Key) bool {
	for i, part := range key {
		if part == "enums" && i < len(key)-1 {
			return true
		}
	}
	return false
}
