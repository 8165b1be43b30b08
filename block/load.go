package block

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is the encoding of a definition or toolbox file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// ParseDefinitions decodes a list of block definitions, the same shape a
// defineBlocksWithJsonArray call takes.
func ParseDefinitions(data []byte, format Format) ([]Definition, error) {
	var defs []Definition
	if err := decode(data, format, &defs); err != nil {
		return nil, err
	}
	for i, def := range defs {
		if strings.TrimSpace(def.Type) == "" {
			return nil, fmt.Errorf("%w: definition %d has no type", ErrInvalidDefinition, i)
		}
	}
	return defs, nil
}

// LoadDefinitions reads and decodes a definitions file.
func LoadDefinitions(path string) ([]Definition, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read definitions: %w", err)
	}
	defs, err := ParseDefinitions(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return defs, nil
}

// ParseToolbox decodes a toolbox. Both a toolbox object
// ({"kind": "categoryToolbox", "contents": [...]}) and a bare list of entries
// are accepted. The returned entries are the top level of the tree; use
// Flatten to get the blocks.
func ParseToolbox(data []byte, format Format) ([]*Info, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}
	var list []*Info
	err := decode(trimmed, format, &list)
	if err == nil {
		return list, nil
	}
	if isList(trimmed, format) {
		return nil, err
	}
	var root Info
	if err := decode(trimmed, format, &root); err != nil {
		return nil, err
	}
	return root.Contents, nil
}

// LoadToolbox reads and decodes a toolbox file.
func LoadToolbox(path string) ([]*Info, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read toolbox: %w", err)
	}
	items, err := ParseToolbox(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return items, nil
}

// isList reports whether the document's top level is a sequence.
func isList(data []byte, format Format) bool {
	if data[0] == '[' {
		return true
	}
	if format != FormatYAML {
		return false
	}
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return bytes.HasPrefix(data, []byte("- ")) || bytes.HasPrefix(data, []byte("-\n"))
	}
	return len(doc.Content) > 0 && doc.Content[0].Kind == yaml.SequenceNode
}

func decode(data []byte, format Format, v any) error {
	switch format {
	case FormatJSON:
		return json.Unmarshal(data, v)
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}
