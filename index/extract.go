package index

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonwraymond/toolboxsearch/block"
)

// placeholderPattern matches %1 style argument references and %{BKY_NAME}
// message references in a block message template.
var placeholderPattern = regexp.MustCompile(`%\d+|%\{[^}]*\}`)

// Extract returns the lower-cased search text for a toolbox block: its type,
// the literal parts of its message templates, its dropdown option labels
// (alt text for image options), the text of label and input fields, the
// types of the shadow blocks plugged into its inputs, and the string values
// preset in the toolbox entry's fields. Missing pieces contribute nothing;
// defs may be nil.
func Extract(info *block.Info, defs block.DefinitionSource) string {
	if info == nil {
		return ""
	}
	var parts []string
	add := func(s string) {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}

	add(typeText(info.Type))

	// Dropdown presets hold option values; their labels are already added.
	dropdowns := map[string]bool{}
	if defs != nil && info.Type != "" {
		if def, ok := defs.Lookup(info.Type); ok {
			for _, msg := range def.Messages {
				add(stripPlaceholders(msg.Text))
				for _, arg := range msg.Args {
					if arg.Type == block.FieldDropdown {
						dropdowns[arg.Name] = true
					}
					for _, s := range argText(arg) {
						add(s)
					}
				}
			}
		}
	}

	for _, shadow := range info.ShadowTypes() {
		add(typeText(shadow))
	}

	for _, name := range sortedKeys(info.Fields) {
		if dropdowns[name] {
			continue
		}
		if v, ok := info.Fields[name].(string); ok {
			add(v)
		}
	}

	return strings.ToLower(strings.Join(parts, " "))
}

// typeText turns a block type such as lists_create_with into words.
func typeText(blockType string) string {
	return strings.ReplaceAll(blockType, "_", " ")
}

func stripPlaceholders(msg string) string {
	return strings.Join(strings.Fields(placeholderPattern.ReplaceAllString(msg, " ")), " ")
}

func argText(arg block.Arg) []string {
	switch arg.Type {
	case block.FieldDropdown:
		out := make([]string, 0, len(arg.Options))
		for _, opt := range arg.Options {
			out = append(out, opt.Label.SearchText())
		}
		return out
	case block.FieldLabel, block.FieldLabelSerializable, block.FieldInput:
		return []string{arg.Text}
	case block.InputValue, block.InputStatement, block.InputDummy:
		// Sockets hold other blocks, not text.
		return nil
	default:
		return nil
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
