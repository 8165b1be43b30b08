package block

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field and input kinds that the text extractor cares about.
const (
	FieldDropdown          = "field_dropdown"
	FieldLabel             = "field_label"
	FieldLabelSerializable = "field_label_serializable"
	FieldInput             = "field_input"
	InputValue             = "input_value"
	InputStatement         = "input_statement"
	InputDummy             = "input_dummy"
	messageKeyPrefix       = "message"
	argsKeyPrefix          = "args"
)

// Definition is the JSON block-definition schema that supplies a block's
// display text. Only the parts relevant to search are decoded.
type Definition struct {
	Type     string
	Messages []Message
}

// Message is one messageN/argsN pair of a definition.
type Message struct {
	// Text is the template, e.g. "sort %1 %2 %3".
	Text string
	Args []Arg
}

// Arg is a field or input referenced from a message template.
type Arg struct {
	Type    string   `json:"type" yaml:"type"`
	Name    string   `json:"name,omitempty" yaml:"name,omitempty"`
	Text    string   `json:"text,omitempty" yaml:"text,omitempty"`
	Options []Option `json:"options,omitempty" yaml:"options,omitempty"`
}

// Option is one dropdown entry. It is encoded as a [label, value] pair.
type Option struct {
	Label Label
	Value string
}

// Label is a dropdown label: plain text or an image reference.
type Label struct {
	Text  string
	Image *Image
}

// Image is an image dropdown label.
type Image struct {
	Src    string `json:"src" yaml:"src"`
	Width  int    `json:"width,omitempty" yaml:"width,omitempty"`
	Height int    `json:"height,omitempty" yaml:"height,omitempty"`
	Alt    string `json:"alt,omitempty" yaml:"alt,omitempty"`
}

// SearchText returns the text a user would type to find this option.
func (l Label) SearchText() string {
	if l.Image != nil {
		return l.Image.Alt
	}
	return l.Text
}

// UnmarshalJSON decodes message0..N and args0..N into Messages.
func (d *Definition) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := Definition{}
	if t, ok := raw["type"]; ok {
		if err := json.Unmarshal(t, &out.Type); err != nil {
			return fmt.Errorf("%w: type: %v", ErrInvalidDefinition, err)
		}
	}
	for _, n := range messageNumbers(keysOf(raw)) {
		msg := Message{}
		if err := json.Unmarshal(raw[messageKeyPrefix+strconv.Itoa(n)], &msg.Text); err != nil {
			return fmt.Errorf("%w: %s message%d: %v", ErrInvalidDefinition, out.Type, n, err)
		}
		if args, ok := raw[argsKeyPrefix+strconv.Itoa(n)]; ok {
			if err := json.Unmarshal(args, &msg.Args); err != nil {
				return fmt.Errorf("%w: %s args%d: %v", ErrInvalidDefinition, out.Type, n, err)
			}
		}
		out.Messages = append(out.Messages, msg)
	}
	*d = out
	return nil
}

// MarshalJSON encodes the definition back into the messageN/argsN layout.
func (d Definition) MarshalJSON() ([]byte, error) {
	raw := map[string]any{"type": d.Type}
	for i, msg := range d.Messages {
		raw[messageKeyPrefix+strconv.Itoa(i)] = msg.Text
		if len(msg.Args) > 0 {
			raw[argsKeyPrefix+strconv.Itoa(i)] = msg.Args
		}
	}
	return json.Marshal(raw)
}

// UnmarshalYAML mirrors UnmarshalJSON for YAML documents.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	var raw map[string]yaml.Node
	if err := node.Decode(&raw); err != nil {
		return err
	}
	out := Definition{}
	if t, ok := raw["type"]; ok {
		if err := t.Decode(&out.Type); err != nil {
			return fmt.Errorf("%w: type: %v", ErrInvalidDefinition, err)
		}
	}
	for _, n := range messageNumbers(keysOf(raw)) {
		msg := Message{}
		text := raw[messageKeyPrefix+strconv.Itoa(n)]
		if err := text.Decode(&msg.Text); err != nil {
			return fmt.Errorf("%w: %s message%d: %v", ErrInvalidDefinition, out.Type, n, err)
		}
		if args, ok := raw[argsKeyPrefix+strconv.Itoa(n)]; ok {
			if err := args.Decode(&msg.Args); err != nil {
				return fmt.Errorf("%w: %s args%d: %v", ErrInvalidDefinition, out.Type, n, err)
			}
		}
		out.Messages = append(out.Messages, msg)
	}
	*d = out
	return nil
}

// UnmarshalJSON decodes a [label, value] pair.
func (o *Option) UnmarshalJSON(data []byte) error {
	var pair []json.RawMessage
	if err := json.Unmarshal(data, &pair); err != nil {
		return fmt.Errorf("%w: option must be a [label, value] pair", ErrInvalidDefinition)
	}
	if len(pair) != 2 {
		return fmt.Errorf("%w: option has %d elements, want 2", ErrInvalidDefinition, len(pair))
	}
	var out Option
	if err := json.Unmarshal(pair[0], &out.Label); err != nil {
		return err
	}
	if err := json.Unmarshal(pair[1], &out.Value); err != nil {
		return fmt.Errorf("%w: option value: %v", ErrInvalidDefinition, err)
	}
	*o = out
	return nil
}

// MarshalJSON encodes the option as a [label, value] pair.
func (o Option) MarshalJSON() ([]byte, error) {
	return json.Marshal([]any{o.Label, o.Value})
}

// UnmarshalYAML decodes a [label, value] sequence.
func (o *Option) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.SequenceNode || len(node.Content) != 2 {
		return fmt.Errorf("%w: option must be a [label, value] pair (line %d)", ErrInvalidDefinition, node.Line)
	}
	var out Option
	if err := node.Content[0].Decode(&out.Label); err != nil {
		return err
	}
	if err := node.Content[1].Decode(&out.Value); err != nil {
		return fmt.Errorf("%w: option value: %v", ErrInvalidDefinition, err)
	}
	*o = out
	return nil
}

// UnmarshalJSON accepts either a string or an image object.
func (l *Label) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*l = Label{Text: text}
		return nil
	}
	var img Image
	if err := json.Unmarshal(data, &img); err != nil {
		return fmt.Errorf("%w: option label must be text or an image", ErrInvalidDefinition)
	}
	*l = Label{Image: &img}
	return nil
}

// MarshalJSON encodes the label as text or as an image object.
func (l Label) MarshalJSON() ([]byte, error) {
	if l.Image != nil {
		return json.Marshal(l.Image)
	}
	return json.Marshal(l.Text)
}

// UnmarshalYAML accepts either a scalar or an image mapping.
func (l *Label) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*l = Label{Text: node.Value}
		return nil
	case yaml.MappingNode:
		var img Image
		if err := node.Decode(&img); err != nil {
			return err
		}
		*l = Label{Image: &img}
		return nil
	default:
		return fmt.Errorf("%w: option label must be text or an image (line %d)", ErrInvalidDefinition, node.Line)
	}
}

func keysOf[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}

// messageNumbers returns the N of every messageN key, ascending.
func messageNumbers(keys []string) []int {
	var nums []int
	for _, k := range keys {
		rest, ok := strings.CutPrefix(k, messageKeyPrefix)
		if !ok || rest == "" {
			continue
		}
		n, err := strconv.Atoi(rest)
		// Only canonical numbers: message01 is not message1.
		if err != nil || n < 0 || strconv.Itoa(n) != rest {
			continue
		}
		nums = append(nums, n)
	}
	sort.Ints(nums)
	return nums
}
