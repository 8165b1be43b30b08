package block

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sortJSON = `{
  "type": "lists_sort",
  "message0": "sort %1 %2 %3",
  "args0": [
    {"type": "field_dropdown", "name": "TYPE", "options": [
      ["numeric", "NUMERIC"],
      ["alphabetic", "TEXT"]
    ]},
    {"type": "field_dropdown", "name": "DIRECTION", "options": [
      [{"src": "up.svg", "width": 15, "height": 15, "alt": "ascending"}, "1"],
      [{"src": "down.svg", "width": 15, "height": 15, "alt": "descending"}, "-1"]
    ]},
    {"type": "input_value", "name": "LIST", "check": "Array"}
  ],
  "output": "Array",
  "colour": 260
}`

func TestDefinition_UnmarshalJSON(t *testing.T) {
	var def Definition
	require.NoError(t, json.Unmarshal([]byte(sortJSON), &def))

	assert.Equal(t, "lists_sort", def.Type)
	require.Len(t, def.Messages, 1)
	msg := def.Messages[0]
	assert.Equal(t, "sort %1 %2 %3", msg.Text)
	require.Len(t, msg.Args, 3)

	typeArg := msg.Args[0]
	assert.Equal(t, FieldDropdown, typeArg.Type)
	assert.Equal(t, "TYPE", typeArg.Name)
	assert.Equal(t, []Option{
		{Label: Label{Text: "numeric"}, Value: "NUMERIC"},
		{Label: Label{Text: "alphabetic"}, Value: "TEXT"},
	}, typeArg.Options)

	dir := msg.Args[1].Options[0]
	require.NotNil(t, dir.Label.Image)
	assert.Equal(t, "up.svg", dir.Label.Image.Src)
	assert.Equal(t, 15, dir.Label.Image.Width)
	assert.Equal(t, "ascending", dir.Label.SearchText())
	assert.Equal(t, "1", dir.Value)

	assert.Equal(t, InputValue, msg.Args[2].Type)
}

func TestDefinition_MessagesOrderedByNumber(t *testing.T) {
	data := `{"type": "x", "message10": "ten", "message2": "two", "args2": [], "message0": "zero", "messageX": "skip"}`

	var def Definition
	require.NoError(t, json.Unmarshal([]byte(data), &def))

	var texts []string
	for _, m := range def.Messages {
		texts = append(texts, m.Text)
	}
	assert.Equal(t, []string{"zero", "two", "ten"}, texts)
}

func TestDefinition_NonCanonicalMessageKeysIgnored(t *testing.T) {
	var fromJSON Definition
	require.NoError(t, json.Unmarshal([]byte(`{"type":"x","message0":"hello world","message01":"other","message+1":"plus"}`), &fromJSON))
	require.Len(t, fromJSON.Messages, 1)
	assert.Equal(t, "hello world", fromJSON.Messages[0].Text)

	var fromYAML Definition
	require.NoError(t, yaml.Unmarshal([]byte("type: x\nmessage01: other\nmessage1: hello world\n"), &fromYAML))
	require.Len(t, fromYAML.Messages, 1)
	assert.Equal(t, "hello world", fromYAML.Messages[0].Text)
}

func TestDefinition_JSONRoundTrip(t *testing.T) {
	var def Definition
	require.NoError(t, json.Unmarshal([]byte(sortJSON), &def))

	data, err := json.Marshal(def)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	assert.Equal(t, "sort %1 %2 %3", raw["message0"])
	assert.NotContains(t, raw, "colour", "only search-relevant keys are kept")

	var again Definition
	require.NoError(t, json.Unmarshal(data, &again))
	assert.Equal(t, def, again)
}

func TestDefinition_UnmarshalYAML(t *testing.T) {
	data := `
type: lists_split
message0: "%1 %2"
args0:
  - type: field_dropdown
    name: MODE
    options:
      - ["make list from text", SPLIT]
      - - src: join.png
          width: 10
          height: 10
          alt: make text from list
        - JOIN
  - type: input_value
    name: INPUT
message1: with delimiter %1
args1:
  - type: input_value
    name: DELIM
`
	var def Definition
	require.NoError(t, yaml.Unmarshal([]byte(data), &def))

	assert.Equal(t, "lists_split", def.Type)
	require.Len(t, def.Messages, 2)
	opts := def.Messages[0].Args[0].Options
	require.Len(t, opts, 2)
	assert.Equal(t, "make list from text", opts[0].Label.SearchText())
	assert.Equal(t, "make text from list", opts[1].Label.SearchText())
	assert.Equal(t, "JOIN", opts[1].Value)
	assert.Equal(t, "with delimiter %1", def.Messages[1].Text)
}

func TestDefinition_InvalidOptions(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"option not a pair", `{"type":"x","message0":"%1","args0":[{"type":"field_dropdown","options":["a"]}]}`},
		{"option too long", `{"type":"x","message0":"%1","args0":[{"type":"field_dropdown","options":[["a","A","extra"]]}]}`},
		{"label is a number", `{"type":"x","message0":"%1","args0":[{"type":"field_dropdown","options":[[1,"A"]]}]}`},
		{"message not a string", `{"type":"x","message0":5}`},
		{"type not a string", `{"type":7}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var def Definition
			err := json.Unmarshal([]byte(tt.data), &def)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidDefinition)
		})
	}
}

func TestOption_YAMLRejectsMapping(t *testing.T) {
	var opts []Option
	err := yaml.Unmarshal([]byte("- {label: a, value: A}\n"), &opts)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
}

func TestLabel_SearchText(t *testing.T) {
	assert.Equal(t, "plain", Label{Text: "plain"}.SearchText())
	assert.Equal(t, "", Label{Image: &Image{Src: "a.png"}}.SearchText(), "image without alt has no text")
	assert.Equal(t, "alt", Label{Text: "ignored", Image: &Image{Alt: "alt"}}.SearchText())
}
