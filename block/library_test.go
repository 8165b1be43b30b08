package block

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibrary_DefineAndLookup(t *testing.T) {
	lib := NewLibrary(Definition{Type: "b"}, Definition{Type: ""}, Definition{Type: "a"})
	assert.Equal(t, 2, lib.Len(), "invalid seed definitions are ignored")
	assert.Equal(t, []string{"a", "b"}, lib.Types())

	_, ok := lib.Lookup("missing")
	assert.False(t, ok)

	require.NoError(t, lib.Define(Definition{Type: "a", Messages: []Message{{Text: "replaced"}}}))
	def, ok := lib.Lookup("a")
	require.True(t, ok)
	assert.Equal(t, "replaced", def.Messages[0].Text)
}

func TestLibrary_DefineIsAllOrNothing(t *testing.T) {
	lib := NewLibrary()
	err := lib.Define(Definition{Type: "ok"}, Definition{Type: "  "})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidDefinition)
	assert.Equal(t, 0, lib.Len())
}

func TestLibrary_Concurrent(t *testing.T) {
	lib := NewLibrary()
	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = lib.Define(Definition{Type: string(rune('a' + i))})
		}()
		go func() {
			defer wg.Done()
			lib.Lookup("a")
			lib.Types()
		}()
	}
	wg.Wait()
	assert.Equal(t, 16, lib.Len())
}

func TestStandard(t *testing.T) {
	lib := Standard()
	for _, typ := range []string{"lists_sort", "lists_split", "math_constrain", "text_replace", "controls_if"} {
		_, ok := lib.Lookup(typ)
		assert.True(t, ok, "standard library should define %s", typ)
	}

	def, _ := lib.Lookup("lists_split")
	require.Len(t, def.Messages, 2)
	assert.Equal(t, "make list from text", def.Messages[0].Args[0].Options[0].Label.SearchText())

	// Each call returns an independent library.
	require.NoError(t, lib.Define(Definition{Type: "custom"}))
	_, ok := Standard().Lookup("custom")
	assert.False(t, ok)
}

func TestInfo_IsBlock(t *testing.T) {
	assert.True(t, (&Info{Kind: KindBlock, Type: "x"}).IsBlock())
	assert.True(t, (&Info{Type: "x"}).IsBlock(), "kind defaults to block when a type is set")
	assert.False(t, (&Info{Kind: KindCategory, Name: "Lists"}).IsBlock())
	assert.False(t, (&Info{}).IsBlock())
	assert.False(t, (*Info)(nil).IsBlock())
}

func TestInfo_ShadowTypes(t *testing.T) {
	info := &Info{
		Kind: KindBlock,
		Type: "text_replace",
		Inputs: map[string]*Input{
			"TO":   {Shadow: &Info{Type: "text_join"}},
			"FROM": {Shadow: &Info{Type: "text"}},
			"TEXT": {Block: &Info{Type: "variables_get"}},
			"NIL":  nil,
		},
	}
	assert.Equal(t, []string{"text", "text_join"}, info.ShadowTypes())
	assert.Nil(t, (&Info{}).ShadowTypes())
}

func TestFlatten(t *testing.T) {
	a := &Info{Kind: KindBlock, Type: "a"}
	b := &Info{Kind: KindBlock, Type: "b"}
	c := &Info{Type: "c"}
	items := []*Info{
		{Kind: KindLabel, Name: "Start"},
		{Kind: KindCategory, Name: "One", Contents: []*Info{
			a,
			{Kind: KindSep},
			{Kind: KindCategory, Name: "Nested", Contents: []*Info{b}},
		}},
		nil,
		c,
	}

	got := Flatten(items)
	require.Len(t, got, 3)
	assert.Same(t, a, got[0])
	assert.Same(t, b, got[1])
	assert.Same(t, c, got[2])
	assert.Empty(t, Flatten(nil))
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"blocks.json", FormatJSON},
		{"dir/blocks.YAML", FormatYAML},
		{"toolbox.yml", FormatYAML},
	}
	for _, tt := range tests {
		got, err := FormatFromPath(tt.path)
		require.NoError(t, err, tt.path)
		assert.Equal(t, tt.want, got, tt.path)
	}

	_, err := FormatFromPath("blocks.xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseDefinitions(t *testing.T) {
	defs, err := ParseDefinitions([]byte(`[{"type":"a","message0":"alpha"},{"type":"b"}]`), FormatJSON)
	require.NoError(t, err)
	require.Len(t, defs, 2)
	assert.Equal(t, "alpha", defs[0].Messages[0].Text)

	_, err = ParseDefinitions([]byte(`[{"message0":"no type"}]`), FormatJSON)
	assert.ErrorIs(t, err, ErrInvalidDefinition)

	_, err = ParseDefinitions([]byte(`[]`), Format("xml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestParseToolbox(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		items, err := ParseToolbox([]byte(`{"kind":"categoryToolbox","contents":[{"kind":"category","name":"L","contents":[{"kind":"block","type":"lists_sort"}]}]}`), FormatJSON)
		require.NoError(t, err)
		blocks := Flatten(items)
		require.Len(t, blocks, 1)
		assert.Equal(t, "lists_sort", blocks[0].Type)
	})

	t.Run("list", func(t *testing.T) {
		data := `
- kind: block
  type: text_replace
  inputs:
    FROM:
      shadow:
        kind: block
        type: text
- kind: sep
- kind: block
  type: text_print
`
		items, err := ParseToolbox([]byte(data), FormatYAML)
		require.NoError(t, err)
		blocks := Flatten(items)
		require.Len(t, blocks, 2)
		assert.Equal(t, []string{"text"}, blocks[0].ShadowTypes())
	})

	t.Run("empty", func(t *testing.T) {
		items, err := ParseToolbox([]byte("  \n"), FormatJSON)
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseToolbox([]byte(`"just a string"`), FormatJSON)
		assert.Error(t, err)
	})

	t.Run("bad entry in list", func(t *testing.T) {
		_, err := ParseToolbox([]byte(`[{"kind":"block","type":"text"},{"kind":7}]`), FormatJSON)
		require.Error(t, err)
		assert.NotContains(t, err.Error(), "block.Info", "the list error is reported, not an object decode error")
		assert.Contains(t, err.Error(), "string")

		_, err = ParseToolbox([]byte("- kind: block\n  type: text\n- kind: [a, b]\n"), FormatYAML)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "line 3")
	})
}

func TestLoadFiles(t *testing.T) {
	dir := t.TempDir()
	defsPath := filepath.Join(dir, "defs.yaml")
	require.NoError(t, os.WriteFile(defsPath, []byte("- type: robot_move\n  message0: move %1\n"), 0o644))
	toolboxPath := filepath.Join(dir, "toolbox.json")
	require.NoError(t, os.WriteFile(toolboxPath, []byte(`[{"kind":"block","type":"robot_move"}]`), 0o644))

	defs, err := LoadDefinitions(defsPath)
	require.NoError(t, err)
	require.Len(t, defs, 1)
	assert.Equal(t, "move %1", defs[0].Messages[0].Text)

	items, err := LoadToolbox(toolboxPath)
	require.NoError(t, err)
	require.Len(t, items, 1)

	_, err = LoadDefinitions(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = LoadToolbox(filepath.Join(dir, "toolbox.txt"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
