package block

import "sort"

// Toolbox entry kinds.
const (
	KindBlock    = "block"
	KindCategory = "category"
	KindSep      = "sep"
	KindLabel    = "label"
)

// Info is one toolbox entry. Block entries are the descriptors the search
// index stores; they are compared by pointer identity and never mutated.
type Info struct {
	Kind     string            `json:"kind" yaml:"kind"`
	Type     string            `json:"type,omitempty" yaml:"type,omitempty"`
	Name     string            `json:"name,omitempty" yaml:"name,omitempty"`
	Inputs   map[string]*Input `json:"inputs,omitempty" yaml:"inputs,omitempty"`
	Fields   map[string]any    `json:"fields,omitempty" yaml:"fields,omitempty"`
	Contents []*Info           `json:"contents,omitempty" yaml:"contents,omitempty"`
}

// Input is the value plugged into a block input in the toolbox.
type Input struct {
	Shadow *Info `json:"shadow,omitempty" yaml:"shadow,omitempty"`
	Block  *Info `json:"block,omitempty" yaml:"block,omitempty"`
}

// IsBlock reports whether the entry is a block. An entry with a type and no
// kind is treated as a block.
func (i *Info) IsBlock() bool {
	if i == nil {
		return false
	}
	return i.Kind == KindBlock || (i.Kind == "" && i.Type != "")
}

// ShadowTypes returns the types of all shadow stubs plugged into the
// block's inputs, sorted by input name.
func (i *Info) ShadowTypes() []string {
	if i == nil || len(i.Inputs) == 0 {
		return nil
	}
	names := keysOf(i.Inputs)
	sort.Strings(names)
	var out []string
	for _, name := range names {
		in := i.Inputs[name]
		if in == nil || in.Shadow == nil || in.Shadow.Type == "" {
			continue
		}
		out = append(out, in.Shadow.Type)
	}
	return out
}

// Flatten walks a toolbox tree and returns its block entries in document
// order. Category, separator and label entries are dropped; blocks nested
// in category contents are kept.
func Flatten(items []*Info) []*Info {
	var out []*Info
	var walk func([]*Info)
	walk = func(items []*Info) {
		for _, item := range items {
			if item == nil {
				continue
			}
			if item.IsBlock() {
				out = append(out, item)
				continue
			}
			walk(item.Contents)
		}
	}
	walk(items)
	return out
}
