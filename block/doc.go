// Package block models toolbox entries and the block definitions that give
// them display text.
//
// A toolbox is a tree of [Info] entries: categories hold contents, block
// entries name a block type and may carry shadow stubs for their inputs.
// A [Definition] is the JSON block-definition schema (type, message0/args0,
// message1/args1, ...) that supplies the words a user sees on the block.
// Definitions are looked up through a [DefinitionSource]; [Library] is the
// in-memory implementation and [Standard] returns one preloaded with a small
// set of built-in blocks.
//
// # Loading
//
// Definitions and toolboxes can be decoded from JSON or YAML:
//
//	defs, err := block.LoadDefinitions("blocks.json")
//	lib := block.NewLibrary(defs...)
//
//	items, err := block.LoadToolbox("toolbox.yaml")
//	blocks := block.Flatten(items)
//
// Dropdown options are [label, value] pairs whose label is either text or an
// image object; image labels keep their alt text, which is what search uses.
package block
