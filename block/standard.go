package block

import (
	_ "embed"
	"fmt"
)

//go:embed standard.json
var standardJSON []byte

// StandardDefinitions returns the embedded definitions of a small set of
// built-in blocks (control flow, logic, math, text and lists).
func StandardDefinitions() ([]Definition, error) {
	defs, err := ParseDefinitions(standardJSON, FormatJSON)
	if err != nil {
		return nil, fmt.Errorf("standard definitions: %w", err)
	}
	return defs, nil
}

// Standard returns a new library holding the standard definitions.
func Standard() *Library {
	defs, err := StandardDefinitions()
	if err != nil {
		// The embedded file is covered by tests.
		panic(err)
	}
	return NewLibrary(defs...)
}
