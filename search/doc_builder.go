package search

import (
	"fmt"

	"github.com/jonwraymond/toolboxsearch/block"
	"github.com/jonwraymond/toolboxsearch/index"
)

// Doc is one searchable block.
type Doc struct {
	// ID is unique within a document set. Docs assigns zero-padded
	// positions so ID order is document order.
	ID string
	// Type is the block type, e.g. lists_sort.
	Type string
	// Text is the lower-cased search text (see index.Extract).
	Text string
	// Block is the toolbox entry the document was built from.
	Block *block.Info
}

// Result is a ranked hit.
type Result struct {
	Doc   Doc
	Score float64
}

// Docs builds documents for toolbox blocks. Entries that are not blocks are
// skipped; defs may be nil.
func Docs(blocks []*block.Info, defs block.DefinitionSource) []Doc {
	return AppendDocs(make([]Doc, 0, len(blocks)), blocks, defs)
}

// AppendDocs appends documents for blocks to docs, continuing its ID
// sequence, and returns the extended slice.
func AppendDocs(docs []Doc, blocks []*block.Info, defs block.DefinitionSource) []Doc {
	for _, info := range blocks {
		if !info.IsBlock() {
			continue
		}
		docs = append(docs, Doc{
			ID:    fmt.Sprintf("%06d", len(docs)),
			Type:  info.Type,
			Text:  index.Extract(info, defs),
			Block: info,
		})
	}
	return docs
}
