// Package index provides a trigram search index over toolbox blocks.
//
// The index answers the question "which blocks could the user mean by what
// they have typed so far". Each block's search text is extracted from its
// type, its definition's message templates, its dropdown options and its
// shadow inputs (see [Extract]), lower-cased, and cut into overlapping
// three-character windows (see [GenerateTrigrams]). Each window maps to the
// set of blocks containing it.
//
// # Usage
//
//	searcher := index.NewBlockSearcher(index.Options{
//	    Definitions: block.Standard(),
//	})
//	searcher.IndexBlocks(block.Flatten(toolbox))
//
//	matches := searcher.BlockTypesMatching("list from text")
//
// # Matching
//
// A query is cut into trigrams the same way. All but the last must be
// present in a block's text, in any order. The last one is matched as a
// prefix of the block's trigrams, so a query for "create li" finds a block
// whose text contains "list". Results are not ranked; they come back in the
// order blocks were indexed. See the search package for ranked results.
//
// # Thread Safety
//
// BlockSearcher performs no locking. Wrap it (the registry package does) if
// it is shared between goroutines.
package index
