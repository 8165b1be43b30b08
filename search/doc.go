// Package search provides ranked, bleve-backed search over toolbox blocks.
//
// The index package answers "which blocks match" with an unranked trigram
// set. This package answers "which blocks match best": it indexes the same
// extracted block text in an in-memory bleve index and scores hits with
// bleve's default TF-IDF/BM25-style similarity.
//
// # Usage
//
// Build documents from toolbox blocks and search them:
//
//	docs := search.Docs(block.Flatten(toolbox), block.Standard())
//	searcher := search.NewBleveSearcher(search.Config{})
//	defer searcher.Close()
//
//	results, err := searcher.Search(ctx, "create list", 10, docs)
//
// # Analysis
//
// Block text is cut into words by the unicode tokenizer, lower-cased and
// expanded into edge n-grams, so a partially typed word ("constr") matches
// the block containing the full word. Queries are not expanded and all query
// words must match. A query equal to a block type ("lists_sort") also
// matches that block directly, boosted by [Config.TypeBoost].
//
// # Configuration
//
//	cfg := search.Config{
//	    TypeBoost:     2,    // Boost exact type matches (default: 2)
//	    MaxGram:       20,   // Longest indexed prefix (default: 20)
//	    MaxDocs:       1000, // Limit documents to index (0 = unlimited)
//	    MaxDocTextLen: 2000, // Truncate long block text (0 = unlimited)
//	}
//
// # Thread Safety
//
// BleveSearcher is safe for concurrent use. It caches the bleve index keyed
// by a fingerprint of the documents and only rebuilds when they change.
//
// # Behavior
//
// Empty queries return the first N documents in document order with a zero
// score. Non-empty queries are ordered by score descending, then ID ascending.
package search
