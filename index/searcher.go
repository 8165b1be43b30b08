package index

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/jonwraymond/toolboxsearch/block"
)

// Options configures a BlockSearcher.
type Options struct {
	// Definitions resolves block types to the definitions that supply their
	// display text. If nil, blocks are indexed by type and shadow types only.
	Definitions block.DefinitionSource
}

// postingSet is the set of blocks indexed under one trigram.
type postingSet map[*block.Info]struct{}

// BlockSearcher is a trigram index over toolbox blocks. It is append-only:
// blocks are added with IndexBlocks and never removed. Build a new searcher
// to start over.
//
// BlockSearcher does no locking. Callers sharing one across goroutines must
// serialise IndexBlocks against everything else.
type BlockSearcher struct {
	defs     block.DefinitionSource
	postings map[string]postingSet
	// order records when each block was first indexed so results come back
	// in a stable order.
	order map[*block.Info]int
}

// NewBlockSearcher creates an empty searcher.
func NewBlockSearcher(opts ...Options) *BlockSearcher {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	return &BlockSearcher{
		defs:     o.Definitions,
		postings: make(map[string]postingSet),
		order:    make(map[*block.Info]int),
	}
}

// IndexBlocks adds blocks to the index. Blocks without any extractable text
// and nil entries are skipped. Indexing the same block twice is a no-op
// apart from picking up text from definitions added in between.
func (s *BlockSearcher) IndexBlocks(blocks []*block.Info) {
	for _, info := range blocks {
		if info == nil {
			continue
		}
		trigrams := GenerateTrigrams(Extract(info, s.defs))
		if len(trigrams) == 0 {
			continue
		}
		if _, seen := s.order[info]; !seen {
			s.order[info] = len(s.order)
		}
		for _, t := range trigrams {
			set, ok := s.postings[t]
			if !ok {
				set = make(postingSet)
				s.postings[t] = set
			}
			set[info] = struct{}{}
		}
	}
}

// BlockTypesMatching returns the indexed blocks matching query.
//
// Every trigram of the query except the last must appear in a block's text.
// The last trigram may be a word the user has not finished typing, so it
// only has to be a prefix of one of the block's trigrams. Matching is
// case-insensitive. The result is ordered by when blocks were first indexed
// and is empty, never nil, when nothing matches.
func (s *BlockSearcher) BlockTypesMatching(query string) []*block.Info {
	trigrams := GenerateTrigrams(strings.ToLower(query))
	if len(trigrams) == 0 {
		return []*block.Info{}
	}

	last := trigrams[len(trigrams)-1]
	candidates := s.prefixMatches(last)
	for _, t := range trigrams[:len(trigrams)-1] {
		if len(candidates) == 0 {
			break
		}
		set := s.postings[t]
		for info := range candidates {
			if _, ok := set[info]; !ok {
				delete(candidates, info)
			}
		}
	}

	return s.sorted(candidates)
}

// prefixMatches returns a fresh set of the blocks indexed under any key
// starting with prefix. A full-length prefix can only equal a key, so that
// case is a single lookup; shorter prefixes scan every key.
func (s *BlockSearcher) prefixMatches(prefix string) postingSet {
	out := make(postingSet)
	if utf8.RuneCountInString(prefix) >= trigramLen {
		for info := range s.postings[prefix] {
			out[info] = struct{}{}
		}
		return out
	}
	for key, set := range s.postings {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		for info := range set {
			out[info] = struct{}{}
		}
	}
	return out
}

func (s *BlockSearcher) sorted(set postingSet) []*block.Info {
	out := make([]*block.Info, 0, len(set))
	for info := range set {
		out = append(out, info)
	}
	sort.Slice(out, func(i, j int) bool {
		return s.order[out[i]] < s.order[out[j]]
	})
	return out
}

// Len returns the number of distinct blocks indexed.
func (s *BlockSearcher) Len() int {
	return len(s.order)
}

// Trigrams returns the number of distinct index keys.
func (s *BlockSearcher) Trigrams() int {
	return len(s.postings)
}

// Blocks returns the indexed blocks in the order they were first indexed.
func (s *BlockSearcher) Blocks() []*block.Info {
	all := make(postingSet, len(s.order))
	for info := range s.order {
		all[info] = struct{}{}
	}
	return s.sorted(all)
}
