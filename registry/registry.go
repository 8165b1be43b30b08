package registry

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/jonwraymond/toolboxsearch/block"
	"github.com/jonwraymond/toolboxsearch/index"
	"github.com/jonwraymond/toolboxsearch/search"
)

const defaultCacheSize = 256

// Config configures a Registry.
type Config struct {
	ServerInfo ServerInfo
	// Definitions supplies block display text. If nil, an empty library is
	// created; add to it with Define.
	Definitions *block.Library
	// SearchConfig configures ranked search. If nil, defaults are used.
	SearchConfig *search.Config
	// CacheSize is the number of match results kept. 0 selects the default
	// (256); a negative value disables caching.
	CacheSize int
	// Logger receives debug and info logs. If nil, logs are discarded.
	Logger *slog.Logger
}

// ServerInfo describes this MCP server for initialize response.
type ServerInfo struct {
	Name    string
	Version string
}

// Registry owns a block search index and makes it safe for concurrent use:
// IndexBlocks and Define take the write lock, queries share the read lock.
// It also serves the index over MCP.
type Registry struct {
	mu      sync.RWMutex
	config  Config
	library *block.Library
	matcher *index.BlockSearcher
	ranker  *search.BleveSearcher
	blocks  []*block.Info
	seen    map[*block.Info]struct{}
	docs    []search.Doc
	cache   *lru.Cache[string, []*block.Info]
	tools   map[string]tool
	logger  *slog.Logger
	closed  bool
}

// New creates a Registry with the given config.
func New(cfg Config) (*Registry, error) {
	lib := cfg.Definitions
	if lib == nil {
		lib = block.NewLibrary()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	searchCfg := search.Config{}
	if cfg.SearchConfig != nil {
		searchCfg = *cfg.SearchConfig
	}

	r := &Registry{
		config:  cfg,
		library: lib,
		matcher: index.NewBlockSearcher(index.Options{Definitions: lib}),
		ranker:  search.NewBleveSearcher(searchCfg),
		seen:    make(map[*block.Info]struct{}),
		logger:  logger,
	}

	size := cfg.CacheSize
	if size == 0 {
		size = defaultCacheSize
	}
	if size > 0 {
		cache, err := lru.New[string, []*block.Info](size)
		if err != nil {
			return nil, fmt.Errorf("create match cache: %w", err)
		}
		r.cache = cache
	}

	tools, err := builtinTools(r)
	if err != nil {
		return nil, err
	}
	r.tools = tools
	return r, nil
}

// Define adds block definitions. Text from a definition is only picked up
// by blocks indexed after it is defined.
func (r *Registry) Define(defs ...block.Definition) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if err := r.library.Define(defs...); err != nil {
		return err
	}
	r.logger.Debug("definitions added", "count", len(defs), "total", r.library.Len())
	return nil
}

// IndexBlocks indexes toolbox entries. Categories are walked and their
// blocks indexed; a block already indexed is not added twice. It returns the
// number of newly indexed blocks.
func (r *Registry) IndexBlocks(items ...*block.Info) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return 0, ErrClosed
	}

	var fresh []*block.Info
	for _, info := range block.Flatten(items) {
		if _, ok := r.seen[info]; ok {
			continue
		}
		r.seen[info] = struct{}{}
		fresh = append(fresh, info)
	}
	if len(fresh) == 0 {
		return 0, nil
	}

	r.matcher.IndexBlocks(fresh)
	r.blocks = append(r.blocks, fresh...)
	r.docs = search.AppendDocs(r.docs, fresh, r.library)
	if r.cache != nil {
		r.cache.Purge()
	}
	r.logger.Info("blocks indexed",
		"added", len(fresh),
		"blocks", r.matcher.Len(),
		"trigrams", r.matcher.Trigrams())
	return len(fresh), nil
}

// Match returns the indexed blocks whose text matches query (see
// index.BlockSearcher.BlockTypesMatching). The returned slice belongs to
// the caller.
func (r *Registry) Match(ctx context.Context, query string) ([]*block.Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := strings.ToLower(query)

	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil, ErrClosed
	}

	if r.cache != nil {
		if hit, ok := r.cache.Get(key); ok {
			return cloneInfos(hit), nil
		}
	}
	matches := r.matcher.BlockTypesMatching(key)
	if r.cache != nil {
		r.cache.Add(key, matches)
	}
	r.logger.Debug("match", "query", query, "results", len(matches))
	return cloneInfos(matches), nil
}

// Rank returns up to limit blocks matching query, best first.
func (r *Registry) Rank(ctx context.Context, query string, limit int) ([]search.Result, error) {
	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return nil, ErrClosed
	}
	docs := r.docs
	r.mu.RUnlock()

	results, err := r.ranker.Search(ctx, query, limit, docs)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("rank", "query", query, "limit", limit, "results", len(results))
	return results, nil
}

// Describe returns the definition of a block type.
func (r *Registry) Describe(ctx context.Context, blockType string) (block.Definition, error) {
	if err := ctx.Err(); err != nil {
		return block.Definition{}, err
	}
	r.mu.RLock()
	closed := r.closed
	r.mu.RUnlock()
	if closed {
		return block.Definition{}, ErrClosed
	}
	def, ok := r.library.Lookup(blockType)
	if !ok {
		return block.Definition{}, fmt.Errorf("%w: %s", ErrBlockNotFound, blockType)
	}
	return def, nil
}

// Blocks returns all indexed blocks in indexing order. It returns nil after
// Close.
func (r *Registry) Blocks() []*block.Info {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return nil
	}
	return cloneInfos(r.blocks)
}

// Stats describes the registry contents.
type Stats struct {
	Blocks        int
	Trigrams      int
	Definitions   int
	CachedQueries int
}

// Stats returns registry statistics. It returns zero Stats after Close.
func (r *Registry) Stats() Stats {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return Stats{}
	}

	st := Stats{
		Blocks:      r.matcher.Len(),
		Trigrams:    r.matcher.Trigrams(),
		Definitions: r.library.Len(),
	}
	if r.cache != nil {
		st.CachedQueries = r.cache.Len()
	}
	return st
}

// Close releases the ranked search index. Later calls that return an error
// fail with ErrClosed; Blocks and Stats report an empty registry.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil
	}
	r.closed = true
	if r.cache != nil {
		r.cache.Purge()
	}
	return r.ranker.Close()
}

func cloneInfos(in []*block.Info) []*block.Info {
	out := make([]*block.Info, len(in))
	copy(out, in)
	return out
}
