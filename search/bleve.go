package search

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/custom"
	"github.com/blevesearch/bleve/v2/analysis/token/edgengram"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	unicodetok "github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"
	"github.com/blevesearch/bleve/v2/mapping"
	"github.com/blevesearch/bleve/v2/search/query"
)

const (
	textField = "text"
	typeField = "type"

	edgeFilterName    = "block_edge_ngram"
	textAnalyzerName  = "block_text"
	queryAnalyzerName = "block_query"

	defaultTypeBoost = 2.0
	defaultMaxGram   = 20
)

// ErrClosed is returned by Search after Close.
var ErrClosed = errors.New("searcher is closed")

// Config configures a BleveSearcher. Zero values select defaults.
type Config struct {
	// TypeBoost weights a query that equals a block type. Default: 2.
	TypeBoost float64
	// MaxGram is the longest word prefix indexed. Default: 20.
	MaxGram int
	// MaxDocs caps the number of documents indexed (0 = unlimited).
	MaxDocs int
	// MaxDocTextLen truncates document text to this many bytes, on a rune
	// boundary (0 = unlimited).
	MaxDocTextLen int
}

func (c Config) withDefaults() Config {
	if c.TypeBoost <= 0 {
		c.TypeBoost = defaultTypeBoost
	}
	if c.MaxGram <= 0 {
		c.MaxGram = defaultMaxGram
	}
	return c
}

// BleveSearcher ranks block documents with an in-memory bleve index.
type BleveSearcher struct {
	mu          sync.RWMutex
	cfg         Config
	idx         bleve.Index
	fingerprint string
	byID        map[string]Doc
	closed      bool
}

// NewBleveSearcher creates a searcher. The bleve index is built lazily on
// the first Search.
func NewBleveSearcher(cfg Config) *BleveSearcher {
	return &BleveSearcher{cfg: cfg.withDefaults()}
}

// Search returns up to limit documents matching query, best first. A limit
// of zero or less means no limit.
func (s *BleveSearcher) Search(ctx context.Context, q string, limit int, docs []Doc) ([]Result, error) {
	docs = s.capDocs(docs)
	if limit <= 0 || limit > len(docs) {
		limit = len(docs)
	}
	if strings.TrimSpace(q) == "" {
		s.mu.RLock()
		closed := s.closed
		s.mu.RUnlock()
		if closed {
			return nil, ErrClosed
		}
		results := make([]Result, 0, limit)
		for _, doc := range docs[:limit] {
			results = append(results, Result{Doc: doc})
		}
		return results, nil
	}
	if limit == 0 {
		return []Result{}, nil
	}

	if err := s.ensureIndex(docs); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, ErrClosed
	}

	req := bleve.NewSearchRequestOptions(s.buildQuery(q), limit, 0, false)
	res, err := s.idx.SearchInContext(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}

	results := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		doc, ok := s.byID[hit.ID]
		if !ok {
			continue
		}
		results = append(results, Result{Doc: doc, Score: hit.Score})
	}
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Doc.ID < results[j].Doc.ID
	})
	return results, nil
}

// Close releases the bleve index. Further searches fail with ErrClosed.
func (s *BleveSearcher) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.idx != nil {
		err := s.idx.Close()
		s.idx = nil
		return err
	}
	return nil
}

func (s *BleveSearcher) buildQuery(q string) query.Query {
	text := bleve.NewMatchQuery(q)
	text.SetField(textField)
	text.Analyzer = queryAnalyzerName
	text.SetOperator(query.MatchQueryOperatorAnd)

	exactType := bleve.NewTermQuery(strings.ToLower(strings.TrimSpace(q)))
	exactType.SetField(typeField)
	exactType.SetBoost(s.cfg.TypeBoost)

	return bleve.NewDisjunctionQuery(text, exactType)
}

func (s *BleveSearcher) capDocs(docs []Doc) []Doc {
	if s.cfg.MaxDocs > 0 && len(docs) > s.cfg.MaxDocs {
		return docs[:s.cfg.MaxDocs]
	}
	return docs
}

// ensureIndex rebuilds the bleve index when the document set has changed.
func (s *BleveSearcher) ensureIndex(docs []Doc) error {
	fp := computeFingerprint(docs)

	s.mu.RLock()
	fresh := s.idx != nil && s.fingerprint == fp
	closed := s.closed
	s.mu.RUnlock()
	if closed {
		return ErrClosed
	}
	if fresh {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.idx != nil && s.fingerprint == fp {
		return nil
	}

	idx, err := s.buildIndex(docs)
	if err != nil {
		return err
	}
	if s.idx != nil {
		_ = s.idx.Close()
	}
	s.idx = idx
	s.fingerprint = fp
	s.byID = make(map[string]Doc, len(docs))
	for _, doc := range docs {
		s.byID[doc.ID] = doc
	}
	return nil
}

func (s *BleveSearcher) buildIndex(docs []Doc) (bleve.Index, error) {
	m, err := s.indexMapping()
	if err != nil {
		return nil, err
	}
	idx, err := bleve.NewMemOnly(m)
	if err != nil {
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	batch := idx.NewBatch()
	for _, doc := range docs {
		fields := map[string]any{
			// Keyword fields are not analyzed; lower-case to match buildQuery.
			typeField: strings.ToLower(doc.Type),
			textField: truncateText(doc.Text, s.cfg.MaxDocTextLen),
		}
		if err := batch.Index(doc.ID, fields); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("failed to index document %s: %w", doc.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("failed to execute batch: %w", err)
	}
	return idx, nil
}

// indexMapping indexes block text as edge n-grams and the block type as a
// single keyword term.
func (s *BleveSearcher) indexMapping() (*mapping.IndexMappingImpl, error) {
	m := bleve.NewIndexMapping()

	err := m.AddCustomTokenFilter(edgeFilterName, map[string]any{
		"type": edgengram.Name,
		"back": false,
		"min":  1.0,
		"max":  float64(s.cfg.MaxGram),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add edge n-gram filter: %w", err)
	}

	err = m.AddCustomAnalyzer(textAnalyzerName, map[string]any{
		"type":          custom.Name,
		"tokenizer":     unicodetok.Name,
		"token_filters": []string{lowercase.Name, edgeFilterName},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add text analyzer: %w", err)
	}

	err = m.AddCustomAnalyzer(queryAnalyzerName, map[string]any{
		"type":          custom.Name,
		"tokenizer":     unicodetok.Name,
		"token_filters": []string{lowercase.Name},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add query analyzer: %w", err)
	}

	textMapping := bleve.NewTextFieldMapping()
	textMapping.Analyzer = textAnalyzerName
	typeMapping := bleve.NewKeywordFieldMapping()

	docMapping := bleve.NewDocumentMapping()
	docMapping.AddFieldMappingsAt(textField, textMapping)
	docMapping.AddFieldMappingsAt(typeField, typeMapping)

	m.DefaultMapping = docMapping
	m.DefaultAnalyzer = textAnalyzerName
	return m, nil
}

// truncateText cuts text to at most n bytes without splitting a rune.
// n <= 0 means no limit.
func truncateText(text string, n int) string {
	if n <= 0 || len(text) <= n {
		return text
	}
	for n > 0 && !utf8.RuneStart(text[n]) {
		n--
	}
	return text[:n]
}
