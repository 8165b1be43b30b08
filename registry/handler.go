package registry

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Tool names served over MCP.
const (
	ToolSearchBlocks  = "search_blocks"
	ToolRankBlocks    = "rank_blocks"
	ToolDescribeBlock = "describe_block"
)

const defaultRankLimit = 10

// ToolHandler executes a tool with the arguments of an MCP tools/call.
type ToolHandler func(ctx context.Context, args map[string]any) (any, error)

type tool struct {
	def     model.Tool
	handler ToolHandler
}

// BlockResult is the wire form of one block in a tool result.
type BlockResult struct {
	Type  string  `json:"type"`
	Score float64 `json:"score,omitempty"`
}

func builtinTools(r *Registry) (map[string]tool, error) {
	queryProp := map[string]any{
		"type":        "string",
		"description": "Text the user typed, e.g. \"create list\"",
	}
	entries := []tool{
		{
			def: buildTool(ToolSearchBlocks,
				"Find toolbox blocks whose text contains every word of the query. The last word may be partial.",
				objectSchema(map[string]any{"query": queryProp}, "query")),
			handler: r.handleSearchBlocks,
		},
		{
			def: buildTool(ToolRankBlocks,
				"Find toolbox blocks matching the query, best match first.",
				objectSchema(map[string]any{
					"query": queryProp,
					"limit": map[string]any{"type": "integer", "minimum": 1},
				}, "query")),
			handler: r.handleRankBlocks,
		},
		{
			def: buildTool(ToolDescribeBlock,
				"Return the definition of a block type.",
				objectSchema(map[string]any{
					"type": map[string]any{"type": "string", "description": "Block type, e.g. lists_sort"},
				}, "type")),
			handler: r.handleDescribeBlock,
		},
	}

	tools := make(map[string]tool, len(entries))
	for _, t := range entries {
		if err := t.def.Validate(); err != nil {
			return nil, fmt.Errorf("invalid tool %s: %w", t.def.Name, err)
		}
		tools[t.def.ToolID()] = t
	}
	return tools, nil
}

func buildTool(name, description string, inputSchema map[string]any) model.Tool {
	return model.Tool{
		Tool: mcp.Tool{
			Name:        name,
			Description: description,
			InputSchema: inputSchema,
			Annotations: &mcp.ToolAnnotations{ReadOnlyHint: true, IdempotentHint: true},
		},
		Tags: model.NormalizeTags([]string{"blocks", "search"}),
	}
}

func objectSchema(props map[string]any, required ...string) map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": props,
		"required":   required,
	}
}

func (r *Registry) handleSearchBlocks(ctx context.Context, args map[string]any) (any, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return nil, err
	}
	matches, err := r.Match(ctx, query)
	if err != nil {
		return nil, err
	}
	blocks := make([]BlockResult, 0, len(matches))
	for _, info := range matches {
		blocks = append(blocks, BlockResult{Type: info.Type})
	}
	return map[string]any{"blocks": blocks, "count": len(blocks)}, nil
}

func (r *Registry) handleRankBlocks(ctx context.Context, args map[string]any) (any, error) {
	query, err := stringArg(args, "query")
	if err != nil {
		return nil, err
	}
	limit, err := intArg(args, "limit", defaultRankLimit)
	if err != nil {
		return nil, err
	}
	results, err := r.Rank(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	blocks := make([]BlockResult, 0, len(results))
	for _, res := range results {
		blocks = append(blocks, BlockResult{Type: res.Doc.Type, Score: res.Score})
	}
	return map[string]any{"blocks": blocks, "count": len(blocks)}, nil
}

func (r *Registry) handleDescribeBlock(ctx context.Context, args map[string]any) (any, error) {
	blockType, err := stringArg(args, "type")
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(blockType) == "" {
		return nil, fmt.Errorf("%w: type must not be empty", ErrInvalidRequest)
	}
	return r.Describe(ctx, blockType)
}

func stringArg(args map[string]any, name string) (string, error) {
	raw, ok := args[name]
	if !ok {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidRequest, name)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidRequest, name)
	}
	return s, nil
}

// intArg reads an integer argument. JSON numbers arrive as float64.
func intArg(args map[string]any, name string, def int) (int, error) {
	raw, ok := args[name]
	if !ok || raw == nil {
		return def, nil
	}
	var n int
	switch v := raw.(type) {
	case int:
		n = v
	case int64:
		n = int(v)
	case float64:
		if v != math.Trunc(v) {
			return 0, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidRequest, name)
		}
		n = int(v)
	default:
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidRequest, name)
	}
	if n < 1 {
		return 0, fmt.Errorf("%w: %s must be a positive integer", ErrInvalidRequest, name)
	}
	return n, nil
}
