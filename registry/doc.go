// Package registry wraps a block search index for use by a host: it owns
// the block definitions, the trigram index and the ranked searcher, makes
// them safe for concurrent use, caches match results, and serves them as
// MCP tools.
//
// Features:
//   - Definition registration (Define) and toolbox indexing (IndexBlocks)
//   - Trigram matching with an LRU result cache (Match)
//   - Ranked search backed by bleve (Rank)
//   - MCP protocol handlers (initialize, tools/list, tools/call) exposing
//     search_blocks, rank_blocks and describe_block
//   - stdio and HTTP transports
//
// Example usage:
//
//	reg, err := registry.New(registry.Config{
//	    ServerInfo:  registry.ServerInfo{Name: "blocksearch", Version: "1.0.0"},
//	    Definitions: block.Standard(),
//	})
//	if err != nil {
//	    return err
//	}
//	defer reg.Close()
//
//	if _, err := reg.IndexBlocks(toolbox...); err != nil {
//	    return err
//	}
//	matches, err := reg.Match(ctx, "create list")
//
//	registry.ServeStdio(ctx, reg, os.Stdin, os.Stdout)
//
// There is no package-level registry; hosts create one and decide how it is
// shared.
package registry
