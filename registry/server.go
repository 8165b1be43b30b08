package registry

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

var _ RequestHandler = (*Registry)(nil)

// RequestHandler answers MCP JSON-RPC requests. *Registry implements it.
type RequestHandler interface {
	HandleRequest(ctx context.Context, req MCPRequest) MCPResponse
}

// ServeStdio runs h as an MCP server reading newline-delimited JSON-RPC
// requests from in and writing responses to out. It returns when in is
// exhausted or ctx is cancelled, even while a read is blocked.
func ServeStdio(ctx context.Context, h RequestHandler, in io.Reader, out io.Writer) error {
	encoder := json.NewEncoder(out)
	lines, scanErr := scanLines(ctx, in)

	for {
		var line []byte
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				if err := <-scanErr; err != nil {
					return fmt.Errorf("scanner error: %w", err)
				}
				return nil
			}
			line = l
		}
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			resp := errorResponse(nil, ErrCodeParseError, err.Error())
			if err := encoder.Encode(resp); err != nil {
				return fmt.Errorf("failed to encode error response: %w", err)
			}
			continue
		}
		// Notifications carry no id and get no response.
		if req.ID == nil {
			continue
		}

		if err := encoder.Encode(h.HandleRequest(ctx, req)); err != nil {
			return fmt.Errorf("failed to encode response: %w", err)
		}
	}
}

// scanLines reads lines from in until EOF or ctx is done. The lines channel
// is closed at EOF, after the scan error (possibly nil) is sent.
func scanLines(ctx context.Context, in io.Reader) (<-chan []byte, <-chan error) {
	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			line := append([]byte(nil), scanner.Bytes()...)
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()
	return lines, scanErr
}

// ServeHTTP returns an http.Handler that accepts one JSON-RPC request per
// POST and replies with JSON.
func ServeHTTP(h RequestHandler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		if req.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		var mcpReq MCPRequest
		if err := json.NewDecoder(req.Body).Decode(&mcpReq); err != nil {
			_ = json.NewEncoder(w).Encode(errorResponse(nil, ErrCodeParseError, err.Error()))
			return
		}
		_ = json.NewEncoder(w).Encode(h.HandleRequest(req.Context(), mcpReq))
	})
}
