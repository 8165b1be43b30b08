package registry

import "errors"

// Sentinel errors for consistent error handling.
var (
	ErrClosed         = errors.New("registry closed")
	ErrToolNotFound   = errors.New("tool not found")
	ErrBlockNotFound  = errors.New("block not found")
	ErrInvalidRequest = errors.New("invalid request")
)

// JSON-RPC 2.0 error codes, plus the MCP tool error range.
const (
	ErrCodeParseError     = -32700
	ErrCodeInvalidRequest = -32600
	ErrCodeMethodNotFound = -32601
	ErrCodeInvalidParams  = -32602
	ErrCodeInternal       = -32603
	ErrCodeToolNotFound   = -32001
	ErrCodeToolExecFailed = -32002
)
