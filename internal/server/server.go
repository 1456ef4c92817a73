package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ironsheep/charseg-mcp/internal/config"
	"github.com/ironsheep/charseg-mcp/internal/imaging"
	"github.com/ironsheep/charseg-mcp/internal/layout"
	"github.com/ironsheep/charseg-mcp/internal/logging"
)

const (
	serverName    = "charseg-mcp"
	serverVersion = "0.1.0"
)

// Server handles MCP protocol communication
type Server struct {
	cache     *imaging.ImageCache
	cfg       *config.Config
	templates *layout.Registry
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server using cfg. A nil cfg means config.Default().
//
// The built-in paper templates are always available; files listed in
// cfg.Templates are loaded on top of them.
func New(cfg *config.Config) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	templates, err := layout.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in templates: %w", err)
	}
	if err := templates.LoadFiles(cfg.Templates...); err != nil {
		return nil, fmt.Errorf("failed to load templates: %w", err)
	}
	return &Server{
		cache:     imaging.NewImageCache(),
		cfg:       cfg,
		templates: templates,
	}, nil
}

// Run serves MCP on stdin and stdout until stdin is closed.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w.
// Lines that do not parse are logged and skipped.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	log := logging.Logger()

	scanner := bufio.NewScanner(r)
	// Inline images arrive as base64 on a single line
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 32*1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Warn("failed to parse request", slog.Any("error", err))
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Error("failed to encode response", slog.Any("error", err))
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    serverName,
				"version": serverVersion,
			},
		},
	}
}
