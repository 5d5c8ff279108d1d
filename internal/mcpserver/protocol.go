package mcpserver

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/stephenstubbs/viewpoint-mcp/internal/browser"
	"github.com/stephenstubbs/viewpoint-mcp/internal/tools"
)

// Config configures a McpServer instance.
type Config struct {
	Name    string
	Version string
}

// McpServer dispatches JSON-RPC requests to the tool registry and browser
// session. The wire protocol is hand-rolled to hit the exact
// method/error-code contract this server promises its clients.
type McpServer struct {
	cfg          Config
	state        *browser.State
	deps         *tools.Deps
	registry     *tools.Registry
	initialized  bool
}

// NewMcpServer constructs a server bound to the given browser state and tool
// dependencies. The tool registry is (re)built on each "initialize" call,
// since the client's declared capabilities gate which tools are visible.
func NewMcpServer(cfg Config, state *browser.State, deps *tools.Deps) *McpServer {
	return &McpServer{cfg: cfg, state: state, deps: deps, registry: tools.NewRegistry(nil)}
}

// HandleMessage processes one JSON-RPC request or notification and returns
// its response bytes, or nil for a notification (which has no response).
func (s *McpServer) HandleMessage(ctx context.Context, raw []byte) []byte {
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return mustMarshal(errorResponse(nil, newServerError(ErrParse, "parse error: %v", err)))
	}

	if req.ID == nil {
		s.handleNotification(ctx, req)
		return nil
	}

	result, err := s.dispatch(ctx, req)
	if err != nil {
		se, ok := err.(*ServerError)
		if !ok {
			se = newServerError(ErrInternal, "%v", err)
		}
		return mustMarshal(errorResponse(req.ID, se))
	}
	return mustMarshal(Response{JSONRPC: "2.0", ID: req.ID, Result: result})
}

func (s *McpServer) handleNotification(ctx context.Context, req Request) {
	// "notifications/initialized" and similar acknowledgements carry no
	// response and require no action beyond having been received.
}

func (s *McpServer) dispatch(ctx context.Context, req Request) (interface{}, error) {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req.Params)
	case "tools/list":
		return s.handleToolsList()
	case "tools/call":
		return s.handleToolsCall(ctx, req.Params)
	default:
		return nil, newServerError(ErrMethodNotFound, "method not found: %s", req.Method)
	}
}

func (s *McpServer) handleInitialize(params json.RawMessage) (interface{}, error) {
	var p initializeParams
	if len(params) > 0 {
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, newServerError(ErrInvalidParams, "invalid initialize params: %v", err)
		}
	}

	var caps []tools.Capability
	for _, name := range p.ViewpointCapabilities {
		if c, ok := tools.ParseCapability(name); ok {
			caps = append(caps, c)
		}
	}
	s.registry = tools.NewRegistry(caps)
	tools.RegisterAll(s.registry, s.deps)
	s.initialized = true

	return initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities:    map[string]interface{}{"tools": map[string]interface{}{}},
		ServerInfo:      serverInfo{Name: s.cfg.Name, Version: s.cfg.Version},
	}, nil
}

func (s *McpServer) handleToolsList() (interface{}, error) {
	list := s.registry.List()
	out := make([]toolDescriptor, 0, len(list))
	for _, t := range list {
		out = append(out, toolDescriptor{
			Name:        t.Name(),
			Description: t.Description(),
			InputSchema: t.InputSchema(),
		})
	}
	return toolsListResult{Tools: out}, nil
}

func (s *McpServer) handleToolsCall(ctx context.Context, params json.RawMessage) (interface{}, error) {
	var p callToolParams
	if err := json.Unmarshal(params, &p); err != nil {
		return nil, newServerError(ErrInvalidParams, "invalid tools/call params: %v", err)
	}
	if p.Arguments == nil {
		p.Arguments = map[string]interface{}{}
	}

	tool, err := s.registry.Get(p.Name)
	if err != nil {
		return nil, newServerError(ErrToolNotFound, "tool not found: %s", p.Name)
	}

	result, execErr := tool.Execute(ctx, p.Arguments)
	if execErr != nil {
		if loss := s.classifyConnectionLoss(execErr); loss {
			s.state.ResetOnConnectionLoss()
		}
		return callToolResult{
			Content: []contentItem{{Type: "text", Text: execErr.Error()}},
			IsError: true,
		}, nil
	}

	return callToolResult{Content: toolResultContent(result), IsError: false}, nil
}

func (s *McpServer) classifyConnectionLoss(err error) bool {
	return browser.IsConnectionLossError(err.Error())
}

// toolResultContent converts a tool's return value into the content array
// the MCP wire format expects: inline-screenshot results carry a text item
// plus an image item; everything else is a single text item.
func toolResultContent(result interface{}) []contentItem {
	if m, ok := result.(map[string]interface{}); ok {
		if data, ok := m["imageData"].([]byte); ok {
			path, _ := m["path"].(string)
			mediaType, _ := m["mediaType"].(string)
			return []contentItem{
				{Type: "text", Text: fmt.Sprintf("Screenshot saved to %s", path)},
				{Type: "image", Data: base64.StdEncoding.EncodeToString(data), MimeType: mediaType},
			}
		}
	}
	if s, ok := result.(string); ok {
		return []contentItem{{Type: "text", Text: s}}
	}
	out, err := json.Marshal(result)
	if err != nil {
		return []contentItem{{Type: "text", Text: fmt.Sprintf("%v", result)}}
	}
	return []contentItem{{Type: "text", Text: string(out)}}
}

func errorResponse(id json.RawMessage, se *ServerError) Response {
	return Response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: se.ErrorCode(), Message: se.Message},
	}
}

func mustMarshal(v interface{}) []byte {
	out, err := json.Marshal(v)
	if err != nil {
		return []byte(`{"jsonrpc":"2.0","error":{"code":-32603,"message":"internal marshal error"}}`)
	}
	return out
}
