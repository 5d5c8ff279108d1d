package main

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stephenstubbs/viewpoint-mcp/internal/browser"
	"github.com/stephenstubbs/viewpoint-mcp/internal/mcpserver"
	"github.com/stephenstubbs/viewpoint-mcp/internal/tools"
)

// TestIntegrationServerLifecycle exercises the full wiring main() performs
// (config -> state -> deps -> registry -> server) against the JSON-RPC
// surface, without requiring a real Chromium binary.
func TestIntegrationServerLifecycle(t *testing.T) {
	state := browser.NewState(browser.DefaultConfig())
	deps := tools.NewDeps(state, t.TempDir(), tools.ImageResponseFile)
	server := mcpserver.NewMcpServer(mcpserver.Config{Name: "integration-test-server", Version: "1.0.0-test"}, state, deps)

	ctx := context.Background()

	t.Run("initialize", func(t *testing.T) {
		resp := server.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`))
		var decoded map[string]interface{}
		if err := json.Unmarshal(resp, &decoded); err != nil {
			t.Fatalf("failed to decode initialize response: %v", err)
		}
		if decoded["error"] != nil {
			t.Fatalf("unexpected error in initialize response: %v", decoded["error"])
		}
	})

	t.Run("tools/list after initialize", func(t *testing.T) {
		server.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`))
		resp := server.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

		var decoded struct {
			Result struct {
				Tools []struct {
					Name string `json:"name"`
				} `json:"tools"`
			} `json:"result"`
		}
		if err := json.Unmarshal(resp, &decoded); err != nil {
			t.Fatalf("failed to decode tools/list response: %v", err)
		}
		if len(decoded.Result.Tools) == 0 {
			t.Fatal("expected at least one tool in tools/list")
		}
	})

	t.Run("tools/list omits vision tools without capability", func(t *testing.T) {
		server.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`))
		resp := server.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`))

		var decoded struct {
			Result struct {
				Tools []struct {
					Name string `json:"name"`
				} `json:"tools"`
			} `json:"result"`
		}
		if err := json.Unmarshal(resp, &decoded); err != nil {
			t.Fatalf("failed to decode tools/list response: %v", err)
		}
		for _, tool := range decoded.Result.Tools {
			if tool.Name == "browser_mouse_click_xy" {
				t.Error("expected vision-gated tool to be hidden without the capability declared")
			}
		}
	})

	t.Run("unknown method returns method-not-found", func(t *testing.T) {
		resp := server.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","id":3,"method":"bogus/method"}`))
		var decoded struct {
			Error *struct {
				Code int `json:"code"`
			} `json:"error"`
		}
		if err := json.Unmarshal(resp, &decoded); err != nil {
			t.Fatalf("failed to decode error response: %v", err)
		}
		if decoded.Error == nil || decoded.Error.Code != -32601 {
			t.Fatalf("expected -32601 method-not-found, got %+v", decoded.Error)
		}
	})

	t.Run("notification produces no response", func(t *testing.T) {
		resp := server.HandleMessage(ctx, []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`))
		if resp != nil {
			t.Errorf("expected nil response for a notification, got %s", resp)
		}
	})
}
