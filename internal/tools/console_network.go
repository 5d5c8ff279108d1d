package tools

import (
	"context"
	"encoding/json"

	"github.com/stephenstubbs/viewpoint-mcp/internal/browser"
)

// ConsoleMessagesTool implements browser_console_messages.
type ConsoleMessagesTool struct {
	baseTool
	deps *Deps
}

func NewConsoleMessagesTool(deps *Deps) *ConsoleMessagesTool { return &ConsoleMessagesTool{deps: deps} }

func (t *ConsoleMessagesTool) Name() string { return "browser_console_messages" }
func (t *ConsoleMessagesTool) Description() string {
	return "Read the active page's buffered console messages, optionally filtered by minimum severity."
}
func (t *ConsoleMessagesTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"level": map[string]interface{}{"type": "string", "enum": []string{"error", "warning", "info", "debug"}},
		},
	}
}

func (t *ConsoleMessagesTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	_, cs, err := t.deps.activePage(ctx, false)
	if err != nil {
		return nil, err
	}
	console, ok := cs.ActiveConsole()
	if !ok {
		return "No messages captured.", nil
	}

	level := browser.LevelDebug
	if levelStr := getString(args, "level"); levelStr != "" {
		level = browser.ParseConsoleLevel(levelStr)
	}

	messages := console.Messages(level)
	if len(messages) == 0 {
		return "No messages captured.", nil
	}
	out, err := json.MarshalIndent(messages, "", "  ")
	if err != nil {
		return nil, ExecutionFailedError(err)
	}
	return string(out), nil
}

// networkEntry is the tool's wire projection of a performance resource
// timing entry.
type networkEntry struct {
	URL      string `json:"url"`
	Type     string `json:"type"`
	Duration int64  `json:"duration"`
	Size     int64  `json:"size"`
	Status   *int   `json:"status,omitempty"`
}

var staticResourceTypes = map[string]bool{
	"img": true, "font": true, "stylesheet": true, "script": true,
}

// NetworkRequestsTool implements browser_network_requests.
type NetworkRequestsTool struct {
	baseTool
	deps *Deps
}

func NewNetworkRequestsTool(deps *Deps) *NetworkRequestsTool { return &NetworkRequestsTool{deps: deps} }

func (t *NetworkRequestsTool) Name() string { return "browser_network_requests" }
func (t *NetworkRequestsTool) Description() string {
	return "List resource timing entries captured by the Performance API for the active page."
}
func (t *NetworkRequestsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"includeStatic": map[string]interface{}{"type": "boolean"},
		},
	}
}

const networkRequestsJS = `
(() => performance.getEntriesByType('resource').map(e => ({
  url: e.name,
  type: e.initiatorType,
  duration: Math.round(e.duration),
  size: e.transferSize || 0,
  status: (e.responseStatus && e.responseStatus > 0) ? e.responseStatus : null,
})))()`

func (t *NetworkRequestsTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	page, _, err := t.deps.activePage(ctx, false)
	if err != nil {
		return nil, err
	}
	raw, err := page.Evaluate(ctx, networkRequestsJS)
	if err != nil {
		return nil, ExecutionFailedError(err)
	}

	entries := decodeNetworkEntries(raw)
	includeStatic := getBool(args, "includeStatic", false)
	if !includeStatic {
		filtered := entries[:0]
		for _, e := range entries {
			if staticResourceTypes[e.Type] && (e.Status == nil || *e.Status < 400) {
				continue
			}
			filtered = append(filtered, e)
		}
		entries = filtered
	}

	out, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return nil, ExecutionFailedError(err)
	}
	return string(out), nil
}

func decodeNetworkEntries(raw interface{}) []networkEntry {
	list, ok := raw.([]interface{})
	if !ok {
		return nil
	}
	out := make([]networkEntry, 0, len(list))
	for _, item := range list {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		e := networkEntry{}
		if v, ok := m["url"].(string); ok {
			e.URL = v
		}
		if v, ok := m["type"].(string); ok {
			e.Type = v
		}
		if v, ok := m["duration"].(float64); ok {
			e.Duration = int64(v)
		}
		if v, ok := m["size"].(float64); ok {
			e.Size = int64(v)
		}
		if v, ok := m["status"].(float64); ok {
			status := int(v)
			e.Status = &status
		}
		out = append(out, e)
	}
	return out
}
