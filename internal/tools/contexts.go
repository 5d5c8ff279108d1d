package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
)

// ContextCreateTool implements browser_context_create.
type ContextCreateTool struct {
	baseTool
	deps *Deps
}

func NewContextCreateTool(deps *Deps) *ContextCreateTool { return &ContextCreateTool{deps: deps} }

func (t *ContextCreateTool) Name() string        { return "browser_context_create" }
func (t *ContextCreateTool) Description() string { return "Create a new isolated browser context and make it active." }
func (t *ContextCreateTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name":         map[string]interface{}{"type": "string"},
			"proxy":        map[string]interface{}{"type": "string"},
			"storageState": map[string]interface{}{"type": "string"},
		},
		"required": []string{"name"},
	}
}

func (t *ContextCreateTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	name := getString(args, "name")
	if name == "" {
		return nil, InvalidParamsError("name is required")
	}
	if err := t.deps.State.CreateContext(ctx, name); err != nil {
		return nil, ExecutionFailedError(err)
	}
	return fmt.Sprintf("Created context %q", name), nil
}

// ContextSwitchTool implements browser_context_switch.
type ContextSwitchTool struct {
	baseTool
	deps *Deps
}

func NewContextSwitchTool(deps *Deps) *ContextSwitchTool { return &ContextSwitchTool{deps: deps} }

func (t *ContextSwitchTool) Name() string        { return "browser_context_switch" }
func (t *ContextSwitchTool) Description() string { return "Switch the active browser context by name." }
func (t *ContextSwitchTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"name": map[string]interface{}{"type": "string"}},
		"required":   []string{"name"},
	}
}

func (t *ContextSwitchTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	name := getString(args, "name")
	if err := t.deps.State.SwitchContext(name); err != nil {
		return nil, InvalidParamsError("%s", err.Error())
	}
	return fmt.Sprintf("Switched to context %q", name), nil
}

// ContextCloseTool implements browser_context_close.
type ContextCloseTool struct {
	baseTool
	deps *Deps
}

func NewContextCloseTool(deps *Deps) *ContextCloseTool { return &ContextCloseTool{deps: deps} }

func (t *ContextCloseTool) Name() string        { return "browser_context_close" }
func (t *ContextCloseTool) Description() string {
	return "Close a browser context by name. Cannot close the only remaining context."
}
func (t *ContextCloseTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"name": map[string]interface{}{"type": "string"}},
		"required":   []string{"name"},
	}
}

func (t *ContextCloseTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	name := getString(args, "name")
	if err := t.deps.State.CloseContext(ctx, name); err != nil {
		return nil, InvalidParamsError("%s", err.Error())
	}
	return fmt.Sprintf("Closed context %q", name), nil
}

// ContextListTool implements browser_context_list.
type ContextListTool struct {
	baseTool
	deps *Deps
}

func NewContextListTool(deps *Deps) *ContextListTool { return &ContextListTool{deps: deps} }

func (t *ContextListTool) Name() string        { return "browser_context_list" }
func (t *ContextListTool) Description() string { return "List all browser contexts and their page counts." }
func (t *ContextListTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
}

type contextSummary struct {
	Name       string  `json:"name"`
	IsActive   bool    `json:"isActive"`
	PageCount  int     `json:"pageCount"`
	CurrentURL string  `json:"currentUrl"`
	Proxy      *string `json:"proxy,omitempty"`
}

func (t *ContextListTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	contexts := t.deps.State.ListContexts()
	active := t.deps.State.ActiveContextName()

	summaries := make([]contextSummary, 0, len(contexts))
	for _, cs := range contexts {
		s := contextSummary{
			Name:       cs.Name(),
			IsActive:   cs.Name() == active,
			PageCount:  cs.PageCount(),
			CurrentURL: cs.CurrentURL(),
		}
		if p := cs.Proxy(); p != nil {
			server := p.Server
			s.Proxy = &server
		}
		summaries = append(summaries, s)
	}

	out, err := json.MarshalIndent(map[string]interface{}{
		"contexts":      summaries,
		"activeContext": active,
		"totalCount":    len(summaries),
	}, "", "  ")
	if err != nil {
		return nil, ExecutionFailedError(err)
	}
	return string(out), nil
}

// ContextSaveStorageTool implements browser_context_save_storage.
type ContextSaveStorageTool struct {
	baseTool
	deps *Deps
}

func NewContextSaveStorageTool(deps *Deps) *ContextSaveStorageTool {
	return &ContextSaveStorageTool{deps: deps}
}

func (t *ContextSaveStorageTool) Name() string { return "browser_context_save_storage" }
func (t *ContextSaveStorageTool) Description() string {
	return "Persist a context's cookies to a JSON file on disk."
}
func (t *ContextSaveStorageTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"name": map[string]interface{}{"type": "string"},
			"path": map[string]interface{}{"type": "string"},
		},
		"required": []string{"path"},
	}
}

func (t *ContextSaveStorageTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	path := getString(args, "path")
	if path == "" {
		return nil, InvalidParamsError("path is required")
	}
	name := getString(args, "name")
	if name == "" {
		name = t.deps.State.ActiveContextName()
	}
	cs, err := t.deps.State.GetContext(name)
	if err != nil {
		return nil, InvalidParamsError("%s", err.Error())
	}
	page, ok := cs.ActivePage()
	if !ok {
		return nil, ExecutionFailedError(fmt.Errorf("context %q has no active page to read cookies from", name))
	}
	cookies, err := page.Cookies(ctx)
	if err != nil {
		return nil, ExecutionFailedError(err)
	}
	data, err := json.MarshalIndent(map[string]interface{}{"cookies": cookies}, "", "  ")
	if err != nil {
		return nil, ExecutionFailedError(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, ExecutionFailedError(err)
	}
	return fmt.Sprintf("Saved storage state for context %q to %s", name, path), nil
}
