package tools

import (
	"context"
	"fmt"
	"strings"
)

// TabsTool implements browser_tabs.
type TabsTool struct {
	baseTool
	deps *Deps
}

func NewTabsTool(deps *Deps) *TabsTool { return &TabsTool{deps: deps} }

func (t *TabsTool) Name() string        { return "browser_tabs" }
func (t *TabsTool) Description() string { return "List, open, close, or switch the active context's pages." }
func (t *TabsTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"action": map[string]interface{}{"type": "string", "enum": []string{"list", "new", "close", "select"}},
			"index":  map[string]interface{}{"type": "integer"},
		},
		"required": []string{"action"},
	}
}

func (t *TabsTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	action := getString(args, "action")
	cs, err := t.deps.activeContextState(ctx)
	if err != nil {
		return nil, err
	}

	switch action {
	case "list":
		var sb strings.Builder
		for i, p := range cs.Pages() {
			marker := ""
			if i == cs.ActivePageIndex() {
				marker = " [active]"
			}
			fmt.Fprintf(&sb, "%d: %s%s\n", i, p.URL(), marker)
		}
		return sb.String(), nil

	case "new":
		_, idx, err := cs.OpenPage(ctx, "about:blank")
		if err != nil {
			return nil, ExecutionFailedError(err)
		}
		return fmt.Sprintf("Opened tab %d", idx), nil

	case "close":
		idx := cs.ActivePageIndex()
		if _, ok := args["index"]; ok {
			idx = int(getFloat(args, "index", float64(idx)))
		}
		if !cs.ClosePage(idx) {
			return nil, InvalidParamsError("index %d out of range", idx)
		}
		return fmt.Sprintf("Closed tab %d", idx), nil

	case "select":
		if _, ok := args["index"]; !ok {
			return nil, InvalidParamsError("index is required for select")
		}
		idx := int(getFloat(args, "index", -1))
		if !cs.SwitchPage(idx) {
			return nil, InvalidParamsError("index %d out of range", idx)
		}
		return fmt.Sprintf("Switched to tab %d", idx), nil

	default:
		return nil, InvalidParamsError("unknown action: %s", action)
	}
}
