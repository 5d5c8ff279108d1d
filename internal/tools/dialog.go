package tools

import "context"

// HandleDialogTool implements browser_handle_dialog.
type HandleDialogTool struct {
	baseTool
	deps *Deps
}

func NewHandleDialogTool(deps *Deps) *HandleDialogTool { return &HandleDialogTool{deps: deps} }

func (t *HandleDialogTool) Name() string { return "browser_handle_dialog" }
func (t *HandleDialogTool) Description() string {
	return "Arm the response for the next JS dialog (alert/confirm/prompt) the page raises."
}
func (t *HandleDialogTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"accept":     map[string]interface{}{"type": "boolean"},
			"promptText": map[string]interface{}{"type": "string"},
		},
		"required": []string{"accept"},
	}
}

func (t *HandleDialogTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	accept := getBool(args, "accept", false)
	promptText := getString(args, "promptText")

	page, cs, err := t.deps.activePage(ctx, false)
	if err != nil {
		return nil, err
	}
	if err := page.ArmDialog(accept, promptText); err != nil {
		return nil, ExecutionFailedError(err)
	}
	cs.InvalidateCache()
	if accept {
		return "Next dialog will be accepted", nil
	}
	return "Next dialog will be dismissed", nil
}
