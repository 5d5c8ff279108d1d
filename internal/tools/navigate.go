package tools

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// NavigateTool implements browser_navigate.
type NavigateTool struct {
	baseTool
	deps *Deps
}

func NewNavigateTool(deps *Deps) *NavigateTool { return &NavigateTool{deps: deps} }

func (t *NavigateTool) Name() string        { return "browser_navigate" }
func (t *NavigateTool) Description() string { return "Navigate the active page to a URL, creating a page first if the context has none." }
func (t *NavigateTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"url": map[string]interface{}{"type": "string", "description": "URL to navigate to"},
		},
		"required": []string{"url"},
	}
}

func (t *NavigateTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	url := getString(args, "url")
	if url == "" {
		return nil, InvalidParamsError("url is required")
	}
	page, cs, err := t.deps.activePage(ctx, true)
	if err != nil {
		return nil, err
	}
	if err := page.Goto(ctx, url); err != nil {
		return nil, ExecutionFailedError(err)
	}
	cs.SetCurrentURL(page.URL())
	cs.InvalidateCache()
	return fmt.Sprintf("Navigated to %s", page.URL()), nil
}

// NavigateBackTool implements browser_navigate_back.
type NavigateBackTool struct {
	baseTool
	deps *Deps
}

func NewNavigateBackTool(deps *Deps) *NavigateBackTool { return &NavigateBackTool{deps: deps} }

func (t *NavigateBackTool) Name() string        { return "browser_navigate_back" }
func (t *NavigateBackTool) Description() string { return "Go back in the active page's history." }
func (t *NavigateBackTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
}

func (t *NavigateBackTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	page, cs, err := t.deps.activePage(ctx, false)
	if err != nil {
		return nil, err
	}
	if err := page.GoBack(ctx); err != nil {
		return nil, ExecutionFailedError(err)
	}
	cs.SetCurrentURL(page.URL())
	cs.InvalidateCache()
	return fmt.Sprintf("Navigated back to %s", page.URL()), nil
}

// ResizeTool implements browser_resize.
type ResizeTool struct {
	baseTool
	deps *Deps
}

func NewResizeTool(deps *Deps) *ResizeTool { return &ResizeTool{deps: deps} }

func (t *ResizeTool) Name() string        { return "browser_resize" }
func (t *ResizeTool) Description() string { return "Resize the active page's viewport." }
func (t *ResizeTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"width":  map[string]interface{}{"type": "integer"},
			"height": map[string]interface{}{"type": "integer"},
		},
		"required": []string{"width", "height"},
	}
}

func (t *ResizeTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	width := int(getFloat(args, "width", 0))
	height := int(getFloat(args, "height", 0))
	if width <= 0 || width > 16384 || height <= 0 || height > 16384 {
		return nil, InvalidParamsError("width and height must be in (0, 16384]")
	}
	page, cs, err := t.deps.activePage(ctx, false)
	if err != nil {
		return nil, err
	}
	if err := page.SetViewportSize(ctx, width, height); err != nil {
		return nil, ExecutionFailedError(err)
	}
	cs.InvalidateCache()
	return fmt.Sprintf("Resized viewport to %dx%d", width, height), nil
}

// WaitForTool implements browser_wait_for.
type WaitForTool struct {
	baseTool
	deps *Deps
}

func NewWaitForTool(deps *Deps) *WaitForTool { return &WaitForTool{deps: deps} }

func (t *WaitForTool) Name() string { return "browser_wait_for" }
func (t *WaitForTool) Description() string {
	return "Wait for text to appear, text to disappear, or a fixed duration. Exactly one of text, textGone, or time must be given."
}
func (t *WaitForTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"text":     map[string]interface{}{"type": "string"},
			"textGone": map[string]interface{}{"type": "string"},
			"time":     map[string]interface{}{"type": "number", "description": "seconds, 0..60"},
		},
	}
}

func (t *WaitForTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	text := getString(args, "text")
	textGone := getString(args, "textGone")
	_, hasTime := args["time"]

	count := 0
	if text != "" {
		count++
	}
	if textGone != "" {
		count++
	}
	if hasTime {
		count++
	}
	if count != 1 {
		return nil, InvalidParamsError("exactly one of text, textGone, or time is required")
	}

	if hasTime {
		seconds := getFloat(args, "time", 0)
		if seconds < 0 || seconds > 60 {
			return nil, InvalidParamsError("time must be in [0, 60]")
		}
		select {
		case <-time.After(time.Duration(seconds * float64(time.Second))):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		return fmt.Sprintf("Waited %.1f seconds", seconds), nil
	}

	page, _, err := t.deps.activePage(ctx, false)
	if err != nil {
		return nil, err
	}

	var js string
	var label string
	if text != "" {
		js = fmt.Sprintf("document.body.innerText.includes(\"%s\")", escapeJSString(text))
		label = text
	} else {
		js = fmt.Sprintf("!document.body.innerText.includes(\"%s\")", escapeJSString(textGone))
		label = textGone
	}
	if err := page.WaitForFunction(ctx, js, 30*time.Second); err != nil {
		return nil, ExecutionFailedError(err)
	}
	if text != "" {
		return fmt.Sprintf("Text %q appeared", label), nil
	}
	return fmt.Sprintf("Text %q disappeared", label), nil
}

func escapeJSString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return s
}

// CloseTool implements browser_close.
type CloseTool struct {
	baseTool
	deps *Deps
}

func NewCloseTool(deps *Deps) *CloseTool { return &CloseTool{deps: deps} }

func (t *CloseTool) Name() string        { return "browser_close" }
func (t *CloseTool) Description() string { return "Close the active page." }
func (t *CloseTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
}

func (t *CloseTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	cs, err := t.deps.activeContextState(ctx)
	if err != nil {
		return nil, err
	}
	if cs.PageCount() == 0 {
		return nil, ExecutionFailedError(fmt.Errorf("No pages to close"))
	}
	page, _ := cs.ActivePage()
	url := page.URL()
	idx := cs.ActivePageIndex()
	if err := page.Close(ctx); err != nil {
		return nil, ExecutionFailedError(err)
	}
	cs.ClosePage(idx)
	return fmt.Sprintf("Closed page %s; %d pages remain", url, cs.PageCount()), nil
}

// InstallTool implements browser_install.
type InstallTool struct {
	baseTool
	deps *Deps
}

func NewInstallTool(deps *Deps) *InstallTool { return &InstallTool{deps: deps} }

func (t *InstallTool) Name() string        { return "browser_install" }
func (t *InstallTool) Description() string { return "Ensure the browser is launched; if Chromium is missing, return instructions for installing it." }
func (t *InstallTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{"type": "object", "properties": map[string]interface{}{}}
}

func (t *InstallTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	if t.deps.State.IsInitialized() {
		return "Browser already initialized", nil
	}
	err := t.deps.State.Initialize(ctx)
	if err == nil {
		return "Browser initialized", nil
	}
	msg := err.Error()
	for _, marker := range []string{"not found", "not installed", "executable", "No such file"} {
		if strings.Contains(msg, marker) {
			return "Chromium was not found. Install it with: npx playwright install chromium", nil
		}
	}
	return nil, ExecutionFailedError(err)
}
