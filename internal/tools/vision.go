package tools

import (
	"context"
	"fmt"
)

// MouseClickXYTool implements browser_mouse_click_xy (Vision-gated).
type MouseClickXYTool struct {
	gatedTool
	deps *Deps
}

func NewMouseClickXYTool(deps *Deps) *MouseClickXYTool {
	return &MouseClickXYTool{gatedTool: gatedTool{capability: CapabilityVision}, deps: deps}
}

func (t *MouseClickXYTool) Name() string        { return "browser_mouse_click_xy" }
func (t *MouseClickXYTool) Description() string { return "Click at an absolute page coordinate (requires vision)." }
func (t *MouseClickXYTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x":          map[string]interface{}{"type": "number"},
			"y":          map[string]interface{}{"type": "number"},
			"button":     map[string]interface{}{"type": "string", "enum": []string{"left", "right", "middle"}},
			"clickCount": map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 3},
			"element":    map[string]interface{}{"type": "string"},
		},
		"required": []string{"x", "y"},
	}
}

func (t *MouseClickXYTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	x := getFloat(args, "x", -1)
	y := getFloat(args, "y", -1)
	if x < 0 || y < 0 {
		return nil, InvalidParamsError("x and y must be non-negative")
	}
	button := getString(args, "button")
	if button == "" {
		button = "left"
	}
	clickCount := int(getFloat(args, "clickCount", 1))

	page, cs, err := t.deps.activePage(ctx, false)
	if err != nil {
		return nil, err
	}
	mouse := page.Mouse()
	if err := mouse.MoveTo(ctx, x, y, 1); err != nil {
		return nil, ExecutionFailedError(err)
	}
	if err := mouse.Click(ctx, button, clickCount); err != nil {
		return nil, ExecutionFailedError(err)
	}
	cs.InvalidateCache()
	return fmt.Sprintf("Clicked at (%.0f, %.0f)", x, y), nil
}

// MouseMoveXYTool implements browser_mouse_move_xy (Vision-gated).
type MouseMoveXYTool struct {
	gatedTool
	deps *Deps
}

func NewMouseMoveXYTool(deps *Deps) *MouseMoveXYTool {
	return &MouseMoveXYTool{gatedTool: gatedTool{capability: CapabilityVision}, deps: deps}
}

func (t *MouseMoveXYTool) Name() string        { return "browser_mouse_move_xy" }
func (t *MouseMoveXYTool) Description() string { return "Move the mouse to an absolute page coordinate (requires vision)." }
func (t *MouseMoveXYTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"x":     map[string]interface{}{"type": "number"},
			"y":     map[string]interface{}{"type": "number"},
			"steps": map[string]interface{}{"type": "integer", "minimum": 1},
		},
		"required": []string{"x", "y"},
	}
}

func (t *MouseMoveXYTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	x := getFloat(args, "x", -1)
	y := getFloat(args, "y", -1)
	if x < 0 || y < 0 {
		return nil, InvalidParamsError("x and y must be non-negative")
	}
	steps := int(getFloat(args, "steps", 1))
	if steps < 1 {
		return nil, InvalidParamsError("steps must be >= 1")
	}
	page, cs, err := t.deps.activePage(ctx, false)
	if err != nil {
		return nil, err
	}
	if err := page.Mouse().MoveTo(ctx, x, y, steps); err != nil {
		return nil, ExecutionFailedError(err)
	}
	cs.InvalidateCache()
	return fmt.Sprintf("Moved mouse to (%.0f, %.0f)", x, y), nil
}

// MouseDragXYTool implements browser_mouse_drag_xy (Vision-gated).
type MouseDragXYTool struct {
	gatedTool
	deps *Deps
}

func NewMouseDragXYTool(deps *Deps) *MouseDragXYTool {
	return &MouseDragXYTool{gatedTool: gatedTool{capability: CapabilityVision}, deps: deps}
}

func (t *MouseDragXYTool) Name() string        { return "browser_mouse_drag_xy" }
func (t *MouseDragXYTool) Description() string { return "Drag the mouse between two absolute page coordinates (requires vision)." }
func (t *MouseDragXYTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"startX": map[string]interface{}{"type": "number"},
			"startY": map[string]interface{}{"type": "number"},
			"endX":   map[string]interface{}{"type": "number"},
			"endY":   map[string]interface{}{"type": "number"},
			"steps":  map[string]interface{}{"type": "integer", "minimum": 1},
		},
		"required": []string{"startX", "startY", "endX", "endY"},
	}
}

func (t *MouseDragXYTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	startX, startY := getFloat(args, "startX", -1), getFloat(args, "startY", -1)
	endX, endY := getFloat(args, "endX", -1), getFloat(args, "endY", -1)
	if startX < 0 || startY < 0 || endX < 0 || endY < 0 {
		return nil, InvalidParamsError("coordinates must be non-negative")
	}
	steps := int(getFloat(args, "steps", 1))
	if steps < 1 {
		return nil, InvalidParamsError("steps must be >= 1")
	}

	page, cs, err := t.deps.activePage(ctx, false)
	if err != nil {
		return nil, err
	}
	mouse := page.Mouse()
	if err := mouse.MoveTo(ctx, startX, startY, 1); err != nil {
		return nil, ExecutionFailedError(err)
	}
	if err := mouse.Down(ctx, "left"); err != nil {
		return nil, ExecutionFailedError(err)
	}
	if err := mouse.MoveTo(ctx, endX, endY, steps); err != nil {
		return nil, ExecutionFailedError(err)
	}
	if err := mouse.Up(ctx, "left"); err != nil {
		return nil, ExecutionFailedError(err)
	}
	cs.InvalidateCache()
	return fmt.Sprintf("Dragged from (%.0f, %.0f) to (%.0f, %.0f)", startX, startY, endX, endY), nil
}
