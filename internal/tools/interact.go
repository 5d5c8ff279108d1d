package tools

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// ClickTool implements browser_click.
type ClickTool struct {
	baseTool
	deps *Deps
}

func NewClickTool(deps *Deps) *ClickTool { return &ClickTool{deps: deps} }

func (t *ClickTool) Name() string        { return "browser_click" }
func (t *ClickTool) Description() string { return "Click an element by ref, with optional button and double-click. The modifiers argument is accepted but not applied." }
func (t *ClickTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"ref":          map[string]interface{}{"type": "string"},
			"element":      map[string]interface{}{"type": "string"},
			"button":       map[string]interface{}{"type": "string", "enum": []string{"left", "right", "middle"}},
			"doubleClick":  map[string]interface{}{"type": "boolean"},
			"modifiers":    map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		},
		"required": []string{"ref", "element"},
	}
}

func (t *ClickTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	ref := getString(args, "ref")
	if ref == "" {
		return nil, InvalidParamsError("ref is required")
	}
	loc, err := t.deps.resolveRef(ctx, ref)
	if err != nil {
		return nil, err
	}
	button := getString(args, "button")
	if button == "" {
		button = "left"
	}
	clickCount := 1
	if getBool(args, "doubleClick", false) {
		clickCount = 2
	}
	if err := loc.Click(ctx, button, clickCount); err != nil {
		return nil, ExecutionFailedError(err)
	}
	if cs, cerr := t.deps.activeContextState(ctx); cerr == nil {
		cs.InvalidateCache()
	}
	return fmt.Sprintf("Clicked %s", getString(args, "element")), nil
}

// HoverTool implements browser_hover.
type HoverTool struct {
	baseTool
	deps *Deps
}

func NewHoverTool(deps *Deps) *HoverTool { return &HoverTool{deps: deps} }

func (t *HoverTool) Name() string        { return "browser_hover" }
func (t *HoverTool) Description() string { return "Hover over an element by ref." }
func (t *HoverTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"ref":     map[string]interface{}{"type": "string"},
			"element": map[string]interface{}{"type": "string"},
		},
		"required": []string{"ref", "element"},
	}
}

func (t *HoverTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	loc, err := t.deps.resolveRef(ctx, getString(args, "ref"))
	if err != nil {
		return nil, err
	}
	if err := loc.Hover(ctx); err != nil {
		return nil, ExecutionFailedError(err)
	}
	if cs, cerr := t.deps.activeContextState(ctx); cerr == nil {
		cs.InvalidateCache()
	}
	return fmt.Sprintf("Hovered %s", getString(args, "element")), nil
}

// PressKeyTool implements browser_press_key.
type PressKeyTool struct {
	baseTool
	deps *Deps
}

func NewPressKeyTool(deps *Deps) *PressKeyTool { return &PressKeyTool{deps: deps} }

func (t *PressKeyTool) Name() string        { return "browser_press_key" }
func (t *PressKeyTool) Description() string { return "Press a keyboard key on the active page." }
func (t *PressKeyTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":       "object",
		"properties": map[string]interface{}{"key": map[string]interface{}{"type": "string"}},
		"required":   []string{"key"},
	}
}

func (t *PressKeyTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	key := getString(args, "key")
	if key == "" {
		return nil, InvalidParamsError("key is required")
	}
	page, cs, err := t.deps.activePage(ctx, false)
	if err != nil {
		return nil, err
	}
	if err := page.Keyboard().Press(ctx, key); err != nil {
		return nil, ExecutionFailedError(err)
	}
	cs.InvalidateCache()
	return fmt.Sprintf("Pressed %s", key), nil
}

// ScrollIntoViewTool implements browser_scroll_into_view.
type ScrollIntoViewTool struct {
	baseTool
	deps *Deps
}

func NewScrollIntoViewTool(deps *Deps) *ScrollIntoViewTool { return &ScrollIntoViewTool{deps: deps} }

func (t *ScrollIntoViewTool) Name() string        { return "browser_scroll_into_view" }
func (t *ScrollIntoViewTool) Description() string { return "Scroll an element by ref into the viewport." }
func (t *ScrollIntoViewTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"ref":     map[string]interface{}{"type": "string"},
			"element": map[string]interface{}{"type": "string"},
		},
		"required": []string{"ref", "element"},
	}
}

func (t *ScrollIntoViewTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	loc, err := t.deps.resolveRef(ctx, getString(args, "ref"))
	if err != nil {
		return nil, err
	}
	if err := loc.ScrollIntoViewIfNeeded(ctx); err != nil {
		return nil, ExecutionFailedError(err)
	}
	if cs, cerr := t.deps.activeContextState(ctx); cerr == nil {
		cs.InvalidateCache()
	}
	return fmt.Sprintf("Scrolled %s into view", getString(args, "element")), nil
}

// DragTool implements browser_drag.
type DragTool struct {
	baseTool
	deps *Deps
}

func NewDragTool(deps *Deps) *DragTool { return &DragTool{deps: deps} }

func (t *DragTool) Name() string        { return "browser_drag" }
func (t *DragTool) Description() string { return "Drag from one element to another, by ref." }
func (t *DragTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"startRef":     map[string]interface{}{"type": "string"},
			"startElement": map[string]interface{}{"type": "string"},
			"endRef":       map[string]interface{}{"type": "string"},
			"endElement":   map[string]interface{}{"type": "string"},
		},
		"required": []string{"startRef", "startElement", "endRef", "endElement"},
	}
}

func (t *DragTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	start, err := t.deps.resolveRef(ctx, getString(args, "startRef"))
	if err != nil {
		return nil, err
	}
	end, err := t.deps.resolveRef(ctx, getString(args, "endRef"))
	if err != nil {
		return nil, err
	}
	if err := start.DragTo(ctx, end); err != nil {
		return nil, ExecutionFailedError(err)
	}
	if cs, cerr := t.deps.activeContextState(ctx); cerr == nil {
		cs.InvalidateCache()
	}
	return fmt.Sprintf("Dragged %s to %s", getString(args, "startElement"), getString(args, "endElement")), nil
}

// SelectOptionTool implements browser_select_option.
type SelectOptionTool struct {
	baseTool
	deps *Deps
}

func NewSelectOptionTool(deps *Deps) *SelectOptionTool { return &SelectOptionTool{deps: deps} }

func (t *SelectOptionTool) Name() string        { return "browser_select_option" }
func (t *SelectOptionTool) Description() string { return "Select one or more options in a combobox by ref." }
func (t *SelectOptionTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"ref":     map[string]interface{}{"type": "string"},
			"element": map[string]interface{}{"type": "string"},
			"values":  map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		},
		"required": []string{"ref", "element", "values"},
	}
}

func (t *SelectOptionTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	values := getStringSlice(args, "values")
	if len(values) == 0 {
		return nil, InvalidParamsError("values is required")
	}
	loc, err := t.deps.resolveRef(ctx, getString(args, "ref"))
	if err != nil {
		return nil, err
	}
	if err := loc.SelectOption(ctx, values, false); err != nil {
		return nil, ExecutionFailedError(err)
	}
	if cs, cerr := t.deps.activeContextState(ctx); cerr == nil {
		cs.InvalidateCache()
	}
	return fmt.Sprintf("Selected %v in %s", values, getString(args, "element")), nil
}

// TypeTool implements browser_type.
type TypeTool struct {
	baseTool
	deps *Deps
}

func NewTypeTool(deps *Deps) *TypeTool { return &TypeTool{deps: deps} }

func (t *TypeTool) Name() string        { return "browser_type" }
func (t *TypeTool) Description() string { return "Type text into an element by ref, atomically or character-by-character." }
func (t *TypeTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"ref":     map[string]interface{}{"type": "string"},
			"element": map[string]interface{}{"type": "string"},
			"text":    map[string]interface{}{"type": "string"},
			"slowly":  map[string]interface{}{"type": "boolean"},
			"submit":  map[string]interface{}{"type": "boolean"},
		},
		"required": []string{"ref", "element", "text"},
	}
}

func (t *TypeTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	text := getString(args, "text")
	loc, err := t.deps.resolveRef(ctx, getString(args, "ref"))
	if err != nil {
		return nil, err
	}
	if getBool(args, "slowly", false) {
		err = loc.TypeText(ctx, text)
	} else {
		err = loc.Fill(ctx, text)
	}
	if err != nil {
		return nil, ExecutionFailedError(err)
	}
	if getBool(args, "submit", false) {
		page, _, perr := t.deps.activePage(ctx, false)
		if perr != nil {
			return nil, perr
		}
		if err := page.Keyboard().Press(ctx, "Enter"); err != nil {
			return nil, ExecutionFailedError(err)
		}
	}
	if cs, cerr := t.deps.activeContextState(ctx); cerr == nil {
		cs.InvalidateCache()
	}
	return fmt.Sprintf("Typed into %s", getString(args, "element")), nil
}

// FileUploadTool implements browser_file_upload.
type FileUploadTool struct {
	baseTool
	deps *Deps
}

func NewFileUploadTool(deps *Deps) *FileUploadTool { return &FileUploadTool{deps: deps} }

func (t *FileUploadTool) Name() string        { return "browser_file_upload" }
func (t *FileUploadTool) Description() string { return "Set files on the currently armed file chooser, or cancel it with no paths." }
func (t *FileUploadTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"paths": map[string]interface{}{"type": "array", "items": map[string]interface{}{"type": "string"}},
		},
	}
}

func (t *FileUploadTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	paths := getStringSlice(args, "paths")
	page, cs, err := t.deps.activePage(ctx, false)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		info, statErr := os.Stat(p)
		if statErr != nil || !info.Mode().IsRegular() {
			return nil, InvalidParamsError("path does not exist or is not a regular file: %s", p)
		}
	}
	loc := page.Locator(`input[type=file]`)
	if err := loc.SetInputFiles(ctx, paths); err != nil {
		return nil, ExecutionFailedError(err)
	}
	cs.InvalidateCache()
	if len(paths) == 0 {
		return "File chooser cancelled", nil
	}
	return fmt.Sprintf("Uploaded %d file(s)", len(paths)), nil
}

// fillFormField is one entry of browser_fill_form's fields array.
type fillFormField struct {
	Name  string
	Type  string
	Ref   string
	Value string
}

// FillFormTool implements browser_fill_form.
type FillFormTool struct {
	baseTool
	deps *Deps
}

func NewFillFormTool(deps *Deps) *FillFormTool { return &FillFormTool{deps: deps} }

func (t *FillFormTool) Name() string        { return "browser_fill_form" }
func (t *FillFormTool) Description() string { return "Fill several form fields in one call, dispatching by field type." }
func (t *FillFormTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"fields": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "object",
					"properties": map[string]interface{}{
						"name":  map[string]interface{}{"type": "string"},
						"type":  map[string]interface{}{"type": "string", "enum": []string{"textbox", "checkbox", "radio", "combobox", "slider"}},
						"ref":   map[string]interface{}{"type": "string"},
						"value": map[string]interface{}{"type": "string"},
					},
					"required": []string{"name", "type", "ref", "value"},
				},
			},
		},
		"required": []string{"fields"},
	}
}

func (t *FillFormTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	rawFields, ok := args["fields"].([]interface{})
	if !ok || len(rawFields) == 0 {
		return nil, InvalidParamsError("fields is required")
	}

	var results []string
	for _, raw := range rawFields {
		m, ok := raw.(map[string]interface{})
		if !ok {
			return nil, InvalidParamsError("each field must be an object")
		}
		field := fillFormField{
			Name:  getString(m, "name"),
			Type:  getString(m, "type"),
			Ref:   getString(m, "ref"),
			Value: getString(m, "value"),
		}
		loc, err := t.deps.resolveRef(ctx, field.Ref)
		if err != nil {
			return nil, err
		}
		switch field.Type {
		case "textbox", "slider":
			err = loc.Fill(ctx, field.Value)
		case "checkbox":
			want, parseErr := strconv.ParseBool(strings.ToLower(field.Value))
			if parseErr != nil {
				return nil, InvalidParamsError("checkbox value must be a boolean: %s", field.Value)
			}
			if want {
				err = loc.Check(ctx)
			} else {
				err = loc.Uncheck(ctx)
			}
		case "radio":
			err = loc.Check(ctx)
		case "combobox":
			err = loc.SelectOption(ctx, []string{field.Value}, false)
		default:
			return nil, InvalidParamsError("unknown field type: %s", field.Type)
		}
		if err != nil {
			return nil, ExecutionFailedError(err)
		}
		results = append(results, field.Name)
	}
	if cs, cerr := t.deps.activeContextState(ctx); cerr == nil {
		cs.InvalidateCache()
	}
	return fmt.Sprintf("Filled fields: %s", strings.Join(results, ", ")), nil
}
