package tools

import (
	"context"
	"fmt"
	"os"

	"github.com/stephenstubbs/viewpoint-mcp/internal/browser"
)

var validPDFFormats = map[string]bool{
	"letter": true, "legal": true, "tabloid": true, "ledger": true,
	"a0": true, "a1": true, "a2": true, "a3": true, "a4": true, "a5": true, "a6": true,
}

// PDFSaveTool implements browser_pdf_save (Pdf-gated).
type PDFSaveTool struct {
	gatedTool
	deps *Deps
}

func NewPDFSaveTool(deps *Deps) *PDFSaveTool {
	return &PDFSaveTool{gatedTool: gatedTool{capability: CapabilityPdf}, deps: deps}
}

func (t *PDFSaveTool) Name() string        { return "browser_pdf_save" }
func (t *PDFSaveTool) Description() string { return "Render the active page to a PDF file (requires pdf)." }
func (t *PDFSaveTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"path":            map[string]interface{}{"type": "string"},
			"format":          map[string]interface{}{"type": "string", "enum": []string{"letter", "legal", "tabloid", "ledger", "a0", "a1", "a2", "a3", "a4", "a5", "a6"}},
			"landscape":       map[string]interface{}{"type": "boolean"},
			"printBackground": map[string]interface{}{"type": "boolean"},
			"scale":           map[string]interface{}{"type": "number"},
			"pageRanges":      map[string]interface{}{"type": "string"},
			"margin":          map[string]interface{}{"type": "number"},
		},
		"required": []string{"path"},
	}
}

func (t *PDFSaveTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	path := getString(args, "path")
	if path == "" {
		return nil, InvalidParamsError("path is required")
	}
	format := getString(args, "format")
	if format != "" && !validPDFFormats[format] {
		return nil, InvalidParamsError("unknown format: %s", format)
	}
	scale := getFloat(args, "scale", 1.0)
	if scale < 0.1 || scale > 2.0 {
		return nil, InvalidParamsError("scale must be in [0.1, 2.0]")
	}
	margin := getFloat(args, "margin", 0)

	page, _, err := t.deps.activePage(ctx, false)
	if err != nil {
		return nil, err
	}
	data, err := page.PDF(ctx, browser.PDFOptions{
		Format:          format,
		Landscape:       getBool(args, "landscape", false),
		PrintBackground: getBool(args, "printBackground", false),
		Scale:           scale,
		PageRanges:      getString(args, "pageRanges"),
		MarginTop:       margin,
		MarginBottom:    margin,
		MarginLeft:      margin,
		MarginRight:     margin,
	})
	if err != nil {
		return nil, ExecutionFailedError(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, ExecutionFailedError(err)
	}
	return fmt.Sprintf("Saved PDF to %s", path), nil
}
