package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"

	"github.com/stephenstubbs/viewpoint-mcp/internal/browser"
)

// SnapshotTool implements browser_snapshot.
type SnapshotTool struct {
	baseTool
	deps *Deps
}

func NewSnapshotTool(deps *Deps) *SnapshotTool { return &SnapshotTool{deps: deps} }

func (t *SnapshotTool) Name() string        { return "browser_snapshot" }
func (t *SnapshotTool) Description() string { return "Capture an accessibility snapshot of the active page as a formatted, ref-annotated text document." }
func (t *SnapshotTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"allRefs": map[string]interface{}{"type": "boolean", "description": "Mint refs for every element, bypassing compact mode"},
		},
	}
}

func (t *SnapshotTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	snap, err := t.deps.captureSnapshot(ctx, getBool(args, "allRefs", false))
	if err != nil {
		return nil, err
	}
	return snap.Format(), nil
}

// maxImageDimension and maxImageMegapixels bound inline screenshot bytes
// returned by browser_take_screenshot.
const (
	maxImageDimension  = 1568
	maxImageMegapixels = 1.15
)

// TakeScreenshotTool implements browser_take_screenshot.
type TakeScreenshotTool struct {
	baseTool
	deps *Deps
}

func NewTakeScreenshotTool(deps *Deps) *TakeScreenshotTool { return &TakeScreenshotTool{deps: deps} }

func (t *TakeScreenshotTool) Name() string { return "browser_take_screenshot" }
func (t *TakeScreenshotTool) Description() string {
	return "Screenshot the page or a single element by ref, saved to the screenshot directory."
}
func (t *TakeScreenshotTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"ref":      map[string]interface{}{"type": "string"},
			"element":  map[string]interface{}{"type": "string"},
			"filename": map[string]interface{}{"type": "string"},
			"fullPage": map[string]interface{}{"type": "boolean"},
			"type":     map[string]interface{}{"type": "string", "enum": []string{"png", "jpeg"}},
		},
	}
}

func (t *TakeScreenshotTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	ref := getString(args, "ref")
	element := getString(args, "element")
	fullPage := getBool(args, "fullPage", false)
	if ref != "" && element == "" {
		return nil, InvalidParamsError("ref requires element")
	}
	if ref != "" && fullPage {
		return nil, InvalidParamsError("ref and fullPage are mutually exclusive")
	}

	format := getString(args, "type")
	if format == "" {
		format = "png"
	}
	ext := format

	page, _, err := t.deps.activePage(ctx, false)
	if err != nil {
		return nil, err
	}

	opts := browser.ScreenshotOptions{Format: format, FullPage: fullPage}
	if ref != "" {
		loc, err := t.deps.resolveRef(ctx, ref)
		if err != nil {
			return nil, err
		}
		box, err := loc.BoundingBox(ctx)
		if err != nil || box == nil {
			return nil, ElementNotFoundError(fmt.Sprintf("no bounding box for %s", element))
		}
		opts.Clip = box
	}

	data, err := page.Screenshot(ctx, opts)
	if err != nil {
		return nil, ExecutionFailedError(err)
	}

	if err := os.MkdirAll(t.deps.ScreenshotDir, 0o755); err != nil {
		return nil, ExecutionFailedError(err)
	}
	filename := getString(args, "filename")
	if filename == "" {
		filename = fmt.Sprintf("page-%s.%s", isoTimestampForFilenames(), ext)
	}
	outPath := filepath.Join(t.deps.ScreenshotDir, filename)
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return nil, ExecutionFailedError(err)
	}

	switch t.deps.ImageMode {
	case ImageResponseOmit:
		return fmt.Sprintf("Screenshot saved to %s", outPath), nil
	case ImageResponseInline:
		scaled, err := scaleForInlineResponse(data)
		if err != nil {
			return nil, ExecutionFailedError(err)
		}
		return map[string]interface{}{
			"path":      outPath,
			"imageData": scaled,
			"mediaType": "image/jpeg",
		}, nil
	default:
		return fmt.Sprintf("Screenshot saved to %s", outPath), nil
	}
}

func isoTimestampForFilenames() string {
	return timeNowUTC().Format("2006-01-02T15-04-05")
}

// timeNowUTC is a seam so the tool's timestamp formatting is unit-testable
// without depending on wall-clock time in assertions.
var timeNowUTC = func() time.Time { return time.Now().UTC() }

// scaleForInlineResponse resizes an image to fit within maxImageDimension on
// its longest side and maxImageMegapixels total, re-encoding as JPEG with
// Lanczos3 resampling, then returns it base64-less (caller's transport layer
// encodes to base64 for the wire).
func scaleForInlineResponse(data []byte) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	scale := 1.0
	if w > maxImageDimension || h > maxImageDimension {
		if w > h {
			scale = float64(maxImageDimension) / float64(w)
		} else {
			scale = float64(maxImageDimension) / float64(h)
		}
	}
	megapixels := float64(w*h) / 1_000_000
	if megapixels*scale*scale > maxImageMegapixels {
		if areaScale := math.Sqrt(maxImageMegapixels / megapixels); areaScale < scale {
			scale = areaScale
		}
	}

	resized := img
	if scale < 1.0 {
		resized = imaging.Resize(img, int(float64(w)*scale), int(float64(h)*scale), imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, resized, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EvaluateTool implements browser_evaluate.
type EvaluateTool struct {
	baseTool
	deps *Deps
}

func NewEvaluateTool(deps *Deps) *EvaluateTool { return &EvaluateTool{deps: deps} }

func (t *EvaluateTool) Name() string        { return "browser_evaluate" }
func (t *EvaluateTool) Description() string { return "Evaluate a JavaScript function against the page, or an element by ref." }
func (t *EvaluateTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"function": map[string]interface{}{"type": "string"},
			"ref":      map[string]interface{}{"type": "string"},
			"element":  map[string]interface{}{"type": "string"},
		},
		"required": []string{"function"},
	}
}

func (t *EvaluateTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	fn := getString(args, "function")
	if fn == "" {
		return nil, InvalidParamsError("function is required")
	}
	ref := getString(args, "ref")
	if ref != "" && getString(args, "element") == "" {
		return nil, InvalidParamsError("ref requires element")
	}

	var (
		result interface{}
		err    error
	)
	if ref != "" {
		loc, rerr := t.deps.resolveRef(ctx, ref)
		if rerr != nil {
			return nil, rerr
		}
		result, err = loc.Evaluate(ctx, fn)
	} else {
		page, _, perr := t.deps.activePage(ctx, false)
		if perr != nil {
			return nil, perr
		}
		result, err = page.Evaluate(ctx, fn)
	}
	if err != nil {
		return nil, ExecutionFailedError(err)
	}
	if cs, cerr := t.deps.activeContextState(ctx); cerr == nil {
		cs.InvalidateCache()
	}
	return formatEvaluateResult(result), nil
}

func formatEvaluateResult(v interface{}) string {
	if v == nil {
		return "null"
	}
	if s, ok := v.(string); ok {
		return s
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(out)
}
