package tools

import (
	"context"
	"fmt"
	"time"

	"github.com/stephenstubbs/viewpoint-mcp/internal/browser"
	"github.com/stephenstubbs/viewpoint-mcp/internal/snapshot"
)

// ImageResponseMode controls how browser_take_screenshot returns image
// bytes to the client.
type ImageResponseMode string

// Image response modes for browser_take_screenshot.
const (
	ImageResponseFile  ImageResponseMode = "file"
	ImageResponseOmit  ImageResponseMode = "omit"
	ImageResponseInline ImageResponseMode = "inline"
)

// ParseImageResponseMode parses a config/tool-arg string, defaulting to
// ImageResponseFile for an empty or unrecognized value.
func ParseImageResponseMode(s string) ImageResponseMode {
	switch ImageResponseMode(s) {
	case ImageResponseOmit:
		return ImageResponseOmit
	case ImageResponseInline:
		return ImageResponseInline
	default:
		return ImageResponseFile
	}
}

// Deps is the shared state every tool closes over: the browser session
// state and per-context stale-ref detectors (a tool needs its context's
// detector to persist across calls to classify ref staleness).
type Deps struct {
	State         *browser.State
	ScreenshotDir string
	ImageMode     ImageResponseMode

	detectors map[string]*snapshot.StaleDetector
}

// NewDeps constructs the shared tool dependencies.
func NewDeps(state *browser.State, screenshotDir string, imageMode ImageResponseMode) *Deps {
	return &Deps{
		State:         state,
		ScreenshotDir: screenshotDir,
		ImageMode:     imageMode,
		detectors:     make(map[string]*snapshot.StaleDetector),
	}
}

// detectorFor returns the persistent stale-ref detector for a context,
// creating one on first use.
func (d *Deps) detectorFor(contextName string) *snapshot.StaleDetector {
	det, ok := d.detectors[contextName]
	if !ok {
		det = snapshot.NewStaleDetector()
		d.detectors[contextName] = det
	}
	return det
}

// activeContextState resolves the active browser.ContextState, lazily
// launching the browser on first use. A failed launch is reported as an
// ExecutionFailed error prefixed "browser not available"; once initialized,
// subsequent calls are
// a no-op per State.Initialize's idempotence.
func (d *Deps) activeContextState(ctx context.Context) (*browser.ContextState, error) {
	if !d.State.IsInitialized() {
		if err := d.State.Initialize(ctx); err != nil {
			return nil, ExecutionFailedError(fmt.Errorf("browser not available: %w", err))
		}
	}
	cs, err := d.State.ActiveContext()
	if err != nil {
		return nil, ExecutionFailedError(err)
	}
	return cs, nil
}

// activePage resolves the active context's active page. When the context
// has none, it opens a blank page if createIfAbsent is set
// (browser_navigate's contract) and otherwise fails with "no active page".
func (d *Deps) activePage(ctx context.Context, createIfAbsent bool) (browser.Page, *browser.ContextState, error) {
	cs, err := d.activeContextState(ctx)
	if err != nil {
		return nil, nil, err
	}
	page, ok := cs.ActivePage()
	if !ok {
		if !createIfAbsent {
			return nil, cs, ExecutionFailedError(fmt.Errorf("no active page"))
		}
		newPage, _, err := cs.OpenPage(ctx, "about:blank")
		if err != nil {
			return nil, cs, ExecutionFailedError(err)
		}
		page = newPage
	}
	return page, cs, nil
}

// captureSnapshot returns an accessibility snapshot of the active context's
// active page, using that context's persistent stale detector and
// respecting multi-context ref prefixing. Plain reads (allRefs=false) serve
// the context's cached snapshot when it is still fresh for the current
// page/URL and populate it after a fresh capture; ref-resolving callers
// (allRefs=true) always capture fresh since they need the full ref set
// validated against the live DOM.
func (d *Deps) captureSnapshot(ctx context.Context, allRefs bool) (*snapshot.Snapshot, error) {
	page, cs, err := d.activePage(ctx, false)
	if err != nil {
		return nil, err
	}
	if !allRefs {
		if cached, ok := cs.GetCachedSnapshot(time.Now()); ok {
			if snap, ok := cached.(*snapshot.Snapshot); ok {
				return snap, nil
			}
		}
	}
	opts := snapshot.Options{AllRefs: allRefs}
	if len(d.State.ListContexts()) > 1 {
		opts.Context = cs.Name()
	}
	snap, err := snapshot.Capture(ctx, page, opts, d.detectorFor(cs.Name()))
	if err != nil {
		return nil, ExecutionFailedError(err)
	}
	if !allRefs {
		cs.CacheSnapshot(snap, time.Now())
	}
	return snap, nil
}

// resolveRef captures a snapshot if necessary, validates ref, and resolves
// it to a collaborator Locator on the active page.
func (d *Deps) resolveRef(ctx context.Context, refString string) (browser.Locator, error) {
	page, _, err := d.activePage(ctx, false)
	if err != nil {
		return nil, err
	}
	snap, err := d.captureSnapshot(ctx, true)
	if err != nil {
		return nil, err
	}
	ref, err := snap.Lookup(refString)
	if err != nil {
		if skind, ok := snapshot.KindOf(err); ok && skind == snapshot.ErrInvalidRefFormat {
			return nil, InvalidParamsError("%s", err.Error())
		}
		return nil, ElementNotFoundError(err.Error())
	}
	return page.LocatorFromRef(ref.String()), nil
}

func getString(args map[string]interface{}, key string) string {
	v, _ := args[key].(string)
	return v
}

func getBool(args map[string]interface{}, key string, def bool) bool {
	if v, ok := args[key].(bool); ok {
		return v
	}
	return def
}

func getFloat(args map[string]interface{}, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	default:
		return def
	}
}

func getStringSlice(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
