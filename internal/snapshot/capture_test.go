package snapshot

import (
	"context"
	"testing"
	"time"

	"github.com/stephenstubbs/viewpoint-mcp/internal/browser"
)

// fakePage is a minimal browser.Page stand-in that only serves a fixed ARIA
// tree; every other method is unused by the capture path under test.
type fakePage struct {
	tree browser.AriaNode
}

func (p *fakePage) Goto(ctx context.Context, url string) error  { return nil }
func (p *fakePage) Reload(ctx context.Context) error            { return nil }
func (p *fakePage) GoBack(ctx context.Context) error            { return nil }
func (p *fakePage) URL() string                                 { return "https://example.com" }
func (p *fakePage) SetViewportSize(ctx context.Context, w, h int) error { return nil }
func (p *fakePage) SetContent(ctx context.Context, html string) error  { return nil }
func (p *fakePage) AriaSnapshotWithFrames(ctx context.Context) (browser.AriaNode, error) {
	return p.tree, nil
}
func (p *fakePage) Evaluate(ctx context.Context, js string) (interface{}, error) { return nil, nil }
func (p *fakePage) WaitForFunction(ctx context.Context, js string, timeout time.Duration) error {
	return nil
}
func (p *fakePage) Mouse() browser.Mouse       { return nil }
func (p *fakePage) Keyboard() browser.Keyboard { return nil }
func (p *fakePage) Screenshot(ctx context.Context, opts browser.ScreenshotOptions) ([]byte, error) {
	return nil, nil
}
func (p *fakePage) PDF(ctx context.Context, opts browser.PDFOptions) ([]byte, error) {
	return nil, nil
}
func (p *fakePage) Locator(selector string) browser.Locator   { return nil }
func (p *fakePage) LocatorFromRef(ref string) browser.Locator { return nil }
func (p *fakePage) ArmDialog(accept bool, promptText string) error { return nil }
func (p *fakePage) Cookies(ctx context.Context) ([]browser.Cookie, error) { return nil, nil }
func (p *fakePage) SetCookies(ctx context.Context, cookies []browser.Cookie) error { return nil }
func (p *fakePage) Close(ctx context.Context) error { return nil }
func (p *fakePage) TargetID() string                { return "target-1" }
func (p *fakePage) OnConsoleMessage(handler func(browser.StoredMessage)) {}

func strp(s string) *string { return &s }

func TestCaptureAssignsRefsByTier(t *testing.T) {
	tree := browser.AriaNode{
		Role: "main",
		Children: []browser.AriaNode{
			{Role: "button", Name: strp("Submit")},
			{Role: "heading", Name: strp("Title")},
		},
	}
	page := &fakePage{tree: tree}

	snap, err := Capture(context.Background(), page, Options{}, nil)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	if snap.RefCount() != 1 {
		t.Errorf("RefCount() = %d, want 1 (only the button)", snap.RefCount())
	}
	if snap.ElementCount() != 3 {
		t.Errorf("ElementCount() = %d, want 3", snap.ElementCount())
	}
	if snap.IsCompact() {
		t.Error("small tree should not be compact")
	}

	button := snap.Root().Children[0]
	if !button.HasRef() {
		t.Fatal("button should have received a ref")
	}
	heading := snap.Root().Children[1]
	if heading.HasRef() {
		t.Error("heading should not have received a ref")
	}
}

func TestCaptureCompactModeAboveThreshold(t *testing.T) {
	var children []browser.AriaNode
	for i := 0; i < compactModeThreshold+1; i++ {
		children = append(children, browser.AriaNode{Role: "button", Name: strp("b")})
	}
	page := &fakePage{tree: browser.AriaNode{Role: "main", Children: children}}

	snap, err := Capture(context.Background(), page, Options{}, nil)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if !snap.IsCompact() {
		t.Error("tree with >100 refable elements should be compact")
	}

	allRefsSnap, err := Capture(context.Background(), page, Options{AllRefs: true}, nil)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}
	if allRefsSnap.IsCompact() {
		t.Error("allRefs capture should never be compact")
	}
}

func TestCaptureLookupRoundTrip(t *testing.T) {
	page := &fakePage{tree: browser.AriaNode{
		Role:     "main",
		Children: []browser.AriaNode{{Role: "button", Name: strp("Submit"), NodeRef: strp("99")}},
	}}

	snap, err := Capture(context.Background(), page, Options{}, nil)
	if err != nil {
		t.Fatalf("Capture failed: %v", err)
	}

	button := snap.Root().Children[0]
	ref, err := snap.Lookup(button.RefString())
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if ref.String() != "e99" {
		t.Errorf("ref = %q, want e99 (native backend id preferred)", ref.String())
	}

	if _, err := snap.Lookup("not-a-ref"); err == nil {
		t.Error("malformed ref should fail lookup")
	}
	if _, err := snap.Lookup("e12345"); err == nil {
		t.Error("unminted ref should fail lookup with RefNotFound")
	}
}

func TestCaptureDetectsRemovedElement(t *testing.T) {
	detector := NewStaleDetector()
	page := &fakePage{tree: browser.AriaNode{
		Role:     "main",
		Children: []browser.AriaNode{{Role: "button", Name: strp("Submit"), NodeRef: strp("1")}},
	}}

	first, err := Capture(context.Background(), page, Options{}, detector)
	if err != nil {
		t.Fatalf("first capture failed: %v", err)
	}
	ref := first.Root().Children[0].RefString()

	page.tree = browser.AriaNode{Role: "main"} // the button is now gone
	second, err := Capture(context.Background(), page, Options{}, detector)
	if err != nil {
		t.Fatalf("second capture failed: %v", err)
	}

	_, err = second.Lookup(ref)
	if err == nil {
		t.Fatal("expected a stale-ref error for the removed button")
	}
	staleErr, ok := err.(*StaleError)
	if !ok {
		t.Fatalf("expected *StaleError, got %T", err)
	}
	if staleErr.Kind != StaleElementRemoved {
		t.Errorf("Kind = %v, want StaleElementRemoved", staleErr.Kind)
	}
}
