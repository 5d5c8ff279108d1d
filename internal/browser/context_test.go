package browser

import (
	"context"
	"testing"
	"time"
)

// fakePage is a minimal Page stand-in exercising only what ContextState and
// State need: identity, navigation bookkeeping, and lifecycle.
type fakePage struct {
	closed          bool
	url             string
	consoleHandlers int
}

func (p *fakePage) Goto(ctx context.Context, url string) error { p.url = url; return nil }
func (p *fakePage) Reload(ctx context.Context) error           { return nil }
func (p *fakePage) GoBack(ctx context.Context) error           { return nil }
func (p *fakePage) URL() string                                { return p.url }
func (p *fakePage) SetViewportSize(ctx context.Context, w, h int) error { return nil }
func (p *fakePage) SetContent(ctx context.Context, html string) error  { return nil }
func (p *fakePage) AriaSnapshotWithFrames(ctx context.Context) (AriaNode, error) {
	return AriaNode{}, nil
}
func (p *fakePage) Evaluate(ctx context.Context, js string) (interface{}, error) { return nil, nil }
func (p *fakePage) WaitForFunction(ctx context.Context, js string, timeout time.Duration) error {
	return nil
}
func (p *fakePage) Mouse() Mouse       { return nil }
func (p *fakePage) Keyboard() Keyboard { return nil }
func (p *fakePage) Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error) {
	return nil, nil
}
func (p *fakePage) PDF(ctx context.Context, opts PDFOptions) ([]byte, error) { return nil, nil }
func (p *fakePage) Locator(selector string) Locator                         { return nil }
func (p *fakePage) LocatorFromRef(ref string) Locator                       { return nil }
func (p *fakePage) ArmDialog(accept bool, promptText string) error          { return nil }
func (p *fakePage) Cookies(ctx context.Context) ([]Cookie, error)           { return nil, nil }
func (p *fakePage) SetCookies(ctx context.Context, cookies []Cookie) error  { return nil }
func (p *fakePage) Close(ctx context.Context) error                        { p.closed = true; return nil }
func (p *fakePage) TargetID() string                                       { return "target" }
func (p *fakePage) OnConsoleMessage(handler func(StoredMessage)) { p.consoleHandlers++ }

// fakeBrowserContext mints fakePages and records whether it was closed.
type fakeBrowserContext struct {
	closed   bool
	newPages int
}

func (c *fakeBrowserContext) NewPage(ctx context.Context, url string) (Page, error) {
	c.newPages++
	return &fakePage{url: url}, nil
}
func (c *fakeBrowserContext) Close(ctx context.Context) error { c.closed = true; return nil }

func TestContextStatePageLifecycle(t *testing.T) {
	raw := &fakeBrowserContext{}
	cs := NewContextState("default", raw, &fakePage{url: "about:blank"})

	if cs.PageCount() != 1 {
		t.Fatalf("PageCount() = %d, want 1", cs.PageCount())
	}
	if cs.ActivePageIndex() != 0 {
		t.Fatalf("ActivePageIndex() = %d, want 0", cs.ActivePageIndex())
	}

	page, idx, err := cs.OpenPage(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("OpenPage failed: %v", err)
	}
	if idx != 1 {
		t.Errorf("OpenPage index = %d, want 1", idx)
	}
	if cs.PageCount() != 2 {
		t.Errorf("PageCount() = %d, want 2 after OpenPage", cs.PageCount())
	}
	active, ok := cs.ActivePage()
	if !ok || active != page {
		t.Error("newly opened page should become active")
	}

	if !cs.SwitchPage(0) {
		t.Fatal("SwitchPage(0) should succeed")
	}
	if cs.ActivePageIndex() != 0 {
		t.Errorf("ActivePageIndex() = %d, want 0 after switch", cs.ActivePageIndex())
	}

	if cs.SwitchPage(5) {
		t.Error("SwitchPage out of range should fail")
	}

	if !cs.ClosePage(0) {
		t.Fatal("ClosePage(0) should succeed")
	}
	if cs.PageCount() != 1 {
		t.Errorf("PageCount() = %d, want 1 after close", cs.PageCount())
	}
	if cs.ActivePageIndex() != 0 {
		t.Errorf("ActivePageIndex() = %d, want 0 after closing the only remaining page's sibling", cs.ActivePageIndex())
	}
}

func TestContextStateRegistersConsoleHandlerPerPage(t *testing.T) {
	first := &fakePage{url: "about:blank"}
	cs := NewContextState("default", &fakeBrowserContext{}, first)
	if first.consoleHandlers != 1 {
		t.Errorf("first page consoleHandlers = %d, want 1", first.consoleHandlers)
	}

	page, _, err := cs.OpenPage(context.Background(), "https://example.com")
	if err != nil {
		t.Fatalf("OpenPage failed: %v", err)
	}
	opened := page.(*fakePage)
	if opened.consoleHandlers != 1 {
		t.Errorf("opened page consoleHandlers = %d, want 1", opened.consoleHandlers)
	}
}

func TestContextStateSnapshotCacheValidity(t *testing.T) {
	cs := NewContextState("default", &fakeBrowserContext{}, &fakePage{url: "about:blank"})
	cs.SetCurrentURL("https://example.com")

	now := time.Now()
	if _, ok := cs.GetCachedSnapshot(now); ok {
		t.Fatal("expected no cached snapshot before any capture")
	}

	cs.CacheSnapshot("snap-payload", now)
	if got, ok := cs.GetCachedSnapshot(now); !ok || got != "snap-payload" {
		t.Fatalf("expected fresh cache hit, got (%v, %v)", got, ok)
	}

	if _, ok := cs.GetCachedSnapshot(now.Add(6 * time.Second)); ok {
		t.Error("cache older than 5s should be invalid")
	}

	cs.CacheSnapshot("snap-payload", now)
	cs.SetCurrentURL("https://other.example.com")
	if _, ok := cs.GetCachedSnapshot(now); ok {
		t.Error("cache should invalidate when current URL changes")
	}

	cs.SetCurrentURL("https://example.com")
	cs.CacheSnapshot("snap-payload", now)
	cs.NewPage(&fakePage{url: "about:blank"})
	if _, ok := cs.GetCachedSnapshot(now); ok {
		t.Error("cache should invalidate on page switch")
	}
}

func TestContextStateClose(t *testing.T) {
	raw := &fakeBrowserContext{}
	page := &fakePage{url: "about:blank"}
	cs := NewContextState("default", raw, page)

	if err := cs.Close(context.Background()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if !page.closed {
		t.Error("expected page to be closed")
	}
	if !raw.closed {
		t.Error("expected underlying browser context to be closed")
	}
}
