package browser

import (
	"context"
	"time"
)

// snapshotCacheTTL is the maximum age of a cached snapshot before it is
// considered stale.
const snapshotCacheTTL = 5 * time.Second

// CachedSnapshot is an opaque payload the snapshot package stores per
// context; the browser package only tracks its validity metadata.
type CachedSnapshot struct {
	Snapshot   interface{}
	CapturedAt time.Time
	URL        string
	PageIndex  int
}

// pageEntry pairs a live Page with its per-page console buffer.
type pageEntry struct {
	page    Page
	console *ConsoleBuffer
}

// ContextState is one named, isolated browsing session: an ordered list of
// pages, the active page index, and a single cached snapshot.
type ContextState struct {
	name       string
	context    BrowserContext
	pages      []*pageEntry
	activePage int
	currentURL string
	proxy      *ProxyConfig
	cached     *CachedSnapshot
}

// NewContextState wraps a freshly created BrowserContext, opening its first
// page.
func NewContextState(name string, ctx BrowserContext, firstPage Page) *ContextState {
	console := NewConsoleBuffer()
	firstPage.OnConsoleMessage(console.Push)
	return &ContextState{
		name:       name,
		context:    ctx,
		pages:      []*pageEntry{{page: firstPage, console: console}},
		activePage: 0,
	}
}

// WithProxy records the proxy configuration used to create this context.
func (c *ContextState) WithProxy(p *ProxyConfig) *ContextState {
	c.proxy = p
	return c
}

// Name returns the context's name.
func (c *ContextState) Name() string { return c.name }

// Proxy returns the proxy configuration, if any.
func (c *ContextState) Proxy() *ProxyConfig { return c.proxy }

// PageCount returns the number of open pages.
func (c *ContextState) PageCount() int { return len(c.pages) }

// ActivePageIndex returns the index of the active page.
func (c *ContextState) ActivePageIndex() int { return c.activePage }

// CurrentURL returns the URL recorded at the last navigation.
func (c *ContextState) CurrentURL() string { return c.currentURL }

// SetCurrentURL updates the tracked current URL (called by tools after a
// navigation-shaped action).
func (c *ContextState) SetCurrentURL(url string) { c.currentURL = url }

// ActivePage returns the currently active page, or ok=false if there are
// none (should not happen post-initialization; default context always has
// at least one page).
func (c *ContextState) ActivePage() (Page, bool) {
	if c.activePage < 0 || c.activePage >= len(c.pages) {
		return nil, false
	}
	return c.pages[c.activePage].page, true
}

// ActiveConsole returns the console buffer for the active page.
func (c *ContextState) ActiveConsole() (*ConsoleBuffer, bool) {
	if c.activePage < 0 || c.activePage >= len(c.pages) {
		return nil, false
	}
	return c.pages[c.activePage].console, true
}

// Pages returns the live pages in order, for tools like browser_tabs.
func (c *ContextState) Pages() []Page {
	out := make([]Page, len(c.pages))
	for i, e := range c.pages {
		out[i] = e.page
	}
	return out
}

// OpenPage asks the underlying BrowserContext for a new page at url, then
// appends and activates it. Tools use this instead of reaching into the raw
// BrowserContext directly.
func (c *ContextState) OpenPage(ctx context.Context, url string) (Page, int, error) {
	page, err := c.context.NewPage(ctx, url)
	if err != nil {
		return nil, 0, err
	}
	idx := c.NewPage(page)
	return page, idx, nil
}

// NewPage appends a new page and makes it active.
func (c *ContextState) NewPage(p Page) int {
	console := NewConsoleBuffer()
	p.OnConsoleMessage(console.Push)
	c.pages = append(c.pages, &pageEntry{page: p, console: console})
	c.activePage = len(c.pages) - 1
	c.invalidate()
	return c.activePage
}

// ClosePage removes the page at index i. If i is out of range, it is a
// no-op and returns false. The active index is kept as it is, and is
// clamped to the new last page when it falls past the end.
func (c *ContextState) ClosePage(i int) bool {
	if i < 0 || i >= len(c.pages) {
		return false
	}
	c.pages = append(c.pages[:i], c.pages[i+1:]...)
	if len(c.pages) == 0 {
		c.activePage = -1
	} else if c.activePage >= len(c.pages) {
		c.activePage = len(c.pages) - 1
	}
	c.invalidate()
	return true
}

// SwitchPage makes page i active, bounds-checked.
func (c *ContextState) SwitchPage(i int) bool {
	if i < 0 || i >= len(c.pages) {
		return false
	}
	c.activePage = i
	c.invalidate()
	return true
}

// GetCachedSnapshot returns the cached snapshot iff it is fresh (age <= 5s),
// for the current active page index, and matches the current URL.
func (c *ContextState) GetCachedSnapshot(now time.Time) (interface{}, bool) {
	if c.cached == nil {
		return nil, false
	}
	if now.Sub(c.cached.CapturedAt) > snapshotCacheTTL {
		return nil, false
	}
	if c.cached.PageIndex != c.activePage {
		return nil, false
	}
	if c.currentURL != "" && c.cached.URL != c.currentURL {
		return nil, false
	}
	return c.cached.Snapshot, true
}

// CacheSnapshot stores a freshly captured snapshot for the current page/URL.
func (c *ContextState) CacheSnapshot(snapshot interface{}, now time.Time) {
	c.cached = &CachedSnapshot{
		Snapshot:   snapshot,
		CapturedAt: now,
		URL:        c.currentURL,
		PageIndex:  c.activePage,
	}
}

// InvalidateCache unconditionally drops the cached snapshot. Must be called
// by every tool whose action could have changed the DOM, even ones that look
// read-only.
func (c *ContextState) InvalidateCache() { c.invalidate() }

func (c *ContextState) invalidate() { c.cached = nil }

// Close closes every page then the underlying context.
func (c *ContextState) Close(ctx context.Context) error {
	for _, e := range c.pages {
		_ = e.page.Close(ctx)
	}
	return c.context.Close(ctx)
}
