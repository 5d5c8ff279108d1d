package browser

import (
	"context"
	"time"
)

// This file defines the collaborator interface consumed by the core (spec
// §6): the CDP-capable client surface that BrowserState, ContextState, and
// the tool implementations are written against. Production code is backed
// by go-rod (rod_adapter.go); tests are backed by in-memory fakes.

// CheckedState is the tri-state value of an ARIA checked/pressed attribute.
type CheckedState int

// Checked state constants.
const (
	CheckedFalse CheckedState = iota
	CheckedTrue
	CheckedMixed
)

// Rect is a pixel bounding box, used for element screenshots and coordinate
// click validation.
type Rect struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// AriaNode is a single node of the native accessibility tree, with iframe
// content already stitched in by the collaborator.
type AriaNode struct {
	Role             string
	Name             *string
	Description      *string
	Disabled         bool
	Expanded         *bool
	Selected         *bool
	Pressed          *bool
	Checked          *CheckedState
	Level            *uint32
	ValueNow         *float64
	IsFrame          bool
	NodeRef          *string // native backend node id, preferred when present
	HasTabIndex      bool
	TabIndexNonNeg   bool
	Children         []AriaNode
}

// ScreenshotOptions configures a page or element capture.
type ScreenshotOptions struct {
	Format   string // "png" | "jpeg"
	Quality  int
	FullPage bool
	Clip     *Rect
}

// PDFOptions configures browser_pdf_save.
type PDFOptions struct {
	Format          string
	Landscape       bool
	PrintBackground bool
	Scale           float64
	PageRanges      string
	MarginTop       float64
	MarginBottom    float64
	MarginLeft      float64
	MarginRight     float64
}

// Mouse is the page-level pointer device.
type Mouse interface {
	MoveTo(ctx context.Context, x, y float64, steps int) error
	Down(ctx context.Context, button string) error
	Up(ctx context.Context, button string) error
	Click(ctx context.Context, button string, clickCount int) error
}

// Keyboard is the page-level keyboard device.
type Keyboard interface {
	Press(ctx context.Context, key string) error
	Type(ctx context.Context, text string) error
}

// Locator addresses a single element, resolved either by CSS selector or by
// a previously-minted element ref.
type Locator interface {
	Click(ctx context.Context, button string, clickCount int) error
	Hover(ctx context.Context) error
	Fill(ctx context.Context, value string) error
	TypeText(ctx context.Context, text string) error
	Press(ctx context.Context, key string) error
	Check(ctx context.Context) error
	Uncheck(ctx context.Context) error
	SelectOption(ctx context.Context, values []string, byLabel bool) error
	ScrollIntoViewIfNeeded(ctx context.Context) error
	DragTo(ctx context.Context, other Locator) error
	SetInputFiles(ctx context.Context, paths []string) error
	BoundingBox(ctx context.Context) (*Rect, error)
	Evaluate(ctx context.Context, js string) (interface{}, error)
	Property(ctx context.Context, name string) (interface{}, error)
}

// Page is a single browsing-context tab.
type Page interface {
	Goto(ctx context.Context, url string) error
	Reload(ctx context.Context) error
	GoBack(ctx context.Context) error
	URL() string
	SetViewportSize(ctx context.Context, width, height int) error
	SetContent(ctx context.Context, html string) error
	AriaSnapshotWithFrames(ctx context.Context) (AriaNode, error)
	Evaluate(ctx context.Context, js string) (interface{}, error)
	WaitForFunction(ctx context.Context, js string, timeout time.Duration) error
	Mouse() Mouse
	Keyboard() Keyboard
	Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error)
	PDF(ctx context.Context, opts PDFOptions) ([]byte, error)
	Locator(selector string) Locator
	LocatorFromRef(ref string) Locator
	ArmDialog(accept bool, promptText string) error
	Cookies(ctx context.Context) ([]Cookie, error)
	SetCookies(ctx context.Context, cookies []Cookie) error
	Close(ctx context.Context) error
	TargetID() string

	// OnConsoleMessage subscribes handler to every console API call the page
	// makes for the remainder of its life. Called once per page, at creation.
	OnConsoleMessage(handler func(StoredMessage))
}

// Cookie is a minimal cookie projection used by context storage save/fork.
type Cookie struct {
	Name     string
	Value    string
	Domain   string
	Path     string
	Secure   bool
	HTTPOnly bool
}

// BrowserContext is an isolated (cookies/storage/cache) browsing session.
type BrowserContext interface {
	NewPage(ctx context.Context, url string) (Page, error)
	Close(ctx context.Context) error
}

// CollabBrowser is the top-level CDP-capable client handle.
type CollabBrowser interface {
	NewContext(ctx context.Context, proxy *ProxyConfig) (BrowserContext, error)
	Version(ctx context.Context) (string, error)
	Close(ctx context.Context) error
}
