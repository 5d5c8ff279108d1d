package browser

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// rodBrowser adapts a *rod.Browser to CollabBrowser. It is the production
// backing for BrowserState, following the same launch/attach idiom as the
// package's launcher-based session setup.
type rodBrowser struct {
	b *rod.Browser
}

// LaunchRod starts a new Chromium process per cfg and wraps it.
func LaunchRod(ctx context.Context, cfg Config) (CollabBrowser, error) {
	if cfg.CDPEndpoint != "" {
		return connectRod(ctx, cfg.CDPEndpoint)
	}

	l := launcher.New().Headless(cfg.Headless).Set("no-startup-window")
	if cfg.UserDataDir != "" {
		l = l.UserDataDir(cfg.UserDataDir)
	}

	controlURL, err := l.Launch()
	if err != nil {
		return nil, LaunchFailed(err.Error())
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, LaunchFailed(err.Error())
	}
	return &rodBrowser{b: b}, nil
}

// connectRod attaches to an already-running browser, either by direct
// WebSocket URL or by auto-discovering one from an HTTP debugger endpoint.
func connectRod(ctx context.Context, endpoint string) (CollabBrowser, error) {
	controlURL := endpoint
	if !strings.HasPrefix(endpoint, "ws://") && !strings.HasPrefix(endpoint, "wss://") {
		discovered, err := launcher.ResolveURL(endpoint)
		if err != nil {
			return nil, ConnectionFailed(err.Error())
		}
		controlURL = discovered
	}

	b := rod.New().ControlURL(controlURL).Context(ctx)
	if err := b.Connect(); err != nil {
		return nil, ConnectionFailed(err.Error())
	}
	return &rodBrowser{b: b}, nil
}

func (r *rodBrowser) Version(ctx context.Context) (string, error) {
	info, err := r.b.Version()
	if err != nil {
		return "", ConnectionFailed(err.Error())
	}
	return info.Product, nil
}

func (r *rodBrowser) Close(ctx context.Context) error {
	return r.b.Close()
}

func (r *rodBrowser) NewContext(ctx context.Context, proxy *ProxyConfig) (BrowserContext, error) {
	incognito, err := r.b.Incognito()
	if err != nil {
		return nil, LaunchFailed(err.Error())
	}
	if proxy != nil {
		// Proxy application depends on launch-time flags in go-rod; a
		// per-context proxy override is not part of the CDP surface rod
		// exposes post-launch, so the request is accepted and ignored --
		// the tool layer surfaces this as a no-op.
		_ = proxy
	}
	return &rodContext{browser: incognito}, nil
}

// rodContext adapts an incognito *rod.Browser (go-rod's unit of isolation)
// to BrowserContext.
type rodContext struct {
	browser *rod.Browser
}

func (c *rodContext) NewPage(ctx context.Context, url string) (Page, error) {
	page, err := c.browser.Page(proto.TargetCreateTarget{URL: url})
	if err != nil {
		return nil, LaunchFailed(err.Error())
	}
	return &rodPage{page: page}, nil
}

func (c *rodContext) Close(ctx context.Context) error {
	return c.browser.Close()
}

// rodPage adapts a *rod.Page to Page.
type rodPage struct {
	page        *rod.Page
	dialogAccpt *bool
	dialogText  string
}

func (p *rodPage) Goto(ctx context.Context, url string) error {
	if err := p.page.Context(ctx).Navigate(url); err != nil {
		return NavigationFailed(err.Error())
	}
	if err := p.page.WaitLoad(); err != nil {
		return NavigationFailed(err.Error())
	}
	return nil
}

func (p *rodPage) Reload(ctx context.Context) error {
	if err := p.page.Context(ctx).Reload(); err != nil {
		return NavigationFailed(err.Error())
	}
	return nil
}

func (p *rodPage) GoBack(ctx context.Context) error {
	if err := p.page.Context(ctx).NavigateBack(); err != nil {
		return NavigationFailed(err.Error())
	}
	return nil
}

func (p *rodPage) URL() string {
	info, err := p.page.Info()
	if err != nil {
		return ""
	}
	return info.URL
}

func (p *rodPage) SetViewportSize(ctx context.Context, width, height int) error {
	return proto.EmulationSetDeviceMetricsOverride{
		Width:             width,
		Height:            height,
		DeviceScaleFactor: 1,
		Mobile:            false,
	}.Call(p.page)
}

func (p *rodPage) SetContent(ctx context.Context, html string) error {
	return p.page.Context(ctx).SetDocumentContent(html)
}

// AriaSnapshotWithFrames builds the native accessibility tree via the CDP
// Accessibility domain. Only the page's main-frame tree is fetched; the
// content of child frames is not stitched in.
func (p *rodPage) AriaSnapshotWithFrames(ctx context.Context) (AriaNode, error) {
	tree, err := proto.AccessibilityGetFullAXTree{}.Call(p.page)
	if err != nil {
		return AriaNode{}, fmt.Errorf("capture accessibility tree: %w", err)
	}
	if len(tree.Nodes) == 0 {
		return AriaNode{Role: "WebArea"}, nil
	}
	byID := make(map[proto.AccessibilityAXNodeID]*proto.AccessibilityAXNode, len(tree.Nodes))
	for i := range tree.Nodes {
		byID[tree.Nodes[i].NodeID] = tree.Nodes[i]
	}
	root := tree.Nodes[0]
	return convertAXNode(root, byID), nil
}

func convertAXNode(n *proto.AccessibilityAXNode, byID map[proto.AccessibilityAXNodeID]*proto.AccessibilityAXNode) AriaNode {
	out := AriaNode{}
	if n.Role != nil {
		out.Role = fmt.Sprintf("%v", n.Role.Value)
	}
	if n.Name != nil {
		name := fmt.Sprintf("%v", n.Name.Value)
		out.Name = &name
	}
	if n.Description != nil {
		desc := fmt.Sprintf("%v", n.Description.Value)
		out.Description = &desc
	}
	if n.BackendDOMNodeID != 0 {
		backendID := strconv.Itoa(int(n.BackendDOMNodeID))
		out.NodeRef = &backendID
	}

	for _, prop := range n.Properties {
		switch prop.Name {
		case proto.AccessibilityAXPropertyNameDisabled:
			out.Disabled = asBool(prop.Value)
		case proto.AccessibilityAXPropertyNameExpanded:
			v := asBool(prop.Value)
			out.Expanded = &v
		case proto.AccessibilityAXPropertyNameSelected:
			v := asBool(prop.Value)
			out.Selected = &v
		case proto.AccessibilityAXPropertyNamePressed:
			v := asBool(prop.Value)
			out.Pressed = &v
		case proto.AccessibilityAXPropertyNameLevel:
			if lv, ok := asUint32(prop.Value); ok {
				out.Level = &lv
			}
		}
	}

	for _, childID := range n.ChildIds {
		if child, ok := byID[childID]; ok {
			out.Children = append(out.Children, convertAXNode(child, byID))
		}
	}
	return out
}

func asBool(v *proto.AccessibilityAXValue) bool {
	if v == nil || v.Value == nil {
		return false
	}
	s := fmt.Sprintf("%v", v.Value)
	return s == "true"
}

func asUint32(v *proto.AccessibilityAXValue) (uint32, bool) {
	if v == nil || v.Value == nil {
		return 0, false
	}
	i, err := strconv.Atoi(fmt.Sprintf("%v", v.Value))
	if err != nil {
		return 0, false
	}
	return uint32(i), true
}

func (p *rodPage) Evaluate(ctx context.Context, js string) (interface{}, error) {
	res, err := p.page.Context(ctx).Eval(js)
	if err != nil {
		return nil, EvaluationFailed(err.Error())
	}
	return res.Value.Val(), nil
}

func (p *rodPage) WaitForFunction(ctx context.Context, js string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		res, err := p.page.Context(ctx).Eval(js)
		if err == nil {
			if b, ok := res.Value.Val().(bool); ok && b {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return Timeout(fmt.Sprintf("wait_for_function exceeded %s", timeout))
		}
		time.Sleep(100 * time.Millisecond)
	}
}

func (p *rodPage) Mouse() Mouse       { return &rodMouse{page: p.page} }
func (p *rodPage) Keyboard() Keyboard { return &rodKeyboard{page: p.page} }

func (p *rodPage) Screenshot(ctx context.Context, opts ScreenshotOptions) ([]byte, error) {
	format := proto.PageCaptureScreenshotFormatPng
	if strings.EqualFold(opts.Format, "jpeg") {
		format = proto.PageCaptureScreenshotFormatJpeg
	}
	req := &proto.PageCaptureScreenshot{Format: format}
	if opts.Quality > 0 {
		q := opts.Quality
		req.Quality = &q
	}
	if opts.Clip != nil {
		req.Clip = &proto.PageViewport{
			X: opts.Clip.X, Y: opts.Clip.Y,
			Width: opts.Clip.Width, Height: opts.Clip.Height,
			Scale: 1,
		}
	}
	return p.page.Context(ctx).Screenshot(opts.FullPage, req)
}

func (p *rodPage) PDF(ctx context.Context, opts PDFOptions) ([]byte, error) {
	req := &proto.PagePrintToPDF{
		Landscape:       opts.Landscape,
		PrintBackground: opts.PrintBackground,
		Scale:           opts.Scale,
	}
	if opts.PageRanges != "" {
		req.PageRanges = opts.PageRanges
	}
	if opts.MarginTop > 0 {
		req.MarginTop = &opts.MarginTop
	}
	if opts.MarginBottom > 0 {
		req.MarginBottom = &opts.MarginBottom
	}
	if opts.MarginLeft > 0 {
		req.MarginLeft = &opts.MarginLeft
	}
	if opts.MarginRight > 0 {
		req.MarginRight = &opts.MarginRight
	}
	reader, err := p.page.Context(ctx).PDF(req)
	if err != nil {
		return nil, EvaluationFailed(err.Error())
	}
	buf := make([]byte, 0, 64*1024)
	chunk := make([]byte, 32*1024)
	for {
		n, rerr := reader.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if rerr != nil {
			break
		}
	}
	return buf, nil
}

func (p *rodPage) Locator(selector string) Locator {
	return &rodLocator{page: p.page, selector: selector}
}

func (p *rodPage) LocatorFromRef(ref string) Locator {
	return &rodLocator{page: p.page, backendNodeID: ref}
}

func (p *rodPage) ArmDialog(accept bool, promptText string) error {
	p.dialogAccpt = &accept
	p.dialogText = promptText
	go func() {
		_ = proto.PageJavascriptDialogOpening{}
		wait, handle := p.page.HandleDialog()
		wait()
		_ = handle(&proto.PageHandleJavaScriptDialog{Accept: accept, PromptText: promptText})
	}()
	return nil
}

func (p *rodPage) Cookies(ctx context.Context) ([]Cookie, error) {
	cookies, err := p.page.Context(ctx).Cookies([]string{})
	if err != nil {
		return nil, EvaluationFailed(err.Error())
	}
	out := make([]Cookie, 0, len(cookies))
	for _, c := range cookies {
		out = append(out, Cookie{
			Name: c.Name, Value: c.Value, Domain: c.Domain, Path: c.Path,
			Secure: c.Secure, HTTPOnly: c.HTTPOnly,
		})
	}
	return out, nil
}

func (p *rodPage) SetCookies(ctx context.Context, cookies []Cookie) error {
	params := make([]*proto.NetworkCookieParam, 0, len(cookies))
	for _, c := range cookies {
		params = append(params, &proto.NetworkCookieParam{
			Name: c.Name, Value: c.Value, Domain: c.Domain, Path: c.Path,
			Secure: c.Secure, HTTPOnly: c.HTTPOnly,
		})
	}
	return p.page.Context(ctx).SetCookies(params)
}

func (p *rodPage) Close(ctx context.Context) error { return p.page.Close() }
func (p *rodPage) TargetID() string                { return string(p.page.TargetID) }

// OnConsoleMessage enables the Runtime domain and subscribes handler to
// every Runtime.consoleAPICalled event for the page's lifetime.
func (p *rodPage) OnConsoleMessage(handler func(StoredMessage)) {
	page := p.page
	go func() {
		_ = proto.RuntimeEnable{}.Call(page)
		page.EachEvent(func(e *proto.RuntimeConsoleAPICalled) {
			handler(consoleMessageFromEvent(e))
		})()
	}()
}

func consoleMessageFromEvent(e *proto.RuntimeConsoleAPICalled) StoredMessage {
	msg := StoredMessage{
		Type:      ConsoleMessageType(e.Type),
		Text:      consoleArgsText(e.Args),
		Timestamp: float64(e.Timestamp),
	}
	if e.StackTrace != nil && len(e.StackTrace.CallFrames) > 0 {
		frame := e.StackTrace.CallFrames[0]
		url := frame.URL
		msg.URL = &url
		line := int(frame.LineNumber)
		msg.LineNumber = &line
	}
	return msg
}

func consoleArgsText(args []*proto.RuntimeRemoteObject) string {
	parts := make([]string, 0, len(args))
	for _, a := range args {
		switch {
		case a.Value != nil:
			parts = append(parts, fmt.Sprintf("%v", a.Value.Val()))
		case a.Description != "":
			parts = append(parts, a.Description)
		}
	}
	return strings.Join(parts, " ")
}

// rodMouse adapts rod's page-level mouse device.
type rodMouse struct{ page *rod.Page }

func (m *rodMouse) MoveTo(ctx context.Context, x, y float64, steps int) error {
	return m.page.Context(ctx).Mouse.MoveTo(proto.Point{X: x, Y: y})
}
func (m *rodMouse) Down(ctx context.Context, button string) error {
	return m.page.Context(ctx).Mouse.Down(proto.InputMouseButton(button), 1)
}
func (m *rodMouse) Up(ctx context.Context, button string) error {
	return m.page.Context(ctx).Mouse.Up(proto.InputMouseButton(button), 1)
}
func (m *rodMouse) Click(ctx context.Context, button string, clickCount int) error {
	for i := 0; i < clickCount; i++ {
		if err := m.page.Context(ctx).Mouse.Click(proto.InputMouseButton(button), 1); err != nil {
			return err
		}
	}
	return nil
}

// rodKeyboard adapts rod's page-level keyboard device.
type rodKeyboard struct{ page *rod.Page }

func (k *rodKeyboard) Press(ctx context.Context, key string) error {
	r := []rune(key)
	if len(r) == 0 {
		return nil
	}
	return k.page.Context(ctx).Keyboard.Type(input.Key(r[0]))
}
func (k *rodKeyboard) Type(ctx context.Context, text string) error {
	return k.page.Context(ctx).Keyboard.Type([]input.Key(text)...)
}

// rodLocator adapts a rod element, resolved lazily either by CSS selector or
// by a backend node id recovered from a previous snapshot's ElementRef.
type rodLocator struct {
	page          *rod.Page
	selector      string
	backendNodeID string
	resolved      *rod.Element
}

func (l *rodLocator) element(ctx context.Context) (*rod.Element, error) {
	if l.resolved != nil {
		return l.resolved, nil
	}
	if l.selector != "" {
		el, err := l.page.Context(ctx).Element(l.selector)
		if err != nil {
			return nil, err
		}
		l.resolved = el
		return el, nil
	}
	el, err := l.page.Context(ctx).ElementFromNode(&proto.DOMNode{BackendNodeID: parseBackendNodeID(l.backendNodeID)})
	if err != nil {
		return nil, err
	}
	l.resolved = el
	return el, nil
}

func parseBackendNodeID(ref string) proto.DOMBackendNodeID {
	n, _ := strconv.Atoi(ref)
	return proto.DOMBackendNodeID(n)
}

func (l *rodLocator) Click(ctx context.Context, button string, clickCount int) error {
	el, err := l.element(ctx)
	if err != nil {
		return err
	}
	for i := 0; i < clickCount; i++ {
		if err := el.Click(proto.InputMouseButton(button), 1); err != nil {
			return err
		}
	}
	return nil
}
func (l *rodLocator) Hover(ctx context.Context) error {
	el, err := l.element(ctx)
	if err != nil {
		return err
	}
	return el.Hover()
}
func (l *rodLocator) Fill(ctx context.Context, value string) error {
	el, err := l.element(ctx)
	if err != nil {
		return err
	}
	if err := el.SelectAllText(); err != nil {
		return err
	}
	return el.Input(value)
}
func (l *rodLocator) TypeText(ctx context.Context, text string) error {
	el, err := l.element(ctx)
	if err != nil {
		return err
	}
	for _, r := range text {
		if err := el.Input(string(r)); err != nil {
			return err
		}
	}
	return nil
}
func (l *rodLocator) Press(ctx context.Context, key string) error {
	el, err := l.element(ctx)
	if err != nil {
		return err
	}
	r := []rune(key)
	if len(r) == 0 {
		return nil
	}
	return el.Type(input.Key(r[0]))
}
func (l *rodLocator) Check(ctx context.Context) error {
	el, err := l.element(ctx)
	if err != nil {
		return err
	}
	checked, _ := el.Property("checked")
	if checked.Bool() {
		return nil
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}
func (l *rodLocator) Uncheck(ctx context.Context) error {
	el, err := l.element(ctx)
	if err != nil {
		return err
	}
	checked, _ := el.Property("checked")
	if !checked.Bool() {
		return nil
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}
func (l *rodLocator) SelectOption(ctx context.Context, values []string, byLabel bool) error {
	el, err := l.element(ctx)
	if err != nil {
		return err
	}
	selector := "value"
	if byLabel {
		selector = "text"
	}
	_, err = el.Select(values, true, rod.SelectorType(selector))
	return err
}
func (l *rodLocator) ScrollIntoViewIfNeeded(ctx context.Context) error {
	el, err := l.element(ctx)
	if err != nil {
		return err
	}
	return el.ScrollIntoView()
}
func (l *rodLocator) DragTo(ctx context.Context, other Locator) error {
	el, err := l.element(ctx)
	if err != nil {
		return err
	}
	otherLoc, ok := other.(*rodLocator)
	if !ok {
		return fmt.Errorf("drag target is not a rod locator")
	}
	otherEl, err := otherLoc.element(ctx)
	if err != nil {
		return err
	}
	box, err := otherEl.Shape()
	if err != nil {
		return err
	}
	center := box.Box().Center()
	return el.Drag(proto.Point{X: center.X, Y: center.Y})
}
func (l *rodLocator) SetInputFiles(ctx context.Context, paths []string) error {
	el, err := l.element(ctx)
	if err != nil {
		return err
	}
	return el.SetFiles(paths)
}
func (l *rodLocator) BoundingBox(ctx context.Context) (*Rect, error) {
	el, err := l.element(ctx)
	if err != nil {
		return nil, err
	}
	shape, err := el.Shape()
	if err != nil {
		return nil, err
	}
	box := shape.Box()
	return &Rect{X: box.X, Y: box.Y, Width: box.Width, Height: box.Height}, nil
}
func (l *rodLocator) Evaluate(ctx context.Context, js string) (interface{}, error) {
	el, err := l.element(ctx)
	if err != nil {
		return nil, err
	}
	res, err := el.Eval(js)
	if err != nil {
		return nil, err
	}
	return res.Value.Val(), nil
}
func (l *rodLocator) Property(ctx context.Context, name string) (interface{}, error) {
	el, err := l.element(ctx)
	if err != nil {
		return nil, err
	}
	prop, err := el.Property(name)
	if err != nil {
		return nil, err
	}
	return prop.Val(), nil
}
