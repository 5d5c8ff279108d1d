package browser

import (
	"context"
	"log"
	"strings"
)

// DefaultContext is the name of the always-present default context.
const DefaultContext = "default"

// connectionLossPatterns are case-sensitive substrings that, when found in
// a tool error's message, indicate the CDP connection itself was lost
// rather than the operation merely failing.
var connectionLossPatterns = []string{
	"WebSocket connection lost",
	"ConnectionLost",
	"connection lost",
	"connection closed",
	"WebSocket error",
	"WebSocket closed",
	"channel closed",
	"browser disconnected",
	"CDP connection",
}

// IsConnectionLossError reports whether msg contains any of the known
// connection-loss substrings.
func IsConnectionLossError(msg string) bool {
	for _, p := range connectionLossPatterns {
		if strings.Contains(msg, p) {
			return true
		}
	}
	return false
}

// State owns a single browser instance and its named contexts. Tools
// operate on the active context's active page. It is not safe for
// concurrent use; callers (the MCP dispatcher) must serialize access under
// a single writer lock.
type State struct {
	config        Config
	initialized   bool
	contexts      map[string]*ContextState
	activeContext string
	browserHandle CollabBrowser

	// launch is the injection point for the production go-rod launcher,
	// overridden by tests with a fake.
	launch func(ctx context.Context, cfg Config) (CollabBrowser, error)
}

// NewState constructs a browser state manager in the uninitialized state.
func NewState(cfg Config) *State {
	return &State{
		config:        cfg,
		activeContext: DefaultContext,
		contexts:      make(map[string]*ContextState),
		launch:        LaunchRod,
	}
}

// WithLauncher overrides the launch/attach function; used by tests to
// inject a fake CollabBrowser.
func (s *State) WithLauncher(fn func(ctx context.Context, cfg Config) (CollabBrowser, error)) *State {
	s.launch = fn
	return s
}

// Config returns the browser configuration.
func (s *State) Config() Config { return s.config }

// IsInitialized reports whether the browser has been launched/attached.
func (s *State) IsInitialized() bool { return s.initialized }

// Browser returns the underlying collaborator handle, if initialized.
func (s *State) Browser() (CollabBrowser, bool) {
	if s.browserHandle == nil {
		return nil, false
	}
	return s.browserHandle, true
}

// Initialize lazily launches or attaches the browser on first tool call.
// Idempotent: repeated calls after a successful launch are a no-op.
func (s *State) Initialize(ctx context.Context) error {
	if s.initialized {
		return nil
	}

	log.Printf("initializing browser (headless=%v cdp_endpoint=%q)", s.config.Headless, s.config.CDPEndpoint)

	b, err := s.launch(ctx, s.config)
	if err != nil {
		return err
	}
	s.browserHandle = b

	if err := s.createContextInternal(ctx, DefaultContext, nil); err != nil {
		return err
	}

	s.initialized = true
	return nil
}

// Shutdown orderly-closes every context then the browser.
func (s *State) Shutdown(ctx context.Context) {
	if !s.initialized {
		return
	}
	log.Printf("shutting down browser")
	for name, c := range s.contexts {
		_ = c.Close(ctx)
		delete(s.contexts, name)
	}
	if s.browserHandle != nil {
		_ = s.browserHandle.Close(ctx)
		s.browserHandle = nil
	}
	s.initialized = false
}

// ResetOnConnectionLoss drops all state without attempting to close
// anything (the remote endpoint is unreachable), so the next tool call
// re-initializes from scratch.
func (s *State) ResetOnConnectionLoss() {
	log.Printf("resetting browser state after connection loss")
	s.contexts = make(map[string]*ContextState)
	s.browserHandle = nil
	s.initialized = false
	s.activeContext = DefaultContext
}

// HandlePotentialConnectionLoss checks errMsg against the connection-loss
// classifier and, if it matches, resets state. Returns true if a reset
// occurred.
func (s *State) HandlePotentialConnectionLoss(errMsg string) bool {
	if IsConnectionLossError(errMsg) {
		log.Printf("detected browser connection loss: %s", errMsg)
		s.ResetOnConnectionLoss()
		return true
	}
	return false
}

// ActiveContext returns the active context.
func (s *State) ActiveContext() (*ContextState, error) {
	c, ok := s.contexts[s.activeContext]
	if !ok {
		return nil, ContextNotFound(s.activeContext)
	}
	return c, nil
}

// ActiveContextName returns the name of the active context.
func (s *State) ActiveContextName() string { return s.activeContext }

// GetContext returns a named context.
func (s *State) GetContext(name string) (*ContextState, error) {
	c, ok := s.contexts[name]
	if !ok {
		return nil, ContextNotFound(name)
	}
	return c, nil
}

// ListContexts returns every context, in no particular order.
func (s *State) ListContexts() []*ContextState {
	out := make([]*ContextState, 0, len(s.contexts))
	for _, c := range s.contexts {
		out = append(out, c)
	}
	return out
}

func (s *State) createContextInternal(ctx context.Context, name string, proxy *ProxyConfig) error {
	if s.browserHandle == nil {
		return NotRunning()
	}
	vpContext, err := s.browserHandle.NewContext(ctx, proxy)
	if err != nil {
		return LaunchFailed(err.Error())
	}
	page, err := vpContext.NewPage(ctx, "about:blank")
	if err != nil {
		return LaunchFailed(err.Error())
	}
	state := NewContextState(name, vpContext, page).WithProxy(proxy)
	s.contexts[name] = state
	s.activeContext = name
	return nil
}

// CreateContext creates a new named context with no proxy.
func (s *State) CreateContext(ctx context.Context, name string) error {
	return s.CreateContextWithOptions(ctx, name, nil)
}

// CreateContextWithOptions creates a new named context, optionally with a
// proxy. Errors if the name is already in use.
func (s *State) CreateContextWithOptions(ctx context.Context, name string, proxy *ProxyConfig) error {
	if _, exists := s.contexts[name]; exists {
		return ContextNotFound("context '" + name + "' already exists")
	}
	log.Printf("creating browser context %q", name)
	return s.createContextInternal(ctx, name, proxy)
}

// SwitchContext makes a named context active.
func (s *State) SwitchContext(name string) error {
	if _, ok := s.contexts[name]; !ok {
		return ContextNotFound(name)
	}
	s.activeContext = name
	return nil
}

// CloseContext closes a named context. If it was active, default becomes
// active again (recreated if necessary).
func (s *State) CloseContext(ctx context.Context, name string) error {
	c, ok := s.contexts[name]
	if !ok {
		return ContextNotFound(name)
	}
	if len(s.contexts) <= 1 {
		return LastContext()
	}
	delete(s.contexts, name)
	log.Printf("closing browser context %q", name)
	_ = c.Close(ctx)

	if s.activeContext == name {
		s.activeContext = DefaultContext
		if _, ok := s.contexts[DefaultContext]; !ok {
			return s.createContextInternal(ctx, DefaultContext, nil)
		}
	}
	return nil
}
