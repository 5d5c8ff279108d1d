package browser

import (
	"fmt"
	"strconv"
	"strings"
)

// BrowserType selects which Chromium-family binary to launch or attach to.
type BrowserType int

const (
	// Chromium is the default, open-source build.
	Chromium BrowserType = iota
	// Chrome is the proprietary Google build.
	Chrome
)

// String renders the browser type for config round-tripping and logging.
func (t BrowserType) String() string {
	switch t {
	case Chrome:
		return "chrome"
	default:
		return "chromium"
	}
}

// ParseBrowserType parses a case-insensitive browser kind name.
func ParseBrowserType(s string) (BrowserType, error) {
	switch strings.ToLower(s) {
	case "", "chromium":
		return Chromium, nil
	case "chrome":
		return Chrome, nil
	default:
		return Chromium, fmt.Errorf("unknown browser type: %q", s)
	}
}

// MarshalYAML renders the type as its string name.
func (t BrowserType) MarshalYAML() (interface{}, error) {
	return t.String(), nil
}

// UnmarshalYAML accepts the case-insensitive string name.
func (t *BrowserType) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseBrowserType(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// ViewportSize is a browser viewport in device-independent pixels.
type ViewportSize struct {
	Width  uint32 `yaml:"width"`
	Height uint32 `yaml:"height"`
}

// NewViewportSize constructs a viewport with explicit dimensions.
func NewViewportSize(width, height uint32) ViewportSize {
	return ViewportSize{Width: width, Height: height}
}

// ParseViewportSize parses a "WIDTHxHEIGHT" string, e.g. "1920x1080".
//
// It rejects strings that do not split into exactly two integer parts
// separated by a single "x".
func ParseViewportSize(s string) (ViewportSize, error) {
	parts := strings.Split(s, "x")
	if len(parts) != 2 {
		return ViewportSize{}, fmt.Errorf("invalid viewport size %q: expected WIDTHxHEIGHT", s)
	}

	width, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 10, 32)
	if err != nil {
		return ViewportSize{}, fmt.Errorf("invalid viewport width in %q: %w", s, err)
	}
	height, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 10, 32)
	if err != nil {
		return ViewportSize{}, fmt.Errorf("invalid viewport height in %q: %w", s, err)
	}

	return ViewportSize{Width: uint32(width), Height: uint32(height)}, nil
}

// ProxyConfig configures an outbound proxy for a browser context.
type ProxyConfig struct {
	Server   string  `yaml:"server"`
	Username *string `yaml:"username,omitempty"`
	Password *string `yaml:"password,omitempty"`
	Bypass   *string `yaml:"bypass,omitempty"`
}

// NewProxyConfig constructs a bare proxy config with only a server URL.
func NewProxyConfig(server string) ProxyConfig {
	return ProxyConfig{Server: server}
}

// WithAuth attaches basic-auth credentials to the proxy config.
func (p ProxyConfig) WithAuth(username, password string) ProxyConfig {
	p.Username = &username
	p.Password = &password
	return p
}

// WithBypass attaches a bypass list to the proxy config.
func (p ProxyConfig) WithBypass(bypass string) ProxyConfig {
	p.Bypass = &bypass
	return p
}

// Config configures browser launch/attach behavior.
type Config struct {
	// Headless controls whether Chromium runs without a visible window.
	Headless bool `yaml:"headless"`
	// Type selects chromium (default) or chrome.
	Type BrowserType `yaml:"type"`
	// Viewport is the default new-page viewport; nil lets the browser decide.
	Viewport *ViewportSize `yaml:"viewport,omitempty"`
	// CDPEndpoint, if set, attaches to a running browser instead of launching one.
	// A ws://or wss:// value is dialed directly; any other value is treated as
	// an HTTP endpoint whose WebSocket debugger URL is auto-discovered.
	CDPEndpoint string `yaml:"cdp_endpoint,omitempty"`
	// UserDataDir is the Chromium profile directory used when launching.
	UserDataDir string `yaml:"user_data_dir,omitempty"`
}

// DefaultConfig returns the default browser configuration: headless Chromium,
// no CDP endpoint (so the state manager launches its own instance).
func DefaultConfig() Config {
	return Config{
		Headless: true,
		Type:     Chromium,
	}
}
