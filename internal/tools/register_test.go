package tools

import (
	"context"
	"testing"
)

func TestRegisterAllWiresEveryTool(t *testing.T) {
	deps := newTestDeps(t)
	reg := NewRegistry(nil)
	RegisterAll(reg, deps)

	const wantCore = 27
	if got := len(reg.List()); got != wantCore {
		t.Errorf("tools/list with no capabilities = %d tools, want %d core tools", got, wantCore)
	}

	full := NewRegistry([]Capability{CapabilityVision, CapabilityPdf})
	RegisterAll(full, deps)
	const wantAll = 31
	if got := len(full.List()); got != wantAll {
		t.Errorf("tools/list with vision+pdf = %d tools, want %d", got, wantAll)
	}
}

func TestRegisterAllEndToEndNavigateAndSnapshot(t *testing.T) {
	deps := newTestDeps(t)
	reg := NewRegistry(nil)
	RegisterAll(reg, deps)

	navTool, err := reg.Get("browser_navigate")
	if err != nil {
		t.Fatalf("browser_navigate not registered: %v", err)
	}
	if _, err := navTool.Execute(context.Background(), map[string]interface{}{"url": "https://example.com"}); err != nil {
		t.Fatalf("browser_navigate Execute failed: %v", err)
	}

	snapTool, err := reg.Get("browser_snapshot")
	if err != nil {
		t.Fatalf("browser_snapshot not registered: %v", err)
	}
	if _, err := snapTool.Execute(context.Background(), map[string]interface{}{}); err != nil {
		t.Fatalf("browser_snapshot Execute failed: %v", err)
	}
}
