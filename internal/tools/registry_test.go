package tools

import (
	"context"
	"testing"
)

type stubTool struct {
	baseTool
	name string
}

func (s *stubTool) Name() string                         { return s.name }
func (s *stubTool) Description() string                  { return "stub" }
func (s *stubTool) InputSchema() map[string]interface{}  { return map[string]interface{}{} }
func (s *stubTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return "ok", nil
}

type stubGatedTool struct {
	gatedTool
	name string
}

func (s *stubGatedTool) Name() string                        { return s.name }
func (s *stubGatedTool) Description() string                 { return "stub gated" }
func (s *stubGatedTool) InputSchema() map[string]interface{} { return map[string]interface{}{} }
func (s *stubGatedTool) Execute(ctx context.Context, args map[string]interface{}) (interface{}, error) {
	return "ok", nil
}

func TestRegistryGetRespectsCapabilityGate(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(&stubTool{name: "browser_plain"})
	reg.Register(&stubGatedTool{gatedTool: gatedTool{capability: CapabilityVision}, name: "browser_vision_only"})

	if _, err := reg.Get("browser_plain"); err != nil {
		t.Errorf("ungated tool should be available, got error: %v", err)
	}
	if _, err := reg.Get("browser_vision_only"); err == nil {
		t.Error("vision-gated tool should not be available without the capability declared")
	}

	gatedReg := NewRegistry([]Capability{CapabilityVision})
	gatedReg.Register(&stubGatedTool{gatedTool: gatedTool{capability: CapabilityVision}, name: "browser_vision_only"})
	if _, err := gatedReg.Get("browser_vision_only"); err != nil {
		t.Errorf("vision-gated tool should be available once the capability is declared, got error: %v", err)
	}
}

func TestRegistryGetUnknownTool(t *testing.T) {
	reg := NewRegistry(nil)
	if _, err := reg.Get("nonexistent"); err == nil {
		t.Error("expected error for unregistered tool")
	}
}

func TestRegistryGetUncheckedBypassesGate(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(&stubGatedTool{gatedTool: gatedTool{capability: CapabilityPdf}, name: "browser_pdf_save"})

	if _, err := reg.GetUnchecked("browser_pdf_save"); err != nil {
		t.Errorf("GetUnchecked should bypass the capability gate, got error: %v", err)
	}
	if _, err := reg.GetUnchecked("nonexistent"); err == nil {
		t.Error("GetUnchecked should still fail for an unregistered name")
	}
}

func TestRegistryListIsSortedAndFiltered(t *testing.T) {
	reg := NewRegistry(nil)
	reg.Register(&stubTool{name: "browser_zzz"})
	reg.Register(&stubTool{name: "browser_aaa"})
	reg.Register(&stubGatedTool{gatedTool: gatedTool{capability: CapabilityPdf}, name: "browser_pdf_save"})

	list := reg.List()
	if len(list) != 2 {
		t.Fatalf("expected 2 visible tools (gated one hidden), got %d", len(list))
	}
	if list[0].Name() != "browser_aaa" || list[1].Name() != "browser_zzz" {
		t.Errorf("expected sorted order [browser_aaa, browser_zzz], got [%s, %s]", list[0].Name(), list[1].Name())
	}
}

func TestRegistryHasCapability(t *testing.T) {
	reg := NewRegistry([]Capability{CapabilityVision})
	if !reg.HasCapability(CapabilityVision) {
		t.Error("expected vision capability to be active")
	}
	if reg.HasCapability(CapabilityPdf) {
		t.Error("expected pdf capability to be inactive")
	}
}
