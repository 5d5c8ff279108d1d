package tools

import "sort"

// Registry holds every registered tool and answers capability-gated
// lookups for the MCP server's tools/list and tools/call handlers.
type Registry struct {
	tools        map[string]Tool
	capabilities map[Capability]bool
}

// NewRegistry constructs an empty registry with the given client-declared
// capabilities active.
func NewRegistry(capabilities []Capability) *Registry {
	r := &Registry{
		tools:        make(map[string]Tool),
		capabilities: make(map[Capability]bool, len(capabilities)),
	}
	for _, c := range capabilities {
		r.capabilities[c] = true
	}
	return r
}

// Register adds a tool, overwriting any prior registration under the same
// name (registration is idempotent by design: re-registering is a no-op in
// effect, since the last registration simply wins).
func (r *Registry) Register(t Tool) {
	r.tools[t.Name()] = t
}

// HasCapability reports whether the named capability was declared active.
func (r *Registry) HasCapability(c Capability) bool {
	return r.capabilities[c]
}

// isAvailable reports whether a tool's capability gate (if any) is satisfied.
func (r *Registry) isAvailable(t Tool) bool {
	cap, gated := t.RequiredCapability()
	if !gated {
		return true
	}
	return r.capabilities[cap]
}

// IsToolAvailable reports whether name is both registered and its
// capability gate (if any) is satisfied.
func (r *Registry) IsToolAvailable(name string) bool {
	t, ok := r.tools[name]
	if !ok {
		return false
	}
	return r.isAvailable(t)
}

// Get returns a tool only if it is registered AND its capability gate is
// satisfied; otherwise it reports the tool as not found, matching the
// tools/list visibility contract.
func (r *Registry) Get(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok || !r.isAvailable(t) {
		return nil, NotFoundError(name)
	}
	return t, nil
}

// GetUnchecked returns a tool regardless of its capability gate, for
// callers (internal diagnostics, tests) that need to bypass visibility
// rules. It still fails if the name was never registered.
func (r *Registry) GetUnchecked(name string) (Tool, error) {
	t, ok := r.tools[name]
	if !ok {
		return nil, NotFoundError(name)
	}
	return t, nil
}

// List returns every tool currently visible under the registry's active
// capabilities, sorted by name for deterministic tools/list responses.
func (r *Registry) List() []Tool {
	out := make([]Tool, 0, len(r.tools))
	for _, t := range r.tools {
		if r.isAvailable(t) {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name() < out[j].Name() })
	return out
}
