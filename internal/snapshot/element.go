// Package snapshot implements the accessibility-snapshot engine: capture,
// classification, ref minting, text formatting, and stale-ref detection
// over a page's ARIA tree.
package snapshot

import "github.com/stephenstubbs/viewpoint-mcp/internal/browser"

// CheckedState mirrors browser.CheckedState for snapshot rendering.
type CheckedState = browser.CheckedState

// Element is one node of the captured accessibility tree.
type Element struct {
	Role                     string
	Name                     *string
	Description              *string
	Ref                      *Ref
	Disabled                 bool
	Expanded                 *bool
	Selected                 *bool
	Checked                  *CheckedState
	Pressed                  *bool
	Level                    *uint32
	Value                    *float64
	IsFrame                  bool
	IsInteractiveContainer   bool
	Children                 []*Element
}

// New constructs a bare element with only a role set.
func New(role string) *Element { return &Element{Role: role} }

// WithName sets the accessible name, returning the element for chaining.
func (e *Element) WithName(name string) *Element {
	e.Name = &name
	return e
}

// WithRef sets the element ref, returning the element for chaining.
func (e *Element) WithRef(ref Ref) *Element {
	e.Ref = &ref
	return e
}

// WithChild appends a child element, returning the parent for chaining.
func (e *Element) WithChild(child *Element) *Element {
	e.Children = append(e.Children, child)
	return e
}

// HasRef reports whether this element carries a ref.
func (e *Element) HasRef() bool { return e.Ref != nil }

// RefString returns the ref's string form, or "" if unrefed.
func (e *Element) RefString() string {
	if e.Ref == nil {
		return ""
	}
	return e.Ref.String()
}

// CountRefs recursively counts refed elements in the subtree rooted at e.
func (e *Element) CountRefs() int {
	n := 0
	if e.HasRef() {
		n = 1
	}
	for _, c := range e.Children {
		n += c.CountRefs()
	}
	return n
}

// CountElements recursively counts all elements in the subtree rooted at e.
func (e *Element) CountElements() int {
	n := 1
	for _, c := range e.Children {
		n += c.CountElements()
	}
	return n
}

// Counts returns (refCount, elementCount) in a single pass, mirroring the
// original source's combined fold to avoid walking the tree twice.
func (e *Element) Counts() (refCount, elementCount int) {
	elementCount = 1
	if e.HasRef() {
		refCount = 1
	}
	for _, c := range e.Children {
		cr, ce := c.Counts()
		refCount += cr
		elementCount += ce
	}
	return refCount, elementCount
}
