package snapshot

import (
	"fmt"
	"strings"
)

// StoredElementInfo is what the stale detector remembers about a refed
// element between snapshots.
type StoredElementInfo struct {
	Role        string
	Name        *string
	Description string
}

// SimilarElement is a suggestion surfaced when a ref's element was removed.
type SimilarElement struct {
	RefString  string
	Description string
	Similarity float64
}

// StaleKind distinguishes the three non-OK outcomes of ref validation.
type StaleKind int

// Stale-validation outcomes.
const (
	StaleNone StaleKind = iota
	StaleMinorChange
	StaleElementChanged
	StaleElementRemoved
)

// StaleError reports that a caller-supplied ref is stale against the
// current snapshot.
type StaleError struct {
	Kind                StaleKind
	RefString           string
	OriginalDescription string
	Was                 string
	Now                 string
	ChangeDescription   string
	Similar             []SimilarElement
}

func (e *StaleError) Error() string {
	switch e.Kind {
	case StaleElementRemoved:
		var sb strings.Builder
		fmt.Fprintf(&sb, "Element '%s' (ref: %s) no longer exists.", e.OriginalDescription, e.RefString)
		for i, s := range e.Similar {
			if i >= 3 {
				break
			}
			fmt.Fprintf(&sb, "\n  - %s (ref: %s)", s.Description, s.RefString)
		}
		sb.WriteString("\nTake a new snapshot to see the current page state.")
		return sb.String()
	case StaleElementChanged:
		return fmt.Sprintf("Element changed since snapshot.\nWas: %s\nNow: %s\nTake a new snapshot to see the current page state.", e.Was, e.Now)
	case StaleMinorChange:
		return fmt.Sprintf("Note: Element may have changed (%s). Using current state.", e.ChangeDescription)
	default:
		return "stale ref"
	}
}

// snapshotInfo summarizes the refed elements of one capture.
type snapshotInfo struct {
	elements map[string]StoredElementInfo
}

// StaleDetector tracks two successive snapshot summaries and classifies
// ref validity between them.
type StaleDetector struct {
	previous *snapshotInfo
	current  *snapshotInfo
}

// NewStaleDetector constructs an empty detector.
func NewStaleDetector() *StaleDetector { return &StaleDetector{} }

// Update shifts current->previous and extracts a new current summary from
// the freshly captured root.
func (d *StaleDetector) Update(root *Element) {
	d.previous = d.current
	info := &snapshotInfo{elements: make(map[string]StoredElementInfo)}
	collectElements(root, info.elements)
	d.current = info
}

func collectElements(e *Element, into map[string]StoredElementInfo) {
	if e.HasRef() {
		into[e.RefString()] = StoredElementInfo{
			Role:        e.Role,
			Name:        e.Name,
			Description: describeElement(e.Role, e.Name),
		}
	}
	for _, c := range e.Children {
		collectElements(c, into)
	}
}

func describeElement(role string, name *string) string {
	n := ""
	if name != nil {
		n = *name
	}
	return strings.TrimSpace(role + " " + n)
}

// ValidateRef classifies a caller-supplied ref against the tracked
// snapshots.
func (d *StaleDetector) ValidateRef(ref string) error {
	if d.current == nil {
		return nil // no capture yet: skip validation
	}

	curr, inCurr := d.current.elements[ref]
	if inCurr {
		if d.previous == nil {
			return nil
		}
		prev, inPrev := d.previous.elements[ref]
		if !inPrev {
			return nil
		}
		if !strings.EqualFold(prev.Role, curr.Role) {
			return &StaleError{
				Kind:      StaleElementChanged,
				RefString: ref,
				Was:       describeElement(prev.Role, prev.Name),
				Now:       describeElement(curr.Role, curr.Name),
			}
		}
		prevName := ""
		if prev.Name != nil {
			prevName = *prev.Name
		}
		currName := ""
		if curr.Name != nil {
			currName = *curr.Name
		}
		if prevName != currName {
			return &StaleError{
				Kind:              StaleMinorChange,
				RefString:         ref,
				ChangeDescription: "name changed",
			}
		}
		return nil
	}

	// Not in current. Removed iff it was in previous.
	if d.previous != nil {
		if prev, ok := d.previous.elements[ref]; ok {
			return &StaleError{
				Kind:                StaleElementRemoved,
				RefString:           ref,
				OriginalDescription: prev.Description,
				Similar:             findSimilarElements(ref, d.current),
			}
		}
	}
	return nil
}

// findSimilarElements returns up-to-3 suggestions for a removed ref. The
// original source leaves this list empty; the Go port preserves that
// behavior rather than inventing a similarity heuristic that was never
// specified.
func findSimilarElements(ref string, current *snapshotInfo) []SimilarElement {
	return nil
}
