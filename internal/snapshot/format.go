package snapshot

import (
	"fmt"
	"strings"
)

const (
	maxTextLength = 100
	indentUnit    = "  "
)

// compactModeHint is appended after the tree when the formatter is in
// compact mode.
const compactModeHint = "\n[Note: Page has many interactive elements. Use browser_snapshot with allRefs: true for complete refs.]"

// Formatter renders a captured tree into the deterministic indented-list
// text document LLM clients consume.
type Formatter struct {
	allRefs     bool
	compactMode bool
}

// NewFormatter constructs a formatter for the given capture options.
func NewFormatter(allRefs, compactMode bool) *Formatter {
	return &Formatter{allRefs: allRefs, compactMode: compactMode}
}

// Format renders the full document: header, blank line, indented tree, and
// (in compact mode) a trailing hint.
func (f *Formatter) Format(root *Element, refCount, elementCount int) string {
	var sb strings.Builder
	sb.Grow(elementCount*80 + 64)

	header := fmt.Sprintf("Page snapshot (%d elements, %d refs", elementCount, refCount)
	if f.compactMode {
		header += ", compact mode"
	}
	header += ")\n\n"
	sb.WriteString(header)

	f.formatElement(&sb, root, 0)

	out := sb.String()
	if f.compactMode {
		out += compactModeHint
	}
	return out
}

func (f *Formatter) formatElement(sb *strings.Builder, e *Element, depth int) {
	for i := 0; i < depth; i++ {
		sb.WriteString(indentUnit)
	}
	sb.WriteString("- ")
	sb.WriteString(e.Role)

	if e.Name != nil && *e.Name != "" {
		sb.WriteString(" \"")
		sb.WriteString(TruncateText(*e.Name, maxTextLength))
		sb.WriteString("\"")
	}

	if e.IsFrame {
		sb.WriteString(" [frame-boundary]")
	}

	sb.WriteString(formatState(e))

	if e.HasRef() {
		sb.WriteString(" [ref=")
		sb.WriteString(e.RefString())
		sb.WriteString("]")
	}
	sb.WriteString("\n")

	for _, c := range e.Children {
		f.formatElement(sb, c, depth+1)
	}
}

// formatState renders the fixed-order state suffix:
// (disabled)(expanded|collapsed)(selected)(checked|unchecked|mixed)(pressed)(level N)(value: V)
func formatState(e *Element) string {
	var sb strings.Builder

	if e.Disabled {
		sb.WriteString(" (disabled)")
	}
	if e.Expanded != nil {
		if *e.Expanded {
			sb.WriteString(" (expanded)")
		} else {
			sb.WriteString(" (collapsed)")
		}
	}
	if e.Selected != nil && *e.Selected {
		sb.WriteString(" (selected)")
	}
	if e.Checked != nil {
		switch *e.Checked {
		case CheckedTrue:
			sb.WriteString(" (checked)")
		case CheckedFalse:
			sb.WriteString(" (unchecked)")
		case CheckedMixed:
			sb.WriteString(" (mixed)")
		}
	}
	if e.Pressed != nil && *e.Pressed {
		sb.WriteString(" (pressed)")
	}
	if e.Level != nil {
		sb.WriteString(fmt.Sprintf(" (level %d)", *e.Level))
	}
	if e.Value != nil {
		sb.WriteString(fmt.Sprintf(" (value: %v)", *e.Value))
	}
	return sb.String()
}

// TruncateText truncates text to at most maxChars visible runes, appending
// an ellipsis at a rune boundary. Unlike the original source's byte-slice
// approach, this always yields valid UTF-8 because it iterates runes, never
// splitting a multi-byte code point.
func TruncateText(text string, maxChars int) string {
	runes := []rune(text)
	if len(runes) <= maxChars {
		return text
	}
	if maxChars <= 1 {
		return "…"
	}
	return string(runes[:maxChars-1]) + "…"
}
