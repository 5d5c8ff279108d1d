package snapshot

import (
	"context"

	"github.com/stephenstubbs/viewpoint-mcp/internal/browser"
)

// compactModeThreshold is the refable-element count above which the
// formatter enters compact mode.
const compactModeThreshold = 100

// Options configure a single capture.
type Options struct {
	AllRefs bool
	Context string // optional context-name scope, prefixes minted refs
}

// Snapshot is a captured, formatted, ref-validated accessibility tree.
type Snapshot struct {
	root         *Element
	refMap       map[string]Ref
	compactMode  bool
	formatter    *Formatter
	staleDetect  *StaleDetector
	context      string
	refCount     int
	elementCount int
}

// Capture obtains the page's native ARIA tree (with iframe content stitched
// in by the collaborator) and converts it into a Snapshot.
func Capture(ctx context.Context, page browser.Page, opts Options, detector *StaleDetector) (*Snapshot, error) {
	ariaRoot, err := page.AriaSnapshotWithFrames(ctx)
	if err != nil {
		return nil, CaptureError(err.Error())
	}

	var gen *RefGenerator
	if opts.Context != "" {
		gen = NewRefGeneratorWithContext(opts.Context)
	} else {
		gen = NewRefGenerator()
	}

	refMap := make(map[string]Ref)
	root := convertAriaNode(ariaRoot, gen, refMap, false, opts.AllRefs)

	refCount, elementCount := root.Counts()
	compact := !opts.AllRefs && refCount > compactModeThreshold

	if detector == nil {
		detector = NewStaleDetector()
	}
	detector.Update(root)

	return &Snapshot{
		root:         root,
		refMap:       refMap,
		compactMode:  compact,
		formatter:    NewFormatter(opts.AllRefs, compact),
		staleDetect:  detector,
		context:      opts.Context,
		refCount:     refCount,
		elementCount: elementCount,
	}, nil
}

func convertAriaNode(n browser.AriaNode, gen *RefGenerator, refMap map[string]Ref, inContainer bool, allRefs bool) *Element {
	e := &Element{
		Role:                   n.Role,
		Name:                   n.Name,
		Description:            n.Description,
		Disabled:               n.Disabled,
		Expanded:               n.Expanded,
		Selected:               n.Selected,
		Pressed:                n.Pressed,
		Level:                  n.Level,
		IsFrame:                n.IsFrame,
		IsInteractiveContainer: IsInteractiveContainer(n.Role),
	}
	e.Checked = n.Checked
	e.Value = n.ValueNow

	isContainer := e.IsInteractiveContainer
	hasNonNegTabIndex := n.HasTabIndex && n.TabIndexNonNeg
	shouldRef := allRefs || ShouldReceiveRef(n.Role, inContainer, hasNonNegTabIndex)

	if shouldRef {
		native := ""
		if n.NodeRef != nil {
			native = *n.NodeRef
		}
		ref := gen.Generate(native)
		e.Ref = &ref
		refMap[ref.String()] = ref
	}

	childInContainer := inContainer || isContainer
	for _, child := range n.Children {
		e.Children = append(e.Children, convertAriaNode(child, gen, refMap, childInContainer, allRefs))
	}
	return e
}

// Format renders the snapshot's text document.
func (s *Snapshot) Format() string {
	return s.formatter.Format(s.root, s.refCount, s.elementCount)
}

// Lookup resolves a ref string against this snapshot: parses it, validates
// staleness, then checks presence in the ref map. Error priority:
// InvalidRefFormat -> StaleRef -> RefNotFound.
func (s *Snapshot) Lookup(refString string) (Ref, error) {
	parsed, err := ParseRef(refString)
	if err != nil {
		return Ref{}, err
	}
	if staleErr := s.staleDetect.ValidateRef(parsed.String()); staleErr != nil {
		if se, ok := staleErr.(*StaleError); ok && (se.Kind == StaleElementRemoved || se.Kind == StaleElementChanged) {
			return Ref{}, staleErr
		}
		// MinorChange is non-fatal: fall through to the ref-map lookup.
	}
	if ref, ok := s.refMap[parsed.String()]; ok {
		return ref, nil
	}
	return Ref{}, RefNotFoundError(refString)
}

// Root returns the root element.
func (s *Snapshot) Root() *Element { return s.root }

// IsCompact reports whether the snapshot is in compact mode.
func (s *Snapshot) IsCompact() bool { return s.compactMode }

// RefCount returns the number of refable elements.
func (s *Snapshot) RefCount() int { return s.refCount }

// ElementCount returns the total element count.
func (s *Snapshot) ElementCount() int { return s.elementCount }

// Context returns the optional context-name scope.
func (s *Snapshot) Context() string { return s.context }
