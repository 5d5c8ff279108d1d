package snapshot

import (
	"fmt"
	"strings"
)

// Ref is an opaque textual handle identifying an element within the
// snapshot that minted it. Native form is "e{backendNodeId}", optionally
// prefixed with a context/page/frame segment: "{context}:e{N}".
type Ref struct {
	refString string
	context   string
	hasCtx    bool
}

// NewRef wraps a bare ref string with no context prefix.
func NewRef(refString string) Ref {
	return Ref{refString: refString}
}

// NewRefWithContext wraps a ref string with an explicit context prefix.
func NewRefWithContext(refString, context string) Ref {
	return Ref{refString: refString, context: context, hasCtx: true}
}

// RefString returns the bare ref string, without any context prefix.
func (r Ref) RefString() string { return r.refString }

// Context returns the context prefix and whether one is set.
func (r Ref) Context() (string, bool) { return r.context, r.hasCtx }

// String renders the ref in its canonical wire form.
func (r Ref) String() string {
	if r.hasCtx {
		return r.context + ":" + r.refString
	}
	return r.refString
}

// ParseRef validates and parses a caller-supplied ref string. Accepts only
// `e\d+` or `{context}:e\d+`; anything else is InvalidRefFormat.
func ParseRef(s string) (Ref, error) {
	if idx := strings.IndexByte(s, ':'); idx >= 0 {
		ctx := s[:idx]
		rest := s[idx+1:]
		if ctx == "" || !isValidRefBody(rest) {
			return Ref{}, InvalidRefFormatError(s)
		}
		return NewRefWithContext(rest, ctx), nil
	}
	if !isValidRefBody(s) {
		return Ref{}, InvalidRefFormatError(s)
	}
	return NewRef(s), nil
}

// isValidRefBody reports whether s matches `e\d+` with at least one digit.
func isValidRefBody(s string) bool {
	if len(s) < 2 || s[0] != 'e' {
		return false
	}
	for _, r := range s[1:] {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// InvalidRefFormatError builds the standard "invalid ref format" error.
func InvalidRefFormatError(rejected string) error {
	return &Error{
		Kind:    ErrInvalidRefFormat,
		Message: fmt.Sprintf("Invalid reference format: '%s'. Expected format: e{hash} or {context}:e{hash}", rejected),
	}
}

// RefGenerator mints refs for elements during capture, preferring a node's
// native backend ref when the collaborator supplies one.
type RefGenerator struct {
	context string
	hasCtx  bool
	counter int
}

// NewRefGenerator constructs a generator with no context prefix.
func NewRefGenerator() *RefGenerator { return &RefGenerator{} }

// NewRefGeneratorWithContext constructs a generator that prefixes every
// minted ref with the given context name.
func NewRefGeneratorWithContext(context string) *RefGenerator {
	return &RefGenerator{context: context, hasCtx: true}
}

// Generate mints a ref for a node. When nativeRef is non-empty it is
// preferred (it reflects the backend node id the collaborator will resolve
// against); otherwise a sequential counter-based ref is minted.
func (g *RefGenerator) Generate(nativeRef string) Ref {
	var body string
	if nativeRef != "" {
		body = "e" + nativeRef
	} else {
		g.counter++
		body = fmt.Sprintf("e%d", g.counter)
	}
	if g.hasCtx {
		return NewRefWithContext(body, g.context)
	}
	return NewRef(body)
}
