package snapshot

import "strings"

// Tier classifies an ARIA role for ref-assignment purposes.
type Tier int

// Tier constants.
const (
	TierAlwaysInteractive Tier = iota
	TierContextuallyInteractive
	TierStructural
)

// tier1Roles always receive a ref.
var tier1Roles = map[string]struct{}{
	"button": {}, "link": {}, "textbox": {}, "checkbox": {}, "radio": {},
	"combobox": {}, "slider": {}, "menuitem": {}, "menuitemcheckbox": {},
	"menuitemradio": {}, "tab": {}, "switch": {}, "searchbox": {},
	"spinbutton": {}, "scrollbar": {}, "progressbar": {},
}

// tier2Roles receive a ref only inside an interactive container.
var tier2Roles = map[string]struct{}{
	"listitem": {}, "option": {}, "treeitem": {}, "row": {}, "cell": {},
	"gridcell": {}, "columnheader": {}, "rowheader": {},
}

// tier3Roles never receive a ref.
var tier3Roles = map[string]struct{}{
	"heading": {}, "paragraph": {}, "text": {}, "separator": {}, "img": {},
	"figure": {}, "main": {}, "navigation": {}, "banner": {}, "contentinfo": {},
	"complementary": {}, "region": {}, "article": {}, "document": {},
	"group": {}, "list": {}, "table": {}, "tree": {}, "grid": {}, "menu": {},
	"menubar": {}, "tablist": {}, "toolbar": {}, "status": {}, "alert": {},
	"log": {}, "marquee": {}, "timer": {}, "none": {}, "presentation": {},
}

// interactiveContainers are roles whose Tier-2 descendants become refable.
var interactiveContainers = map[string]struct{}{
	"listbox": {}, "combobox": {}, "tree": {}, "grid": {}, "menu": {},
	"menubar": {}, "tablist": {}, "radiogroup": {},
}

// ClassifyRole maps a role string to its tier, case-insensitively. Unknown
// roles default to TierStructural.
func ClassifyRole(role string) Tier {
	r := strings.ToLower(role)
	if _, ok := tier1Roles[r]; ok {
		return TierAlwaysInteractive
	}
	if _, ok := tier2Roles[r]; ok {
		return TierContextuallyInteractive
	}
	if _, ok := tier3Roles[r]; ok {
		return TierStructural
	}
	return TierStructural
}

// IsInteractiveContainer reports whether role's Tier-2 descendants become
// refable.
func IsInteractiveContainer(role string) bool {
	_, ok := interactiveContainers[strings.ToLower(role)]
	return ok
}

// ShouldReceiveRef decides if a node of the given role should be refed,
// given whether it is nested in an interactive container and whether its
// tabindex is non-negative (which always forces a ref regardless of tier).
func ShouldReceiveRef(role string, inInteractiveContainer, hasNonNegativeTabIndex bool) bool {
	if hasNonNegativeTabIndex {
		return true
	}
	switch ClassifyRole(role) {
	case TierAlwaysInteractive:
		return true
	case TierContextuallyInteractive:
		return inInteractiveContainer
	default:
		return false
	}
}
