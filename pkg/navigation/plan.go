package navigation

// Effect is the single side effect a resolution performs.
type Effect uint8

const (
	// EffectNone performs nothing.
	EffectNone Effect = iota
	// EffectOpenTab opens Value in a new tab.
	EffectOpenTab
	// EffectScroll smooth-scrolls to the element whose id is Value.
	EffectScroll
	// EffectPush hands Value to the client-side router.
	EffectPush
)

func (e Effect) String() string {
	switch e {
	case EffectNone:
		return "none"
	case EffectOpenTab:
		return "open-tab"
	case EffectScroll:
		return "scroll"
	case EffectPush:
		return "push"
	default:
		return "unknown"
	}
}

// Action is a planned effect.
type Action struct {
	Effect Effect
	Value  string

	// Strict marks scrolls whose missing target should be reported. Only
	// plain "#id" hrefs are strict.
	Strict bool
}

// Plan decides what t does when the user is on currentPath. It does not
// check whether a scroll target exists; the Document answers that.
func Plan(t Target, currentPath string) Action {
	switch t.Kind {
	case External:
		return Action{Effect: EffectOpenTab, Value: t.URL}
	case SamePageAnchor:
		return Action{Effect: EffectScroll, Value: t.Fragment, Strict: true}
	case CrossPageAnchor:
		if t.Path == "" || t.Path == currentPath {
			return Action{Effect: EffectScroll, Value: t.Fragment}
		}
		return Action{Effect: EffectPush, Value: t.Href}
	case InternalPath:
		return Action{Effect: EffectPush, Value: t.Path}
	default:
		return Action{Effect: EffectNone}
	}
}
