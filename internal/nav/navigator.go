// Package nav drives the storefront's view state machine.
package nav

// View names one of the storefront's screens.
type View string

const (
	ViewCatalog      View = "catalog"
	ViewCart         View = "cart"
	ViewCheckout     View = "checkout"
	ViewConfirmation View = "confirmation"
	ViewAdmin        View = "admin"
)

var validViews = []View{
	ViewCatalog,
	ViewCart,
	ViewCheckout,
	ViewConfirmation,
	ViewAdmin,
}

// String implements fmt.Stringer.
func (v View) String() string {
	return string(v)
}

// IsValid reports whether the value is a known View.
func (v View) IsValid() bool {
	for _, candidate := range validViews {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseView converts raw input into a View.
func ParseView(value string) (View, bool) {
	for _, candidate := range validViews {
		if string(candidate) == value {
			return candidate, true
		}
	}
	return "", false
}

// EntryGuard runs when a view is about to activate. Returning a different
// view redirects the transition there instead.
type EntryGuard func() View

// Navigator holds the single active view. Exactly one view is active at
// any time; transitions come only from external requests.
type Navigator struct {
	current  View
	guards   map[View]EntryGuard
	onSwitch func(View)
}

// New starts on the catalog view. onSwitch is the DOM-visibility sink: it
// fires after every accepted transition (scroll reset lives there too).
func New(onSwitch func(View)) *Navigator {
	return &Navigator{
		current:  ViewCatalog,
		guards:   map[View]EntryGuard{},
		onSwitch: onSwitch,
	}
}

// Guard installs an entry guard for a view.
func (n *Navigator) Guard(view View, guard EntryGuard) {
	n.guards[view] = guard
}

// SwitchTo activates the requested view. Unrecognized views are ignored
// with no error surfaced. Entry guards may redirect; a redirect target's
// own guard runs as well, bounded by the number of views so a guard cycle
// cannot loop forever.
func (n *Navigator) SwitchTo(view View) View {
	if !view.IsValid() {
		return n.current
	}

	for range validViews {
		guard, ok := n.guards[view]
		if !ok {
			break
		}
		redirect := guard()
		if redirect == view || !redirect.IsValid() {
			break
		}
		view = redirect
	}

	n.current = view
	if n.onSwitch != nil {
		n.onSwitch(view)
	}
	return n.current
}

// Current returns the active view.
func (n *Navigator) Current() View {
	return n.current
}
