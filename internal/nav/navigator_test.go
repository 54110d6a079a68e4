package nav

import "testing"

func TestInitialViewIsCatalog(t *testing.T) {
	t.Parallel()

	n := New(nil)
	if n.Current() != ViewCatalog {
		t.Fatalf("expected initial view catalog, got %s", n.Current())
	}
}

func TestSwitchToIgnoresUnknownView(t *testing.T) {
	t.Parallel()

	n := New(nil)
	n.SwitchTo(ViewCart)

	if got := n.SwitchTo(View("mystery")); got != ViewCart {
		t.Fatalf("expected unknown view to be ignored, got %s", got)
	}
}

func TestSwitchInvokesSinkOnAcceptedTransitions(t *testing.T) {
	t.Parallel()

	var switches []View
	n := New(func(v View) { switches = append(switches, v) })

	n.SwitchTo(ViewAdmin)
	n.SwitchTo(View("bogus"))
	n.SwitchTo(ViewCart)

	if len(switches) != 2 || switches[0] != ViewAdmin || switches[1] != ViewCart {
		t.Fatalf("unexpected sink invocations: %v", switches)
	}
}

func TestCheckoutGuardRedirectsWhenEmpty(t *testing.T) {
	t.Parallel()

	empty := true
	n := New(nil)
	n.Guard(ViewCheckout, func() View {
		if empty {
			return ViewCatalog
		}
		return ViewCheckout
	})

	if got := n.SwitchTo(ViewCheckout); got != ViewCatalog {
		t.Fatalf("expected redirect to catalog, got %s", got)
	}

	empty = false
	if got := n.SwitchTo(ViewCheckout); got != ViewCheckout {
		t.Fatalf("expected checkout to be reachable, got %s", got)
	}
}

func TestParseView(t *testing.T) {
	t.Parallel()

	if v, ok := ParseView("confirmation"); !ok || v != ViewConfirmation {
		t.Fatalf("expected confirmation, got %s ok=%v", v, ok)
	}
	if _, ok := ParseView("products-view"); ok {
		t.Fatal("expected unknown name to be rejected")
	}
}
