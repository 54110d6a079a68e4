package docstore

import "testing"

func TestNotifyReachesEveryListener(t *testing.T) {
	t.Parallel()

	n := NewChangeNotifier()

	first, cancelFirst := n.Listen("products")
	defer cancelFirst()
	second, cancelSecond := n.Listen("products")
	defer cancelSecond()

	n.Notify("products")

	select {
	case <-first:
	default:
		t.Fatal("expected a signal on the first listener")
	}
	select {
	case <-second:
	default:
		t.Fatal("expected a signal on the second listener")
	}
}

func TestNotifySignalsCoalesce(t *testing.T) {
	t.Parallel()

	n := NewChangeNotifier()
	ch, cancel := n.Listen("products")
	defer cancel()

	n.Notify("products")
	n.Notify("products")
	n.Notify("products")

	<-ch
	select {
	case <-ch:
		t.Fatal("expected undrained signals to coalesce into one")
	default:
	}
}

func TestNotifyScopedToCollection(t *testing.T) {
	t.Parallel()

	n := NewChangeNotifier()
	ch, cancel := n.Listen("products")
	defer cancel()

	n.Notify("orders")

	select {
	case <-ch:
		t.Fatal("expected no signal for an unrelated collection")
	default:
	}
}

func TestCancelStopsDelivery(t *testing.T) {
	t.Parallel()

	n := NewChangeNotifier()
	ch, cancel := n.Listen("products")
	cancel()

	n.Notify("products")

	select {
	case <-ch:
		t.Fatal("expected no signal after cancel")
	default:
	}
}
