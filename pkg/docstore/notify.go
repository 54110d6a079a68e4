package docstore

import "sync"

// ChangeNotifier fans out in-process change signals per collection. It backs
// the store implementations that have no external change channel of their
// own (memory, sqlite).
type ChangeNotifier struct {
	mu   sync.Mutex
	subs map[string]map[int]chan struct{}
	next int
}

func NewChangeNotifier() *ChangeNotifier {
	return &ChangeNotifier{subs: map[string]map[int]chan struct{}{}}
}

// Listen registers for change signals on a collection. The returned cancel
// must be called when the listener goes away.
func (n *ChangeNotifier) Listen(collection string) (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.next
	n.next++

	ch := make(chan struct{}, 1)
	if n.subs[collection] == nil {
		n.subs[collection] = map[int]chan struct{}{}
	}
	n.subs[collection][id] = ch

	cancel := func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[collection], id)
	}
	return ch, cancel
}

// Notify signals every listener on the collection. Signals coalesce: a
// listener that has not drained its pending signal gets no second one, which
// is safe because deliveries are full snapshots.
func (n *ChangeNotifier) Notify(collection string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for _, ch := range n.subs[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
