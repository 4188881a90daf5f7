package store

import "sync"

// Subscription is a handle to one live collection subscription.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Cancel is idempotent. Deliveries hold the same lock cancellation takes, so
// once Cancel returns no callback is running or will run again. Do not call
// it from inside the subscription's own callback.
func (s *Subscription) Cancel() {
	s.once.Do(s.cancel)
}

// notifier is the subscriber registry shared by every backend. Publishing
// runs the callbacks while holding the registry lock, which keeps deliveries
// for a collection serial and in write order.
type notifier struct {
	mu     sync.Mutex
	nextID int
	subs   map[string]map[int]func(Snapshot)
}

func newNotifier() *notifier {
	return &notifier{
		subs: make(map[string]map[int]func(Snapshot)),
	}
}

// subscribe registers fn and fires it once with initial before any later
// publish can slip in.
func (n *notifier) subscribe(collection string, fn func(Snapshot), initial Snapshot) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	id := n.nextID
	n.nextID++
	if n.subs[collection] == nil {
		n.subs[collection] = make(map[int]func(Snapshot))
	}
	n.subs[collection][id] = fn

	fn(initial)

	return &Subscription{
		cancel: func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			delete(n.subs[collection], id)
		},
	}
}

func (n *notifier) publish(collection string, snap Snapshot) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, fn := range n.subs[collection] {
		fn(snap.Clone())
	}
}
