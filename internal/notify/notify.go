// Package notify fans committed item changes out to live subscribers.
//
// Changes are published once a write transaction commits. Each subscriber is
// only signaled after a burst of matching changes settles, so a client that
// re-reads its item list on every signal does it once per burst.
package notify

import (
	"sync"
	"time"

	"github.com/bep/debounce"
	"github.com/mdouchement/itemlist/internal/model"
)

// DefaultDelay is the quiet period used to coalesce bursts of changes.
const DefaultDelay = 100 * time.Millisecond

// A Kind qualifies a Change.
type Kind int

const (
	// Inserted means the item has been created.
	Inserted Kind = iota
	// Updated means the item has been modified.
	Updated
	// Deleted means the item has been removed.
	Deleted
)

func (k Kind) String() string {
	switch k {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// A Change is a committed mutation of an item.
type Change struct {
	Kind Kind
	Item model.Item
}

type (
	// A Hub dispatches changes to subscriptions.
	Hub struct {
		mu     sync.Mutex
		delay  time.Duration
		subs   map[*Subscription]struct{}
		closed bool
	}

	// A Subscription receives a signal on C after matching changes.
	Subscription struct {
		hub       *Hub
		owner     string
		c         chan struct{}
		debounced func(func())

		mu   sync.Mutex
		done bool
	}
)

// NewHub returns a new Hub coalescing changes during the given delay.
// A zero delay means DefaultDelay.
func NewHub(delay time.Duration) *Hub {
	if delay <= 0 {
		delay = DefaultDelay
	}

	return &Hub{
		delay: delay,
		subs:  map[*Subscription]struct{}{},
	}
}

// Subscribe registers a new subscription for the items of the given owner.
// An empty owner subscribes to the changes of all owners.
func (h *Hub) Subscribe(owner string) *Subscription {
	s := &Subscription{
		hub:       h,
		owner:     owner,
		c:         make(chan struct{}, 1),
		debounced: debounce.New(h.delay),
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		s.done = true
		close(s.c)
		return s
	}

	h.subs[s] = struct{}{}
	return s
}

// Publish dispatches the given changes to the matching subscriptions.
func (h *Hub) Publish(changes ...Change) {
	if len(changes) == 0 {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs {
		for _, change := range changes {
			if s.matches(change) {
				s.debounced(s.signal)
				break
			}
		}
	}
}

// Len returns the number of active subscriptions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	return len(h.subs)
}

// Close terminates all the subscriptions.
// Subscribing to a closed hub returns an already terminated subscription.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := h.subs
	h.subs = map[*Subscription]struct{}{}
	h.closed = true
	h.mu.Unlock()

	for s := range subs {
		s.terminate()
	}
}

func (h *Hub) remove(s *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	delete(h.subs, s)
}

// C returns the channel signaled after matching changes.
// It is closed once the subscription is terminated.
func (s *Subscription) C() <-chan struct{} {
	return s.c
}

// Unsubscribe stops the delivery and closes the channel.
func (s *Subscription) Unsubscribe() {
	s.hub.remove(s)
	s.terminate()
}

func (s *Subscription) matches(change Change) bool {
	return s.owner == "" || change.Item.OwnerID == s.owner
}

func (s *Subscription) signal() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return
	}

	select {
	case s.c <- struct{}{}:
	default: // a signal is already pending
	}
}

func (s *Subscription) terminate() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.done {
		return
	}
	s.done = true
	close(s.c)
}
