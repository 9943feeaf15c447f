package services

import (
	"sync"
)

// Table identifies one of the observable entity collections
type Table string

// Observable tables
const (
	TableCustomers         Table = "customers"
	TableMeasurements      Table = "measurements"
	TableMeasurementFields Table = "measurement_fields"
	TableOrders            Table = "orders"
)

// Event is delivered to subscribers after a committed write. Seq is a
// monotonically increasing version: a subscriber that misses intermediate
// events still recomputes against the newest state.
type Event struct {
	Table Table
	Seq   uint64
}

// Subscription receives change events for a set of tables until closed
type Subscription struct {
	notifier *Notifier
	id       int
	tables   map[Table]bool
	ch       chan Event
	closed   bool
}

// Events returns the channel change events are delivered on
func (s *Subscription) Events() <-chan Event {
	return s.ch
}

// Close unregisters the subscription and releases its channel
func (s *Subscription) Close() {
	s.notifier.unsubscribe(s)
}

// Notifier is the table-change hub behind every live query: writers publish
// the tables they touched after commit, and each subscriber recomputes its
// view. Delivery is coalescing: the channel holds at most one pending event,
// so a slow subscriber sees a single wakeup for a burst of writes rather than
// a backlog.
type Notifier struct {
	mu     sync.Mutex
	nextID int
	seq    uint64
	subs   map[int]*Subscription
}

// NewNotifier creates an empty change hub
func NewNotifier() *Notifier {
	return &Notifier{
		subs: make(map[int]*Subscription),
	}
}

var notifierInstance *Notifier

// InitNotifier initializes the global notifier instance
func InitNotifier() *Notifier {
	notifierInstance = NewNotifier()
	return notifierInstance
}

// GetNotifier returns the global notifier instance
func GetNotifier() *Notifier {
	return notifierInstance
}

// SetNotifier sets the global notifier instance (primarily for testing)
func SetNotifier(n *Notifier) {
	notifierInstance = n
}

// Subscribe registers interest in the given tables. An empty table list
// subscribes to every table.
func (n *Notifier) Subscribe(tables ...Table) *Subscription {
	n.mu.Lock()
	defer n.mu.Unlock()

	sub := &Subscription{
		notifier: n,
		id:       n.nextID,
		tables:   make(map[Table]bool, len(tables)),
		ch:       make(chan Event, 1),
	}
	for _, t := range tables {
		sub.tables[t] = true
	}
	n.nextID++
	n.subs[sub.id] = sub
	return sub
}

func (n *Notifier) unsubscribe(s *Subscription) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	delete(n.subs, s.id)
	close(s.ch)
}

// Publish notifies subscribers that the given tables changed. Must be called
// after the write has committed so that recomputation sees the new state.
func (n *Notifier) Publish(tables ...Table) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.seq++
	for _, table := range tables {
		ev := Event{Table: table, Seq: n.seq}
		for _, sub := range n.subs {
			if len(sub.tables) > 0 && !sub.tables[table] {
				continue
			}
			select {
			case sub.ch <- ev:
			default:
				// A pending event already covers this change; the subscriber
				// recomputes from current state when it drains the channel.
			}
		}
	}
}
