package service

import (
	"sync"
	"time"

	"mt_console/internal/domain"
)

// DefaultNotificationTTL is the visibility window for operator notifications.
const DefaultNotificationTTL = 3 * time.Second

// Notifier holds ephemeral operator messages with auto-expiry. Display order
// is insertion order; IDs are unique across the session (wall-clock millis
// with a monotonic tiebreaker for same-tick pushes).
type Notifier struct {
	mu     sync.Mutex
	ttl    time.Duration
	items  []domain.Notification
	timers map[int64]*time.Timer
	lastID int64
	closed bool
}

// NewNotifier creates a notifier with the given visibility window.
func NewNotifier(ttl time.Duration) *Notifier {
	if ttl <= 0 {
		ttl = DefaultNotificationTTL
	}
	return &Notifier{
		ttl:    ttl,
		timers: make(map[int64]*time.Timer),
	}
}

// Push enqueues a message and schedules its expiry. It returns the assigned id.
func (n *Notifier) Push(message string, severity domain.Severity) int64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return 0
	}

	now := time.Now()
	id := now.UnixMilli()
	if id <= n.lastID {
		id = n.lastID + 1
	}
	n.lastID = id

	n.items = append(n.items, domain.Notification{
		ID:        id,
		Message:   message,
		Severity:  severity,
		CreatedAt: now,
	})
	n.timers[id] = time.AfterFunc(n.ttl, func() { n.Dismiss(id) })
	return id
}

// Dismiss removes a notification early and releases its timer. Dismissing an
// already-expired id is a no-op.
func (n *Notifier) Dismiss(id int64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if t, ok := n.timers[id]; ok {
		t.Stop()
		delete(n.timers, id)
	}
	for i, item := range n.items {
		if item.ID == id {
			n.items = append(n.items[:i], n.items[i+1:]...)
			return
		}
	}
}

// Active returns the currently visible notifications in insertion order.
func (n *Notifier) Active() []domain.Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]domain.Notification, len(n.items))
	copy(out, n.items)
	return out
}

// Close stops all expiry timers and drops pending notifications. Pushes after
// Close are ignored, which lets late responses from a torn-down session land
// harmlessly.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.closed = true
	for id, t := range n.timers {
		t.Stop()
		delete(n.timers, id)
	}
	n.items = nil
}
