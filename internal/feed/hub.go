package feed

import (
	"sync"
	"time"

	"github.com/ent0n29/memos/internal/memo"
)

type EventType string

const (
	EventMemoCreated EventType = "memo.created"
	EventMemoDeleted EventType = "memo.deleted"
)

// Event announces a change to the memo collection.
type Event struct {
	Type    EventType `json:"type"`
	ID      memo.ID   `json:"id"`
	Content string    `json:"content,omitempty"`
	At      time.Time `json:"at"`
}

func Created(m memo.Memo) Event {
	return Event{Type: EventMemoCreated, ID: m.ID, Content: m.Content, At: time.Now().UTC()}
}

func Deleted(id memo.ID) Event {
	return Event{Type: EventMemoDeleted, ID: id, At: time.Now().UTC()}
}

// Hub fans events out to subscribers. Publish never blocks; a subscriber
// whose buffer is full misses the event.
type Hub struct {
	mu      sync.RWMutex
	subs    map[chan Event]struct{}
	buffer  int
	onDrop  func()
	onCount func(int)
}

func NewHub(buffer int) *Hub {
	if buffer <= 0 {
		buffer = 16
	}
	return &Hub{subs: make(map[chan Event]struct{}), buffer: buffer}
}

// SetHooks installs callbacks for dropped events and subscriber count changes.
func (h *Hub) SetHooks(onDrop func(), onCount func(int)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onDrop = onDrop
	h.onCount = onCount
}

// Subscribe registers a new listener. The returned func unsubscribes and
// closes the channel; it is safe to call more than once.
func (h *Hub) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	h.subs[ch] = struct{}{}
	n, onCount := len(h.subs), h.onCount
	h.mu.Unlock()
	if onCount != nil {
		onCount(n)
	}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.subs, ch)
			close(ch)
			n, onCount := len(h.subs), h.onCount
			h.mu.Unlock()
			if onCount != nil {
				onCount(n)
			}
		})
	}
}

func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for ch := range h.subs {
		select {
		case ch <- ev:
		default:
			if h.onDrop != nil {
				h.onDrop()
			}
		}
	}
}

func (h *Hub) Subscribers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
