package memo

import (
	"context"
	"sort"
	"strconv"
	"sync"
	"time"
)

// InMemoryStore keeps memos in process memory for local/dev use.
type InMemoryStore struct {
	mu     sync.RWMutex
	order  Order
	nextID int64
	items  []Memo
	now    func() time.Time
}

func NewInMemoryStore(order Order) *InMemoryStore {
	if order == "" {
		order = OrderCreatedDesc
	}
	return &InMemoryStore{order: order, now: time.Now}
}

func (s *InMemoryStore) Insert(_ context.Context, content string) (Memo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m := Memo{
		ID:        ID(strconv.FormatInt(s.nextID, 10)),
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	s.items = append(s.items, m)
	return m, nil
}

// List orders by insertion rather than by the recorded wall-clock time, so
// a clock stepping backwards cannot reorder memos.
func (s *InMemoryStore) List(_ context.Context) ([]Memo, error) {
	s.mu.RLock()
	out := make([]Memo, len(s.items))
	copy(out, s.items)
	s.mu.RUnlock()

	switch s.order {
	case OrderCreatedAsc:
	case OrderContentAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Content < out[j].Content })
	default:
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out, nil
}

func (s *InMemoryStore) Delete(_ context.Context, id ID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func (s *InMemoryStore) Close() error { return nil }
