package memo

import (
	"context"
	"errors"
	"time"
)

// OpRecorder receives one observation per store call.
type OpRecorder interface {
	ObserveStoreOp(backend, op, outcome string, d time.Duration)
}

// Outcome labels a store call result.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "error"
	}
}

type instrumentedStore struct {
	next     Store
	backend  string
	recorder OpRecorder
}

// Instrument wraps store so every call is reported to recorder. A nil
// recorder returns store unchanged.
func Instrument(store Store, backend Backend, recorder OpRecorder) Store {
	if recorder == nil {
		return store
	}
	return &instrumentedStore{next: store, backend: string(backend), recorder: recorder}
}

func (s *instrumentedStore) observe(op string, started time.Time, err error) {
	s.recorder.ObserveStoreOp(s.backend, op, Outcome(err), time.Since(started))
}

func (s *instrumentedStore) Insert(ctx context.Context, content string) (Memo, error) {
	started := time.Now()
	m, err := s.next.Insert(ctx, content)
	s.observe("insert", started, err)
	return m, err
}

func (s *instrumentedStore) List(ctx context.Context) ([]Memo, error) {
	started := time.Now()
	items, err := s.next.List(ctx)
	s.observe("list", started, err)
	return items, err
}

func (s *instrumentedStore) Delete(ctx context.Context, id ID) error {
	started := time.Now()
	err := s.next.Delete(ctx, id)
	s.observe("delete", started, err)
	return err
}

func (s *instrumentedStore) Close() error { return s.next.Close() }
