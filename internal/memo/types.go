package memo

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Delete when no memo carries the given id.
var ErrNotFound = errors.New("memo not found")

// ID identifies a memo. Integer backends issue decimal strings, document
// backends issue opaque tokens.
type ID string

// Memo is a single persisted note.
type Memo struct {
	ID        ID        `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"-"`
}

// Store persists and retrieves memos.
type Store interface {
	Insert(ctx context.Context, content string) (Memo, error)
	List(ctx context.Context) ([]Memo, error)
	Delete(ctx context.Context, id ID) error
	Close() error
}
