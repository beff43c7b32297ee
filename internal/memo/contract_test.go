package memo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
)

type openStoreFunc func(t *testing.T, order Order) Store

// runStoreContract exercises behaviour every backend must share. Content
// values carry a unique token so the checks hold against non-empty backends.
func runStoreContract(t *testing.T, open openStoreFunc) {
	t.Helper()

	t.Run("InsertThenList", func(t *testing.T) {
		s := open(t, OrderCreatedDesc)
		ctx := context.Background()

		before, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		content := "note " + uuid.NewString()
		created, err := s.Insert(ctx, content)
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if created.ID == "" {
			t.Fatalf("Insert() returned empty id")
		}
		if created.Content != content {
			t.Fatalf("Insert() content = %q, want %q", created.Content, content)
		}
		for _, m := range before {
			if m.ID == created.ID {
				t.Fatalf("Insert() reused id %q", created.ID)
			}
		}

		after, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		matches := 0
		for _, m := range after {
			if m.Content == content {
				matches++
				if m.ID != created.ID {
					t.Fatalf("listed id = %q, want %q", m.ID, created.ID)
				}
			}
		}
		if matches != 1 {
			t.Fatalf("listed %d memos with new content, want 1", matches)
		}
	})

	t.Run("ListIsRepeatable", func(t *testing.T) {
		s := open(t, OrderCreatedDesc)
		ctx := context.Background()
		for _, c := range []string{"one", "two", "three"} {
			if _, err := s.Insert(ctx, c+" "+uuid.NewString()); err != nil {
				t.Fatalf("Insert() error = %v", err)
			}
		}
		first, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		second, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		if len(first) != len(second) {
			t.Fatalf("List() lengths differ: %d vs %d", len(first), len(second))
		}
		for i := range first {
			if first[i].ID != second[i].ID || first[i].Content != second[i].Content {
				t.Fatalf("List()[%d] = %+v, then %+v", i, first[i], second[i])
			}
		}
	})

	t.Run("DeleteRemovesAndSecondDeleteFails", func(t *testing.T) {
		s := open(t, OrderCreatedDesc)
		ctx := context.Background()
		created, err := s.Insert(ctx, "bye "+uuid.NewString())
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if err := s.Delete(ctx, created.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		items, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		for _, m := range items {
			if m.ID == created.ID {
				t.Fatalf("deleted memo %q still listed", created.ID)
			}
		}
		if err := s.Delete(ctx, created.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("second Delete() error = %v, want ErrNotFound", err)
		}
	})

	t.Run("DeleteNeverIssued", func(t *testing.T) {
		s := open(t, OrderCreatedDesc)
		ctx := context.Background()
		created, err := s.Insert(ctx, "kept "+uuid.NewString())
		if err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		ids := []ID{
			"999999999", "not-an-id", "",
			"0" + created.ID, "+" + created.ID, " " + created.ID,
			"__x__", ".", "..", ID(strings.Repeat("a", 1501)),
		}
		for _, id := range ids {
			if err := s.Delete(ctx, id); !errors.Is(err, ErrNotFound) {
				t.Fatalf("Delete(%.20q) error = %v, want ErrNotFound", id, err)
			}
		}

		// None of the look-alike ids may have removed the real memo.
		items, err := s.List(ctx)
		if err != nil {
			t.Fatalf("List() error = %v", err)
		}
		found := false
		for _, m := range items {
			if m.ID == created.ID {
				found = true
			}
		}
		if !found {
			t.Fatalf("memo %q removed by a delete of a different id", created.ID)
		}
	})

	t.Run("EmptyContent", func(t *testing.T) {
		s := open(t, OrderCreatedDesc)
		created, err := s.Insert(context.Background(), "")
		if err != nil {
			t.Fatalf("Insert(\"\") error = %v", err)
		}
		if created.ID == "" || created.Content != "" {
			t.Fatalf("Insert(\"\") = %+v", created)
		}
	})

	t.Run("CreatedDescOrder", func(t *testing.T) {
		s := open(t, OrderCreatedDesc)
		ctx := context.Background()
		token := uuid.NewString()
		a, err := s.Insert(ctx, "A "+token)
		if err != nil {
			t.Fatalf("Insert(A) error = %v", err)
		}
		// Keep server-side clocks from assigning equal timestamps.
		time.Sleep(5 * time.Millisecond)
		b, err := s.Insert(ctx, "B "+token)
		if err != nil {
			t.Fatalf("Insert(B) error = %v", err)
		}
		got := idsWithToken(t, s, token)
		want := []ID{b.ID, a.ID}
		if !equalIDs(got, want) {
			t.Fatalf("List() ids = %v, want %v", got, want)
		}
	})

	t.Run("CreatedAscOrder", func(t *testing.T) {
		s := open(t, OrderCreatedAsc)
		ctx := context.Background()
		token := uuid.NewString()
		a, err := s.Insert(ctx, "A "+token)
		if err != nil {
			t.Fatalf("Insert(A) error = %v", err)
		}
		time.Sleep(5 * time.Millisecond)
		b, err := s.Insert(ctx, "B "+token)
		if err != nil {
			t.Fatalf("Insert(B) error = %v", err)
		}
		got := idsWithToken(t, s, token)
		want := []ID{a.ID, b.ID}
		if !equalIDs(got, want) {
			t.Fatalf("List() ids = %v, want %v", got, want)
		}
	})

	t.Run("ContentAscOrder", func(t *testing.T) {
		s := open(t, OrderContentAsc)
		ctx := context.Background()
		token := uuid.NewString()
		zebra, err := s.Insert(ctx, "zebra "+token)
		if err != nil {
			t.Fatalf("Insert(zebra) error = %v", err)
		}
		apple, err := s.Insert(ctx, "apple "+token)
		if err != nil {
			t.Fatalf("Insert(apple) error = %v", err)
		}
		got := idsWithToken(t, s, token)
		want := []ID{apple.ID, zebra.ID}
		if !equalIDs(got, want) {
			t.Fatalf("List() ids = %v, want %v", got, want)
		}
	})
}

func idsWithToken(t *testing.T, s Store, token string) []ID {
	t.Helper()
	items, err := s.List(context.Background())
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	var out []ID
	for _, m := range items {
		if strings.HasSuffix(m.Content, token) {
			out = append(out, m.ID)
		}
	}
	return out
}

func equalIDs(a, b []ID) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
