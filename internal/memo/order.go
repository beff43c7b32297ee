package memo

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Order is the list ordering policy applied by every backend.
type Order string

const (
	OrderCreatedDesc Order = "created_desc"
	OrderCreatedAsc  Order = "created_asc"
	OrderContentAsc  Order = "content_asc"
)

// ParseOrder validates a configured ordering policy. Empty means the default.
func ParseOrder(raw string) (Order, error) {
	switch o := Order(strings.ToLower(strings.TrimSpace(raw))); o {
	case "":
		return OrderCreatedDesc, nil
	case OrderCreatedDesc, OrderCreatedAsc, OrderContentAsc:
		return o, nil
	default:
		return "", fmt.Errorf("invalid list order %q (expected created_desc|created_asc|content_asc)", raw)
	}
}

// sortMemos orders items in place. Creation ties fall back to the id so the
// result is stable across calls.
func sortMemos(items []Memo, order Order) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		switch order {
		case OrderCreatedAsc:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return idLess(a.ID, b.ID)
		case OrderContentAsc:
			if a.Content != b.Content {
				return a.Content < b.Content
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.Before(b.CreatedAt)
			}
			return idLess(a.ID, b.ID)
		default:
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return idLess(b.ID, a.ID)
		}
	})
}

// idLess compares numerically when both ids are integers.
func idLess(a, b ID) bool {
	na, errA := strconv.ParseInt(string(a), 10, 64)
	nb, errB := strconv.ParseInt(string(b), 10, 64)
	if errA == nil && errB == nil {
		return na < nb
	}
	return a < b
}
