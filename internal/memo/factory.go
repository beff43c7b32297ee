package memo

import (
	"context"
	"fmt"
	"strings"
)

// Backend names a storage medium.
type Backend string

const (
	BackendMemory    Backend = "memory"
	BackendPostgres  Backend = "postgres"
	BackendFirestore Backend = "firestore"
)

// ParseBackend validates a configured backend name. Empty means memory.
func ParseBackend(raw string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(raw))); b {
	case "":
		return BackendMemory, nil
	case BackendMemory, BackendPostgres, BackendFirestore:
		return b, nil
	default:
		return "", fmt.Errorf("invalid store backend %q (expected memory|postgres|firestore)", raw)
	}
}

// Config describes which backend to open and how to reach it.
type Config struct {
	Backend     Backend
	Order       Order
	DatabaseURL string
	Firestore   FirestoreConfig
}

// NewStore opens the configured backend. Missing connection parameters are
// an error rather than a reason to fall back to another backend.
func NewStore(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return NewInMemoryStore(cfg.Order), nil
	case BackendPostgres:
		if strings.TrimSpace(cfg.DatabaseURL) == "" {
			return nil, fmt.Errorf("postgres backend requires a database url")
		}
		return NewPostgresStore(ctx, cfg.DatabaseURL, cfg.Order)
	case BackendFirestore:
		return NewFirestoreStore(ctx, cfg.Firestore, cfg.Order)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
