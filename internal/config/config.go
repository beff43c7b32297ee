package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ent0n29/memos/internal/memo"
)

// Config contains all runtime settings for the memo service.
type Config struct {
	BindAddr         string
	ShutdownTimeout  time.Duration
	MetricsNamespace string

	AllowAnyOrigin bool
	AccessLog      bool
	FeedBuffer     int

	StoreBackend memo.Backend
	ListOrder    memo.Order

	DatabaseURL string

	FirestoreProjectID             string
	FirestoreCollection            string
	FirestoreCredentialsJSON       string
	FirestoreCredentialsFile       string
	FirestoreUseDefaultCredentials bool
	FirestoreEmulatorHost          string
}

// Load reads environment variables, applies defaults and rejects settings
// that cannot open the selected backend.
func Load() (Config, error) {
	cfg := Config{
		BindAddr:                 envOrDefault("APP_BIND_ADDR", ":8080"),
		MetricsNamespace:         envOrDefault("APP_METRICS_NAMESPACE", "memos"),
		ShutdownTimeout:          15 * time.Second,
		FeedBuffer:               32,
		DatabaseURL:              stringsTrimSpace("DATABASE_URL"),
		FirestoreProjectID:       stringsTrimSpace("FIRESTORE_PROJECT_ID"),
		FirestoreCollection:      envOrDefault("FIRESTORE_COLLECTION", memo.DefaultCollection),
		FirestoreCredentialsJSON: stringsTrimSpace("FIRESTORE_CREDENTIALS_JSON"),
		FirestoreCredentialsFile: stringsTrimSpace("FIRESTORE_CREDENTIALS_FILE"),
		FirestoreEmulatorHost:    stringsTrimSpace("FIRESTORE_EMULATOR_HOST"),
	}

	var err error
	cfg.StoreBackend, err = memo.ParseBackend(os.Getenv("MEMO_STORE_BACKEND"))
	if err != nil {
		return Config{}, fmt.Errorf("MEMO_STORE_BACKEND: %w", err)
	}
	cfg.ListOrder, err = memo.ParseOrder(os.Getenv("MEMO_LIST_ORDER"))
	if err != nil {
		return Config{}, fmt.Errorf("MEMO_LIST_ORDER: %w", err)
	}
	cfg.ShutdownTimeout, err = durationFromEnv("APP_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout)
	if err != nil {
		return Config{}, err
	}
	cfg.FeedBuffer, err = intFromEnv("APP_FEED_BUFFER", cfg.FeedBuffer)
	if err != nil {
		return Config{}, err
	}
	cfg.AllowAnyOrigin, err = boolFromEnv("APP_ALLOW_ANY_ORIGIN", cfg.AllowAnyOrigin)
	if err != nil {
		return Config{}, err
	}
	cfg.AccessLog, err = boolFromEnv("APP_ACCESS_LOG", cfg.AccessLog)
	if err != nil {
		return Config{}, err
	}
	cfg.FirestoreUseDefaultCredentials, err = boolFromEnv("FIRESTORE_USE_DEFAULT_CREDENTIALS", false)
	if err != nil {
		return Config{}, err
	}

	if cfg.ShutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("APP_SHUTDOWN_TIMEOUT must be positive")
	}
	if cfg.FeedBuffer <= 0 {
		return Config{}, fmt.Errorf("APP_FEED_BUFFER must be positive")
	}
	if err := cfg.validateBackend(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validateBackend() error {
	switch c.StoreBackend {
	case memo.BackendPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("MEMO_STORE_BACKEND=postgres requires DATABASE_URL")
		}
	case memo.BackendFirestore:
		if c.FirestoreProjectID == "" {
			return fmt.Errorf("MEMO_STORE_BACKEND=firestore requires FIRESTORE_PROJECT_ID")
		}
		if c.FirestoreCredentialsJSON != "" && c.FirestoreCredentialsFile != "" {
			return fmt.Errorf("set only one of FIRESTORE_CREDENTIALS_JSON and FIRESTORE_CREDENTIALS_FILE")
		}
		if c.FirestoreCredentialsJSON == "" && c.FirestoreCredentialsFile == "" &&
			!c.FirestoreUseDefaultCredentials && c.FirestoreEmulatorHost == "" {
			return fmt.Errorf("MEMO_STORE_BACKEND=firestore requires FIRESTORE_CREDENTIALS_JSON, FIRESTORE_CREDENTIALS_FILE, FIRESTORE_USE_DEFAULT_CREDENTIALS=true or FIRESTORE_EMULATOR_HOST")
		}
	}
	return nil
}

// StoreConfig maps the settings onto the store factory input.
func (c Config) StoreConfig() memo.Config {
	return memo.Config{
		Backend:     c.StoreBackend,
		Order:       c.ListOrder,
		DatabaseURL: c.DatabaseURL,
		Firestore: memo.FirestoreConfig{
			ProjectID:             c.FirestoreProjectID,
			Collection:            c.FirestoreCollection,
			CredentialsJSON:       c.FirestoreCredentialsJSON,
			CredentialsFile:       c.FirestoreCredentialsFile,
			UseDefaultCredentials: c.FirestoreUseDefaultCredentials,
		},
	}
}

func envOrDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func stringsTrimSpace(key string) string {
	return strings.TrimSpace(os.Getenv(key))
}

func durationFromEnv(key string, fallback time.Duration) (time.Duration, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return d, nil
}

func intFromEnv(key string, fallback int) (int, error) {
	v := stringsTrimSpace(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s parse error: %w", key, err)
	}
	return n, nil
}

func boolFromEnv(key string, fallback bool) (bool, error) {
	v := strings.ToLower(stringsTrimSpace(key))
	if v == "" {
		return fallback, nil
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true, nil
	case "0", "false", "f", "no", "n", "off":
		return false, nil
	default:
		return false, fmt.Errorf("%s parse error: expected bool", key)
	}
}
