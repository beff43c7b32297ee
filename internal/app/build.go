package app

import (
	"context"
	"fmt"

	"github.com/ent0n29/memos/internal/config"
	"github.com/ent0n29/memos/internal/feed"
	"github.com/ent0n29/memos/internal/httpapi"
	"github.com/ent0n29/memos/internal/memo"
	"github.com/ent0n29/memos/internal/observability"
)

type BuildResult struct {
	Config  config.Config
	API     *httpapi.Server
	Store   memo.Store
	Hub     *feed.Hub
	Metrics *observability.Metrics

	// Cleanup should be called on shutdown to release the store connection.
	Cleanup func() error
}

func Build(ctx context.Context, cfg config.Config) (*BuildResult, error) {
	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	base, err := memo.NewStore(ctx, cfg.StoreConfig())
	if err != nil {
		return nil, fmt.Errorf("memo store init failed: %w", err)
	}
	store := memo.Instrument(base, cfg.StoreBackend, metrics)

	hub := feed.NewHub(cfg.FeedBuffer)
	hub.SetHooks(
		func() { metrics.FeedDropped.Inc() },
		func(n int) { metrics.FeedSubscribers.Set(float64(n)) },
	)

	api := httpapi.New(cfg, store, hub, metrics)

	return &BuildResult{
		Config:  cfg,
		API:     api,
		Store:   store,
		Hub:     hub,
		Metrics: metrics,
		Cleanup: store.Close,
	}, nil
}
